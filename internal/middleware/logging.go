package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type requestLogKey struct{}

// requestLog is filled in while the request is served and read once the
// handler returns. A timed-out handler may still be writing to it.
type requestLog struct {
	requestID string

	mu     sync.Mutex
	userID string
}

func (l *requestLog) user() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.userID
}

// envelopeFailure picks the failure fields out of a JSON response envelope.
type envelopeFailure struct {
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

// Logging emits one line per request. Requests that passed RequireAuth carry
// the user id.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := &requestLog{requestID: r.Header.Get(requestIDHeader)}
		if entry.requestID == "" {
			entry.requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, entry.requestID)

		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestLogKey{}, entry)))

		attrs := []any{
			"request_id", entry.requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(started).Milliseconds(),
			"client_ip", ClientIP(r),
		}
		if userID := entry.user(); userID != "" {
			attrs = append(attrs, "user_id", userID)
		}
		attrs = append(attrs, failureAttrs(rec)...)

		switch {
		case rec.status >= http.StatusInternalServerError:
			slog.Error("request", attrs...)
		case rec.status >= http.StatusBadRequest:
			slog.Warn("request", attrs...)
		default:
			slog.Info("request", attrs...)
		}
	})
}

// RequestIDFromContext returns the id Logging assigned to the request.
func RequestIDFromContext(ctx context.Context) string {
	if entry, ok := ctx.Value(requestLogKey{}).(*requestLog); ok {
		return entry.requestID
	}
	return ""
}

func noteUser(ctx context.Context, userID string) {
	if entry, ok := ctx.Value(requestLogKey{}).(*requestLog); ok {
		entry.mu.Lock()
		entry.userID = userID
		entry.mu.Unlock()
	}
}

func failureAttrs(rec *statusRecorder) []any {
	if rec.status < http.StatusBadRequest || rec.body.Len() == 0 {
		return nil
	}

	var parsed envelopeFailure
	if err := json.Unmarshal(rec.body.Bytes(), &parsed); err != nil {
		return nil
	}
	if parsed.Error == nil {
		if parsed.Message == "" {
			return nil
		}
		return []any{"error_message", parsed.Message}
	}

	attrs := []any{"error_code", parsed.Error.Code, "error_message", parsed.Error.Message}
	if parsed.Error.Details != "" {
		attrs = append(attrs, "error_details", parsed.Error.Details)
	}
	return attrs
}

// statusRecorder captures the status code and, for failures, the body.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func (rec *statusRecorder) WriteHeader(statusCode int) {
	if rec.wroteHeader {
		return
	}
	rec.status = statusCode
	rec.wroteHeader = true
	rec.ResponseWriter.WriteHeader(statusCode)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if !rec.wroteHeader {
		rec.WriteHeader(http.StatusOK)
	}
	if rec.status >= http.StatusBadRequest {
		rec.body.Write(b)
	}
	return rec.ResponseWriter.Write(b)
}

func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}
