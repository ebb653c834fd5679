package handler

import (
	"context"
	"net/http"
	"strings"

	"go-social-auth/internal/model"
)

type auditService interface {
	List(ctx context.Context, q model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}

type AuditHandler struct {
	service auditService
}

func NewAuditHandler(service auditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// Activity lists the caller's own authentication history.
func (h *AuditHandler) Activity(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	items, meta, err := h.service.List(r.Context(), model.AuditQuery{
		ActorID: currentUserID(r),
		Action:  strings.TrimSpace(query.Get("action")),
		Page:    parseIntOrDefault(query.Get("page"), 1),
		Limit:   parseIntOrDefault(query.Get("limit"), 0),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", model.AuditListData{Items: items}, &meta)
}
