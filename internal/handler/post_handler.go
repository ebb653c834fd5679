package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-social-auth/internal/model"
	"go-social-auth/pkg/apierror"
)

type postService interface {
	List(ctx context.Context, query model.PostQuery) ([]model.Post, model.Meta, error)
	Create(ctx context.Context, ownerID string, content string, image string) (model.Post, error)
	Get(ctx context.Context, id string) (model.Post, error)
	Update(ctx context.Context, callerID string, id string, update model.PostUpdate) (model.Post, error)
	Delete(ctx context.Context, callerID string, id string) error
}

type PostHandler struct {
	service postService
}

func NewPostHandler(service postService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "")
}

func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, apierror.New("BAD_REQUEST", "user id is required", "userId", http.StatusBadRequest))
		return
	}
	h.list(w, r, userID)
}

func (h *PostHandler) list(w http.ResponseWriter, r *http.Request, ownerID string) {
	q := r.URL.Query()
	posts, meta, err := h.service.List(r.Context(), model.PostQuery{
		OwnerID: ownerID,
		Page:    parseIntOrDefault(q.Get("page"), 1),
		Limit:   parseIntOrDefault(q.Get("limit"), 0),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", model.PostList{Posts: posts}, &meta)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreatePostRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.service.Create(r.Context(), currentUserID(r), payload.Content, payload.Image)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Post Created!", map[string]any{"post": post}, nil)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"post": post}, nil)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdatePostRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.service.Update(r.Context(), currentUserID(r), chi.URLParam(r, "postId"), model.PostUpdate{
		Content: payload.Content,
		Image:   payload.Image,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Post Updated!", map[string]any{"post": post}, nil)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), currentUserID(r), chi.URLParam(r, "postId")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Post Deleted Successfully!", nil, nil)
}

func parseIntOrDefault(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}
