package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-social-auth/internal/model"
	"go-social-auth/internal/util"
)

const (
	defaultPostLimit = 5
	maxPostLimit     = 50
)

type postStore interface {
	Create(ctx context.Context, p model.Post) error
	FindByID(ctx context.Context, id string) (model.Post, error)
	Update(ctx context.Context, id string, update model.PostUpdate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query model.PostQuery) ([]model.Post, int, error)
}

type PostService struct {
	store postStore
}

func NewPostService(store postStore) *PostService {
	return &PostService{store: store}
}

func (s *PostService) List(ctx context.Context, query model.PostQuery) ([]model.Post, model.Meta, error) {
	query = normalizePostQuery(query)

	posts, total, err := s.store.List(ctx, query)
	if err != nil {
		return nil, model.Meta{}, err
	}
	return posts, model.NewMeta(query.Page, query.Limit, total), nil
}

func (s *PostService) Create(ctx context.Context, ownerID string, content string, image string) (model.Post, error) {
	content = util.CleanText(content, true)
	image = strings.TrimSpace(image)
	if content == "" && image == "" {
		return model.Post{}, model.ErrInvalidInput
	}

	now := time.Now().UTC()
	p := model.Post{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Content:   content,
		Image:     image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return model.Post{}, err
	}
	return p, nil
}

func (s *PostService) Get(ctx context.Context, id string) (model.Post, error) {
	return s.store.FindByID(ctx, id)
}

// Update edits a post owned by callerID.
func (s *PostService) Update(ctx context.Context, callerID string, id string, update model.PostUpdate) (model.Post, error) {
	if _, err := s.ownedPost(ctx, callerID, id); err != nil {
		return model.Post{}, err
	}
	update.Content = util.CleanTextPtr(update.Content, true)
	if err := s.store.Update(ctx, id, update); err != nil {
		return model.Post{}, err
	}
	return s.store.FindByID(ctx, id)
}

func (s *PostService) Delete(ctx context.Context, callerID string, id string) error {
	if _, err := s.ownedPost(ctx, callerID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *PostService) ownedPost(ctx context.Context, callerID string, id string) (model.Post, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.Post{}, err
	}
	if p.OwnerID != callerID {
		return model.Post{}, model.ErrForbidden
	}
	return p, nil
}

func normalizePostQuery(q model.PostQuery) model.PostQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultPostLimit
	}
	if q.Limit > maxPostLimit {
		q.Limit = maxPostLimit
	}
	return q
}
