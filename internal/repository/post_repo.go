package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"go-social-auth/internal/model"
)

const postSelect = `SELECT p.id, p.owner_id, p.content, p.image, p.likes_count, p.comments_count,
		        p.created_at, p.updated_at,
		        u.firstname, u.lastname, u.email, u.title, u.profile_photo
		 FROM posts p
		 JOIN users u ON u.id = p.owner_id`

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func scanPost(row pgx.Row) (model.Post, error) {
	var p model.Post
	var owner model.PostOwner
	err := row.Scan(&p.ID, &p.OwnerID, &p.Content, &p.Image, &p.LikesCount, &p.CommentsCount,
		&p.CreatedAt, &p.UpdatedAt,
		&owner.Firstname, &owner.Lastname, &owner.Email, &owner.Title, &owner.ProfilePhoto)
	if err != nil {
		return model.Post{}, err
	}
	p.Owner = &owner
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, p model.Post) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO posts (id, owner_id, content, image, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.OwnerID, p.Content, p.Image, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (model.Post, error) {
	p, err := scanPost(r.db.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

func (r *PostRepository) Update(ctx context.Context, id string, update model.PostUpdate) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE posts SET
		    content    = COALESCE($2, content),
		    image      = COALESCE($3, image),
		    updated_at = $4
		 WHERE id = $1`,
		id, update.Content, update.Image, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// List returns one page of posts, newest first, optionally restricted to a
// single owner. Page and limit must already be normalized by the caller.
func (r *PostRepository) List(ctx context.Context, query model.PostQuery) ([]model.Post, int, error) {
	where := ""
	args := make([]any, 0, 3)
	if query.OwnerID != "" {
		where = " WHERE p.owner_id = $1"
		args = append(args, query.OwnerID)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	limitIdx := len(args) + 1
	args = append(args, query.Limit, (query.Page-1)*query.Limit)
	rows, err := r.db.Query(ctx,
		postSelect+where+fmt.Sprintf(` ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`, limitIdx, limitIdx+1),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}
