package model

import "time"

type Post struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"ownerId"`
	Content       string     `json:"content"`
	Image         string     `json:"image,omitempty"`
	LikesCount    int        `json:"likesCount"`
	CommentsCount int        `json:"commentsCount"`
	Owner         *PostOwner `json:"owner,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type PostOwner struct {
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	Title        string `json:"title"`
	ProfilePhoto string `json:"profilePhoto"`
}

type PostQuery struct {
	OwnerID string
	Page    int
	Limit   int
}

type PostList struct {
	Posts []Post `json:"posts"`
}

type PostUpdate struct {
	Content *string
	Image   *string
}
