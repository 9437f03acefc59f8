package models

import "time"

// FeedPost is an entry in the employee social feed.
type FeedPost struct {
	ID            int64     `json:"id"`
	AuthorID      int64     `json:"author_id" db:"author_id"`
	Body          string    `json:"body" db:"body" binding:"required"`
	AttachmentURL *string   `json:"attachment_url,omitempty" db:"attachment_url"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	Author       *User         `json:"author,omitempty"`
	CommentCount int           `json:"comment_count"`
	LikeCount    int           `json:"like_count"`
	LikedByMe    bool          `json:"liked_by_me"`
	Comments     []FeedComment `json:"comments,omitempty"`
}

// FeedComment is a comment on a feed post.
type FeedComment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	Body      string    `json:"body" db:"body" binding:"required"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Author    *User     `json:"author,omitempty"`
}

// FeedLike marks a user's like on a post. One like per (post, user).
type FeedLike struct {
	PostID    int64     `json:"post_id" db:"post_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
