package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"plantops_backend/internal/models"
	"plantops_backend/internal/repositories"
)

// --- Custom Service Errors for Feed ---
var (
	ErrPostNotFound       = errors.New("feed post not found")
	ErrPostNotOwned       = errors.New("feed post belongs to another user")
	ErrFeedDataValidation = errors.New("feed data validation error")
)

// --- Feed DTOs ---
type CreatePostRequest struct {
	Body          string  `json:"body" binding:"required"`
	AttachmentURL *string `json:"attachment_url"`
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// --- FeedService Interface ---
type FeedService interface {
	CreatePost(authorID int64, req CreatePostRequest) (*models.FeedPost, error)
	GetPostByID(id, viewerID int64) (*models.FeedPost, error)
	GetPosts(viewerID int64, page, pageSize int) ([]models.FeedPost, int, error)
	DeletePost(id, requesterID int64, requesterRole string) error

	CreateComment(postID, authorID int64, req CreateCommentRequest) (*models.FeedComment, error)
	ToggleLike(postID, userID int64) (*models.FeedPost, error)
}

type feedService struct {
	feedRepo repositories.FeedRepository
	db       *sql.DB
}

// NewFeedService creates a new instance of FeedService.
func NewFeedService(fr repositories.FeedRepository, db *sql.DB) FeedService {
	return &feedService{feedRepo: fr, db: db}
}

func (s *feedService) CreatePost(authorID int64, req CreatePostRequest) (*models.FeedPost, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: post body cannot be empty", ErrFeedDataValidation)
	}

	post := &models.FeedPost{
		AuthorID:      authorID,
		Body:          body,
		AttachmentURL: req.AttachmentURL,
	}
	created, err := s.feedRepo.CreatePost(s.db, post)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return s.GetPostByID(created.ID, authorID)
}

func (s *feedService) GetPostByID(id, viewerID int64) (*models.FeedPost, error) {
	post, err := s.feedRepo.GetPostByID(id, viewerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to fetch post: %w", err)
	}
	comments, err := s.feedRepo.GetComments(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post comments: %w", err)
	}
	post.Comments = comments
	return post, nil
}

func (s *feedService) GetPosts(viewerID int64, page, pageSize int) ([]models.FeedPost, int, error) {
	return s.feedRepo.GetPosts(viewerID, page, pageSize)
}

// DeletePost removes a post. The author may delete their own posts;
// Admins may delete any post.
func (s *feedService) DeletePost(id, requesterID int64, requesterRole string) error {
	post, err := s.feedRepo.GetPostByID(id, requesterID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to fetch post for deletion: %w", err)
	}
	if post.AuthorID != requesterID && requesterRole != "Admin" {
		return ErrPostNotOwned
	}

	if err := s.feedRepo.DeletePost(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (s *feedService) CreateComment(postID, authorID int64, req CreateCommentRequest) (*models.FeedComment, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: comment body cannot be empty", ErrFeedDataValidation)
	}

	comment := &models.FeedComment{
		PostID:   postID,
		AuthorID: authorID,
		Body:     body,
	}
	created, err := s.feedRepo.CreateComment(s.db, comment)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return created, nil
}

// ToggleLike flips the user's like on a post and returns the refreshed post.
// The delete-then-insert pair runs in one transaction so a concurrent toggle
// cannot leave the pair half-applied.
func (s *feedService) ToggleLike(postID, userID int64) (*models.FeedPost, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for like toggle: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.feedRepo.ToggleLike(tx, postID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit like toggle: %w", err)
	}
	return s.GetPostByID(postID, userID)
}
