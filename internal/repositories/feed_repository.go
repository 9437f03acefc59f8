package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"plantops_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// FeedRepository defines the interface for employee-feed database operations.
type FeedRepository interface {
	CreatePost(executor SQLExecutor, post *models.FeedPost) (*models.FeedPost, error)
	GetPostByID(id int64, viewerID int64) (*models.FeedPost, error)
	GetPosts(viewerID int64, page, pageSize int) ([]models.FeedPost, int, error)
	DeletePost(executor SQLExecutor, id int64) error

	CreateComment(executor SQLExecutor, comment *models.FeedComment) (*models.FeedComment, error)
	GetComments(postID int64) ([]models.FeedComment, error)

	// ToggleLike flips the viewer's like on a post; returns the new state.
	ToggleLike(executor SQLExecutor, postID, userID int64) (bool, error)
}

type feedRepository struct {
	db *sql.DB
}

// NewFeedRepository creates a new instance of FeedRepository.
func NewFeedRepository(db *sql.DB) FeedRepository {
	return &feedRepository{db: db}
}

func (r *feedRepository) CreatePost(executor SQLExecutor, post *models.FeedPost) (*models.FeedPost, error) {
	query := `INSERT INTO feed_posts (author_id, body, attachment_url, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $4)
	          RETURNING id, created_at, updated_at`

	err := executor.QueryRow(query, post.AuthorID, post.Body, post.AttachmentURL, time.Now()).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: author not found (constraint: %s)", ErrNotFound, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: creating feed post: %v", ErrDatabaseError, err)
	}
	return post, nil
}

const postSelect = `SELECT
	    fp.id, fp.author_id, fp.body, fp.attachment_url, fp.created_at, fp.updated_at,
	    u.username, u.full_name,
	    (SELECT COUNT(*) FROM feed_comments fc WHERE fc.post_id = fp.id) as comment_count,
	    (SELECT COUNT(*) FROM feed_likes fl WHERE fl.post_id = fp.id) as like_count,
	    EXISTS (SELECT 1 FROM feed_likes fl WHERE fl.post_id = fp.id AND fl.user_id = $1) as liked_by_me`

const postFrom = `
	  FROM feed_posts fp
	  JOIN users u ON fp.author_id = u.id`

func scanPostRow(row scanner) (*models.FeedPost, error) {
	var post models.FeedPost
	var attachmentURL, fullName sql.NullString
	var username string

	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Body, &attachmentURL, &post.CreatedAt, &post.UpdatedAt,
		&username, &fullName,
		&post.CommentCount, &post.LikeCount, &post.LikedByMe,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning feed post: %v", ErrDatabaseError, err)
	}

	if attachmentURL.Valid {
		post.AttachmentURL = &attachmentURL.String
	}
	author := &models.User{ID: post.AuthorID, Username: username}
	if fullName.Valid {
		author.FullName = &fullName.String
	}
	post.Author = author
	return &post, nil
}

func (r *feedRepository) GetPostByID(id int64, viewerID int64) (*models.FeedPost, error) {
	return scanPostRow(r.db.QueryRow(postSelect+postFrom+` WHERE fp.id = $2`, viewerID, id))
}

func (r *feedRepository) GetPosts(viewerID int64, page, pageSize int) ([]models.FeedPost, int, error) {
	posts := []models.FeedPost{}
	totalCount := 0

	query := postSelect + `,
	    COUNT(*) OVER() as total_count` + postFrom + `
	  ORDER BY fp.created_at DESC`
	args := []interface{}{viewerID}

	if pageSize > 0 {
		query += ` LIMIT $2`
		args = append(args, pageSize)
		if page > 0 {
			query += ` OFFSET $3`
			args = append(args, (page-1)*pageSize)
		}
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying feed posts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var post models.FeedPost
		var attachmentURL, fullName sql.NullString
		var username string
		var currentRowTotalCount int

		err := rows.Scan(
			&post.ID, &post.AuthorID, &post.Body, &attachmentURL, &post.CreatedAt, &post.UpdatedAt,
			&username, &fullName,
			&post.CommentCount, &post.LikeCount, &post.LikedByMe,
			&currentRowTotalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning feed post from list: %v", ErrDatabaseError, err)
		}
		totalCount = currentRowTotalCount

		if attachmentURL.Valid {
			post.AttachmentURL = &attachmentURL.String
		}
		author := &models.User{ID: post.AuthorID, Username: username}
		if fullName.Valid {
			author.FullName = &fullName.String
		}
		post.Author = author
		posts = append(posts, post)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating feed post rows: %v", ErrDatabaseError, err)
	}
	return posts, totalCount, nil
}

func (r *feedRepository) DeletePost(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM feed_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting feed post ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *feedRepository) CreateComment(executor SQLExecutor, comment *models.FeedComment) (*models.FeedComment, error) {
	query := `INSERT INTO feed_comments (post_id, author_id, body, created_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at`

	err := executor.QueryRow(query, comment.PostID, comment.AuthorID, comment.Body, time.Now()).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: post or author not found (constraint: %s)", ErrNotFound, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: creating feed comment: %v", ErrDatabaseError, err)
	}
	return comment, nil
}

func (r *feedRepository) GetComments(postID int64) ([]models.FeedComment, error) {
	comments := []models.FeedComment{}
	query := `SELECT fc.id, fc.post_id, fc.author_id, fc.body, fc.created_at, u.username, u.full_name
	          FROM feed_comments fc
	          JOIN users u ON fc.author_id = u.id
	          WHERE fc.post_id = $1
	          ORDER BY fc.created_at ASC`

	rows, err := r.db.Query(query, postID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying feed comments: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var comment models.FeedComment
		var username string
		var fullName sql.NullString
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Body, &comment.CreatedAt, &username, &fullName); err != nil {
			return nil, fmt.Errorf("%w: scanning feed comment: %v", ErrDatabaseError, err)
		}
		author := &models.User{ID: comment.AuthorID, Username: username}
		if fullName.Valid {
			author.FullName = &fullName.String
		}
		comment.Author = author
		comments = append(comments, comment)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating feed comment rows: %v", ErrDatabaseError, err)
	}
	return comments, nil
}

func (r *feedRepository) ToggleLike(executor SQLExecutor, postID, userID int64) (bool, error) {
	result, err := executor.Exec(`DELETE FROM feed_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("%w: removing feed like: %v", ErrDatabaseError, err)
	}
	if rowsAffected, _ := result.RowsAffected(); rowsAffected > 0 {
		return false, nil
	}

	// ON CONFLICT absorbs a like inserted by a concurrent toggle; either way
	// the like exists once this statement returns.
	_, err = executor.Exec(`INSERT INTO feed_likes (post_id, user_id, created_at) VALUES ($1, $2, $3)
	                        ON CONFLICT (post_id, user_id) DO NOTHING`, postID, userID, time.Now())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return false, fmt.Errorf("%w: post or user not found (constraint: %s)", ErrNotFound, pqErr.Constraint)
		}
		return false, fmt.Errorf("%w: adding feed like: %v", ErrDatabaseError, err)
	}
	return true, nil
}
