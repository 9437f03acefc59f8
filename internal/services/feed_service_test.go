package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantops_backend/internal/models"
	"plantops_backend/internal/repositories"
)

type fakeFeedRepo struct {
	repositories.FeedRepository
	posts   []models.FeedPost
	deleted []int64
}

func (f *fakeFeedRepo) GetPosts(viewerID int64, page, pageSize int) ([]models.FeedPost, int, error) {
	return f.posts, len(f.posts), nil
}

func (f *fakeFeedRepo) GetPostByID(id, viewerID int64) (*models.FeedPost, error) {
	for i := range f.posts {
		if f.posts[i].ID == id {
			return &f.posts[i], nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeFeedRepo) DeletePost(executor repositories.SQLExecutor, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestFeedGetPostsReturnsListWithTotal(t *testing.T) {
	repo := &fakeFeedRepo{posts: []models.FeedPost{
		{ID: 2, AuthorID: 10, Body: "turbine 3 back in service"},
		{ID: 1, AuthorID: 11, Body: "safety drill on friday"},
	}}
	svc := NewFeedService(repo, nil)

	posts, total, err := svc.GetPosts(10, 1, 20)

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, posts, 2)
	assert.Equal(t, int64(2), posts[0].ID)
}

func TestFeedDeletePostOwnership(t *testing.T) {
	repo := &fakeFeedRepo{posts: []models.FeedPost{{ID: 3, AuthorID: 10, Body: "note"}}}
	svc := NewFeedService(repo, nil)

	err := svc.DeletePost(3, 11, "Operator")
	assert.ErrorIs(t, err, ErrPostNotOwned)
	assert.Empty(t, repo.deleted)

	require.NoError(t, svc.DeletePost(3, 10, "Operator"))
	require.NoError(t, svc.DeletePost(3, 11, "Admin"))
	assert.Equal(t, []int64{3, 3}, repo.deleted)

	err = svc.DeletePost(99, 10, "Admin")
	assert.ErrorIs(t, err, ErrPostNotFound)
}
