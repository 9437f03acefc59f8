package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"plantops_backend/internal/models"
	"plantops_backend/internal/services"
	"plantops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// FeedHandler holds the employee feed service.
type FeedHandler struct {
	feedService services.FeedService
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(fs services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: fs}
}

// CreatePost publishes a new feed post authored by the current user.
func (h *FeedHandler) CreatePost(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", err.Error()))
		return
	}

	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreatePost: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	post, err := h.feedService.CreatePost(userID, req)
	if err != nil {
		utils.LogError(err, "CreatePost: Error from feedService.CreatePost")
		if errors.Is(err, services.ErrFeedDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create post.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, post)
}

// GetPosts handles fetching the feed with pagination.
func (h *FeedHandler) GetPosts(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", err.Error()))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	posts, totalCount, err := h.feedService.GetPosts(userID, page, pageSize)
	if err != nil {
		utils.LogError(err, "GetPosts: Error from feedService.GetPosts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch posts.", "Internal error"))
		return
	}

	if posts == nil {
		posts = []models.FeedPost{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      posts,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetPostByID handles fetching one post with its comments.
func (h *FeedHandler) GetPostByID(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", err.Error()))
		return
	}

	idStr := c.Param("id")
	postID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid post ID format.", err.Error()))
		return
	}

	post, err := h.feedService.GetPostByID(postID, userID)
	if err != nil {
		utils.LogError(err, "GetPostByID: Error from feedService.GetPostByID for ID "+idStr)
		if errors.Is(err, services.ErrPostNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Post not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch post.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost removes a post owned by the current user (Admins may remove any).
func (h *FeedHandler) DeletePost(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", err.Error()))
		return
	}

	idStr := c.Param("id")
	postID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid post ID format.", err.Error()))
		return
	}

	err = h.feedService.DeletePost(postID, userID, currentUserRole(c))
	if err != nil {
		utils.LogError(err, "DeletePost: Error from feedService.DeletePost for ID "+idStr)
		if errors.Is(err, services.ErrPostNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Post not found to delete.", err.Error()))
		} else if errors.Is(err, services.ErrPostNotOwned) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You may only delete your own posts.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete post.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// CreateComment adds a comment to a post.
func (h *FeedHandler) CreateComment(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", err.Error()))
		return
	}

	idStr := c.Param("id")
	postID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid post ID format.", err.Error()))
		return
	}

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateComment: Failed to bind JSON for post "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	comment, err := h.feedService.CreateComment(postID, userID, req)
	if err != nil {
		utils.LogError(err, "CreateComment: Error from feedService.CreateComment for post "+idStr)
		if errors.Is(err, services.ErrPostNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Post not found.", err.Error()))
		} else if errors.Is(err, services.ErrFeedDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create comment.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ToggleLike flips the current user's like on a post.
func (h *FeedHandler) ToggleLike(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", err.Error()))
		return
	}

	idStr := c.Param("id")
	postID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid post ID format.", err.Error()))
		return
	}

	post, err := h.feedService.ToggleLike(postID, userID)
	if err != nil {
		utils.LogError(err, "ToggleLike: Error from feedService.ToggleLike for post "+idStr)
		if errors.Is(err, services.ErrPostNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Post not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to toggle like.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, post)
}
