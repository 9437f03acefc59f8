package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
)

var errNoUserInContext = errors.New("userID not found in context")

// currentUserID extracts the authenticated user's ID set by AuthMiddleware.
func currentUserID(c *gin.Context) (int64, error) {
	userIDRaw, exists := c.Get("userID")
	if !exists {
		return 0, errNoUserInContext
	}
	userID, ok := userIDRaw.(int64)
	if !ok {
		return 0, errors.New("userID in context is not int64")
	}
	return userID, nil
}

// currentUserRole extracts the authenticated user's role name, empty when absent.
func currentUserRole(c *gin.Context) string {
	roleRaw, exists := c.Get("userRole")
	if !exists {
		return ""
	}
	role, _ := roleRaw.(string)
	return role
}
