package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"plantops_backend/internal/models"
	"plantops_backend/internal/repositories"
	"plantops_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is deactivated")
	ErrUsernameExists     = errors.New("username already exists")
	ErrRoleNotFound       = errors.New("specified role not found")
	ErrTokenGeneration    = errors.New("failed to generate token")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// --- Data Transfer Objects (DTOs) ---

// LoginRequest DTO
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterUserRequest DTO
type RegisterUserRequest struct {
	Username string  `json:"username" binding:"required"`
	Email    *string `json:"email,omitempty"`
	Password string  `json:"password" binding:"required,min=8"`
	FullName string  `json:"full_name" binding:"required"`
	RoleName string  `json:"role_name"` // "Admin", "Engineer", "Operator". Defaults to Operator.
}

// RefreshTokenRequest DTO
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse DTO
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
}

// --- AuthService Interface ---
type AuthService interface {
	RegisterUser(req RegisterUserRequest) (*models.User, error)
	LoginUser(req LoginRequest) (*AuthResponse, error)
	RefreshToken(req RefreshTokenRequest) (*AuthResponse, error)
	GetUserProfile(userID int64) (*models.User, error)
}

type authService struct {
	authRepo repositories.AuthRepository
	db       *sql.DB
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(authRepo repositories.AuthRepository, db *sql.DB) AuthService {
	return &authService{
		authRepo: authRepo,
		db:       db,
	}
}

const defaultRoleName = "Operator"

// RegisterUser handles the business logic for user registration.
func (s *authService) RegisterUser(req RegisterUserRequest) (*models.User, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roleName := strings.TrimSpace(req.RoleName)
	if roleName == "" {
		roleName = defaultRoleName
	}
	role, err := s.authRepo.GetRoleByName(roleName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRoleNotFound, roleName)
		}
		return nil, fmt.Errorf("failed to look up role: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: &req.FullName,
		RoleID:   &role.ID,
	}

	userID, err := s.authRepo.CreateUser(s.db, user, string(hashedPasswordBytes))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrUsernameExists, req.Username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.authRepo.FindUserByID(userID)
}

// LoginUser verifies credentials and issues access and refresh tokens.
func (s *authService) LoginUser(req LoginRequest) (*AuthResponse, error) {
	user, hashedPassword, err := s.authRepo.FindUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return s.issueTokens(user, true)
}

// RefreshToken validates a refresh token and issues a fresh token pair.
func (s *authService) RefreshToken(req RefreshTokenRequest) (*AuthResponse, error) {
	claims, err := utils.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := s.authRepo.FindUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user for refresh: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return s.issueTokens(user, true)
}

// GetUserProfile returns the user's own profile.
func (s *authService) GetUserProfile(userID int64) (*models.User, error) {
	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}
	return user, nil
}

func (s *authService) issueTokens(user *models.User, withRefresh bool) (*AuthResponse, error) {
	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Username, roleName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	resp := &AuthResponse{User: user, AccessToken: accessToken}
	if withRefresh {
		refreshToken, err := utils.GenerateRefreshToken(user.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
		}
		resp.RefreshToken = refreshToken
	}
	return resp, nil
}
