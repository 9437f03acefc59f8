package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"plantops_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// AuthRepository defines the interface for authentication-related database operations.
type AuthRepository interface {
	CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error)
	FindUserByUsername(username string) (*models.User, string, error) // Returns User, HashedPassword, Error
	FindUserByID(userID int64) (*models.User, error)
	GetRoleByName(name string) (*models.Role, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

// CreateUser inserts a new user. It expects an SQLExecutor which can be a
// *sql.DB or *sql.Tx. IsActive defaults to true.
func (r *authRepository) CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	query := `INSERT INTO users (username, password_hash, email, full_name, role_id, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	currentTime := time.Now()

	var roleID sql.NullInt64
	if user.RoleID != nil {
		roleID = sql.NullInt64{Int64: *user.RoleID, Valid: true}
	}

	var userID int64
	err := executor.QueryRow(
		query,
		user.Username,
		hashedPassword,
		user.Email,
		user.FullName,
		roleID,
		true,
		currentTime,
		currentTime,
	).Scan(&userID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return userID, nil
}

func scanUserRow(row scanner) (*models.User, string, error) {
	user := &models.User{}
	var hashedPassword string
	var email, fullName, roleName sql.NullString
	var roleID sql.NullInt64

	err := row.Scan(
		&user.ID, &user.Username, &hashedPassword, &email, &fullName, &roleID,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt, &roleName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
	}

	if email.Valid {
		user.Email = &email.String
	}
	if fullName.Valid {
		user.FullName = &fullName.String
	}
	if roleID.Valid {
		user.RoleID = &roleID.Int64
		if roleName.Valid && roleName.String != "" {
			user.Role = &models.Role{ID: roleID.Int64, Name: roleName.String}
		}
	}
	return user, hashedPassword, nil
}

// FindUserByUsername retrieves a user by username, returning the model and
// the stored password hash for credential verification.
func (r *authRepository) FindUserByUsername(username string) (*models.User, string, error) {
	query := `
		SELECT u.id, u.username, u.password_hash, u.email, u.full_name, u.role_id, u.is_active, u.created_at, u.updated_at,
		       COALESCE(ro.name, '') as role_name
		FROM users u
		LEFT JOIN roles ro ON u.role_id = ro.id
		WHERE u.username = $1`
	return scanUserRow(r.db.QueryRow(query, username))
}

// FindUserByID retrieves a user by ID.
func (r *authRepository) FindUserByID(userID int64) (*models.User, error) {
	query := `
		SELECT u.id, u.username, u.password_hash, u.email, u.full_name, u.role_id, u.is_active, u.created_at, u.updated_at,
		       COALESCE(ro.name, '') as role_name
		FROM users u
		LEFT JOIN roles ro ON u.role_id = ro.id
		WHERE u.id = $1`
	user, _, err := scanUserRow(r.db.QueryRow(query, userID))
	return user, err
}

// GetRoleByName retrieves a role by its name.
func (r *authRepository) GetRoleByName(name string) (*models.Role, error) {
	role := &models.Role{}
	var description sql.NullString
	query := `SELECT id, name, description, created_at, updated_at FROM roles WHERE name = $1`
	err := r.db.QueryRow(query, name).Scan(&role.ID, &role.Name, &description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting role %q: %v", ErrDatabaseError, name, err)
	}
	if description.Valid {
		role.Description = &description.String
	}
	return role, nil
}
