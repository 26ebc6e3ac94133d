package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
	"github.com/yigit/cyberclub/internal/pkg/dberrors"
	"github.com/yigit/cyberclub/internal/pkg/logger"
)

// UsersEmailConstraint is the unique index guarding user emails
const UsersEmailConstraint = "users_email_key"

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// UserRepository handles user database operations. Emails are expected to be
// normalized by the caller before they reach it.
type UserRepository struct {
	*CrudRepository[models.User]
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{NewCrudRepository(db, Table[models.User]{
		Name:    "users",
		Columns: []string{"id", "name", "email", "password", "role", "created_at"},
		OrderBy: "created_at DESC",
		Scan:    scanUser,
		Values: func(u *models.User) map[string]any {
			return map[string]any{
				"name":     u.Name,
				"email":    u.Email,
				"password": u.Password,
				"role":     u.Role,
			}
		},
		NotFound: apperrors.ErrUserNotFound,
	})}
}

// Create inserts a user, mapping a unique violation on email to
// apperrors.ErrEmailAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	created, err := r.CrudRepository.Create(ctx, user)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, UsersEmailConstraint) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.GetOneWhere(ctx, squirrel.Eq{"email": email})
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("users").
		Where(squirrel.Eq{"email": email}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		logger.Error().Err(err).Msg("Error checking email existence")
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// SetRole changes a user's role and returns the updated user
func (r *UserRepository) SetRole(ctx context.Context, id string, role models.RoleType) (*models.User, error) {
	return r.Update(ctx, id, map[string]any{"role": role})
}

// CountAdmins returns how many admins exist
func (r *UserRepository) CountAdmins(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("users").Where(squirrel.Eq{"role": models.RoleAdmin}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count admins query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting admins: %w", err)
	}
	return n, nil
}
