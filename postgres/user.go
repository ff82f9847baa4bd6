package postgres

import (
	"context"
	"strings"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

type UserService struct {
	DB *DB
}

var _ scheduler.UserService = (*UserService)(nil)

// CreateUser inserts user, assigning its id and creation time. A taken email
// is reported as ErrConflict.
func (s *UserService) CreateUser(ctx context.Context, user *scheduler.User, passwordHash string) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	user.ID = uuid.NewString()
	user.Email = normalizeEmail(user.Email)
	user.CreatedAt = tx.now
	if user.Role == "" {
		user.Role = scheduler.RoleUser
	}

	_, err = tx.Exec(ctx, `
			INSERT INTO users (id, email, display_name, role, password_hash, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
		user.ID,
		user.Email,
		user.DisplayName,
		string(user.Role),
		passwordHash,
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errors.Wrapf(scheduler.ErrConflict, "email %s", user.Email)
		}
		return err
	}

	return tx.Commit(ctx)
}

func (s *UserService) FindUserByID(ctx context.Context, id string) (*scheduler.User, error) {
	user, _, err := s.findUser(ctx, `WHERE id = $1`, id)
	return user, err
}

// FindUserByEmail returns the user together with its password hash.
func (s *UserService) FindUserByEmail(ctx context.Context, email string) (*scheduler.User, string, error) {
	return s.findUser(ctx, `WHERE email = $1`, normalizeEmail(email))
}

func (s *UserService) SetUserRole(ctx context.Context, email string, role scheduler.Role) error {
	tag, err := s.DB.db.Exec(ctx, `UPDATE users SET role = $2 WHERE email = $1`, normalizeEmail(email), string(role))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(scheduler.ErrNotFound, "user %s", email)
	}
	return nil
}

func (s *UserService) findUser(ctx context.Context, where string, arg string) (*scheduler.User, string, error) {
	user := &scheduler.User{}
	var role, hash string

	err := s.DB.db.QueryRow(ctx, `
		SELECT id, email, display_name, role, password_hash, created_at
		FROM users
	`+where, arg).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&role,
		&hash,
		&user.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, "", errors.Wrap(scheduler.ErrNotFound, "user")
	} else if err != nil {
		return nil, "", err
	}

	user.Role = scheduler.Role(role)
	return user, hash, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
