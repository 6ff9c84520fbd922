// Package persistence implements the identity context repositories.
package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/identity/domain"
	"github.com/taskvault/taskvault/internal/shared/infrastructure/database"
)

// PostgresUserRepository implements domain.UserRepository using PostgreSQL.
type PostgresUserRepository struct {
	conn database.Connection
}

// NewPostgresUserRepository creates a new PostgreSQL user repository.
func NewPostgresUserRepository(conn database.Connection) *PostgresUserRepository {
	return &PostgresUserRepository{conn: conn}
}

// Save persists a user.
func (r *PostgresUserRepository) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.conn.Exec(ctx, query,
		user.ID(),
		user.Email(),
		user.PasswordHash(),
		user.CreatedAt(),
		user.UpdatedAt(),
	)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

// FindByID retrieves a user by id.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.conn.QueryRow(ctx, query, id))
}

// FindByEmail retrieves a user by email.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.conn.QueryRow(ctx, query, email))
}

func (r *PostgresUserRepository) scanUser(row database.Row) (*domain.User, error) {
	var (
		id           uuid.UUID
		email        string
		passwordHash string
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(&id, &email, &passwordHash, &createdAt, &updatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return domain.Rehydrate(id, email, passwordHash, createdAt, updatedAt), nil
}
