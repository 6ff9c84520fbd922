package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/identity/domain"
	"github.com/taskvault/taskvault/internal/shared/infrastructure/database"
)

// sqliteTimeLayout is RFC 3339 with fixed-width nanoseconds, matching how
// the tasks context stores timestamps.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteUserRepository implements domain.UserRepository using SQLite.
type SQLiteUserRepository struct {
	conn database.Connection
}

// NewSQLiteUserRepository creates a new SQLite user repository.
func NewSQLiteUserRepository(conn database.Connection) *SQLiteUserRepository {
	return &SQLiteUserRepository{conn: conn}
}

// Save persists a user.
func (r *SQLiteUserRepository) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			password_hash = excluded.password_hash,
			updated_at = excluded.updated_at
	`
	_, err := r.conn.Exec(ctx, query,
		user.ID().String(),
		user.Email(),
		user.PasswordHash(),
		user.CreatedAt().Format(sqliteTimeLayout),
		user.UpdatedAt().Format(sqliteTimeLayout),
	)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

// FindByID retrieves a user by id.
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = ?
	`
	return r.scanUser(r.conn.QueryRow(ctx, query, id.String()))
}

// FindByEmail retrieves a user by email.
func (r *SQLiteUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = ?
	`
	return r.scanUser(r.conn.QueryRow(ctx, query, email))
}

func (r *SQLiteUserRepository) scanUser(row database.Row) (*domain.User, error) {
	var (
		rawID        string
		email        string
		passwordHash string
		rawCreated   string
		rawUpdated   string
	)

	err := row.Scan(&rawID, &email, &passwordHash, &rawCreated, &rawUpdated)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in database: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, rawCreated)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at in database: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, rawUpdated)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at in database: %w", err)
	}

	return domain.Rehydrate(id, email, passwordHash, createdAt, updatedAt), nil
}
