// Package domain defines the user aggregate of the identity context.
package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/taskvault/taskvault/internal/shared/domain"
)

// User represents a registered account. The password is stored only as a
// bcrypt hash.
type User struct {
	sharedDomain.BaseEntity
	email        string
	passwordHash string
}

// NewUser creates a new user with the given email and password hash.
func NewUser(email, passwordHash string) *User {
	return &User{
		BaseEntity:   sharedDomain.NewBaseEntity(),
		email:        email,
		passwordHash: passwordHash,
	}
}

// Rehydrate recreates a user from persisted state.
func Rehydrate(id uuid.UUID, email, passwordHash string, createdAt, updatedAt time.Time) *User {
	return &User{
		BaseEntity:   sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		email:        email,
		passwordHash: passwordHash,
	}
}

func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
