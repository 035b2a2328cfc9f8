// Package account defines the platform user that owns stores.
// Users live in the shared registry database; store rows reference
// them through OwnerID.
package account

import (
	"context"
	"strings"

	"github.com/storepos/backend/internal/domain/shared"
)

// User is a platform account identified by its email address.
// The password is stored only as a hash; the plaintext never reaches
// the domain layer.
type User struct {
	shared.BaseEntity
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex:idx_users_email"`
	Name         string `gorm:"type:varchar(100);not null"`
	PasswordHash string `gorm:"type:varchar(100);not null" json:"-"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NormalizeEmail canonicalizes an email for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser creates a user with an already-hashed password
func NewUser(email, name, passwordHash string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "User name cannot be empty")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	}, nil
}

// Repository persists users in the shared registry database
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Add(ctx context.Context, user *User) error
}
