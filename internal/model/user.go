package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role enumerates authorization roles.
type Role string

const (
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "user"
	// RoleAdmin grants access to administrative operations.
	RoleAdmin Role = "admin"
)

// Status enumerates account states.
type Status string

const (
	// StatusActive is the default account state.
	StatusActive Status = "active"
	// StatusBlocked denies login; set by admin action only.
	StatusBlocked Status = "blocked"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, name, profilePicture string) (User, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
	SetRole(ctx context.Context, id uuid.UUID, role Role) error
	List(ctx context.Context) ([]User, error)
}

// User represents a stored user with credential and authorization attributes.
type User struct {
	ID             uuid.UUID
	Email          string
	PasswordHash   string
	Name           string
	ProfilePicture string
	Role           Role
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// IsBlocked reports whether the account is administratively blocked.
func (u User) IsBlocked() bool {
	return u.Status == StatusBlocked
}
