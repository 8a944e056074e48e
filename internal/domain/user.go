package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of user roles. All permission checks go through
// the capability methods below instead of comparing raw strings in handlers.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCollector Role = "collector"
)

// ParseRole maps a stored or submitted value onto the closed enum.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleCollector:
		return Role(s), true
	}
	return "", false
}

// CanManageUsers reports whether the role may create, edit or delete users.
func (r Role) CanManageUsers() bool { return r == RoleAdmin }

// CanManageClients reports whether the role may create, edit or delete clients.
func (r Role) CanManageClients() bool { return r == RoleAdmin }

// CanManageLoans reports whether the role may create, reassign or delete loans.
func (r Role) CanManageLoans() bool { return r == RoleAdmin }

// CanManageSettings reports whether the role may change process-wide settings.
func (r Role) CanManageSettings() bool { return r == RoleAdmin }

// CanCollect reports whether the role may register installment payments.
func (r Role) CanCollect() bool { return r == RoleAdmin || r == RoleCollector }

// User is a system account: either an admin or a collector (cobrador)
// responsible for an assigned subset of loans.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin collector"`
}

type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin collector"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
