package roles

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/waitumusic/waitumusic/internal/platform/httpx"
	"github.com/waitumusic/waitumusic/internal/rbac"
)

var (
	// ErrNotFound indicates the custom role does not exist.
	ErrNotFound = fmt.Errorf("roles: %w", httpx.ErrNotFound)
	// ErrDuplicate indicates a role with the same name already exists.
	ErrDuplicate = fmt.Errorf("roles: %w", httpx.ErrDuplicate)
	// ErrValidation indicates invalid input or a catalog invariant violation.
	ErrValidation = fmt.Errorf("roles: %w", httpx.ErrValidation)
	// ErrProtectedRole indicates an attempt to change a built-in role.
	ErrProtectedRole = fmt.Errorf("roles: default role is read-only: %w", httpx.ErrConflict)
	// ErrRoleInUse indicates other roles still inherit from the role.
	ErrRoleInUse = fmt.Errorf("roles: role is inherited by other roles: %w", httpx.ErrConflict)
)

// CustomRole is an administrator-defined role persisted in PostgreSQL.
type CustomRole struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	InheritFrom string    `json:"inheritFrom,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToRole converts the record into a catalog role.
func (c CustomRole) ToRole() rbac.Role {
	return rbac.Role{
		ID:          c.ID.String(),
		Name:        c.Name,
		DisplayName: c.DisplayName,
		Description: c.Description,
		IsDefault:   false,
		Permissions: append([]string(nil), c.Permissions...),
		InheritFrom: c.InheritFrom,
	}
}

// CreateInput carries the fields of a new custom role.
type CreateInput struct {
	Name        string   `json:"name" validate:"required,max=64,rolename"`
	DisplayName string   `json:"displayName" validate:"required,max=128"`
	Description string   `json:"description" validate:"max=512"`
	Permissions []string `json:"permissions" validate:"dive,required"`
	InheritFrom string   `json:"inheritFrom" validate:"omitempty,max=64,rolename"`
}

// UpdateInput carries the mutable fields of a custom role. The name is fixed.
type UpdateInput struct {
	DisplayName string   `json:"displayName" validate:"required,max=128"`
	Description string   `json:"description" validate:"max=512"`
	Permissions []string `json:"permissions" validate:"dive,required"`
	InheritFrom string   `json:"inheritFrom" validate:"omitempty,max=64,rolename"`
}
