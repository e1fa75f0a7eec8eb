package model

import (
	"strings"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleEditor UserRole = "EDITOR"
	UserRoleViewer UserRole = "VIEWER"
)

type Principal struct {
	UserID uuid.UUID
	Role   UserRole
}

func ParseUserRole(raw string) UserRole {
	return UserRole(strings.ToUpper(strings.TrimSpace(raw)))
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

// CanEditSchedules reports whether the principal may change catalog and rules.
func (p Principal) CanEditSchedules() bool {
	return p.Role == UserRoleAdmin || p.Role == UserRoleEditor
}
