package models

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSales      Role = "sales"
	RoleProduction Role = "production"
)

func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleProduction:
		return Role(s)
	}
	return RoleSales
}

// Session identifies the user a board is built for.
type Session struct {
	UserID uuid.UUID
	Role   Role
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

func (s Session) CanEditLeads() bool {
	return s.Role == RoleAdmin || s.Role == RoleSales
}

func (s Session) CanUpdateTracking() bool {
	return s.Role == RoleAdmin || s.Role == RoleProduction
}

// CanSee reports whether a lead in the given stage is visible. Production
// staff only work the production and delivered columns.
func (s Session) CanSee(status Status) bool {
	if s.Role == RoleProduction {
		return status == StatusProduction || status == StatusDelivered
	}
	return true
}
