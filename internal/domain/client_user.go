package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleSuperAdmin  UserRole = "super_admin"
	RoleClientAgent UserRole = "client_agent"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleClientAgent:
		return true
	default:
		return false
	}
}

type ClientUser struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	ClientID  *uuid.UUID `json:"client_id" db:"client_id"`
	Role      UserRole   `json:"role" db:"role"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// Viewer is the authenticated user behind a request, with the tenant scope
// their data access is limited to.
type Viewer struct {
	UserID   uuid.UUID  `json:"user_id"`
	Email    string     `json:"email"`
	Role     UserRole   `json:"role"`
	TenantID *uuid.UUID `json:"client_id"`
}

func NewViewer(userID uuid.UUID, email string, cu *ClientUser) *Viewer {
	v := &Viewer{
		UserID: userID,
		Email:  email,
		Role:   cu.Role,
	}
	// super admins watch every tenant even if a client_id is set on their row
	if cu.Role != RoleSuperAdmin {
		v.TenantID = cu.ClientID
	}
	return v
}

func (v *Viewer) HasRole(role UserRole) bool {
	return v.Role == role
}

// CanAccess reports whether a row owned by clientID is visible to the viewer.
func (v *Viewer) CanAccess(clientID *uuid.UUID) bool {
	if v.TenantID == nil {
		return true
	}
	return clientID != nil && *clientID == *v.TenantID
}
