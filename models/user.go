package models

import "gorm.io/gorm"

// Workspace roles. Only admins may touch branding, invites and other
// members' roles.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

// ValidRole reports whether role is one of the fixed enumeration.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

// User is an account together with its workspace profile. CompanyID stays
// nil until the user creates a workspace at sign-up or accepts an invite.
type User struct {
	gorm.Model

	// Authentication fields
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"` // empty for OAuth-only accounts
	TokenVersion int    `gorm:"default:0" json:"-"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	// Google OAuth fields
	GoogleID       *string `gorm:"uniqueIndex" json:"google_id,omitempty"`
	GoogleImageURL *string `json:"google_image_url,omitempty"`

	// Profile information
	FullName  string `json:"full_name"`
	Role      string `gorm:"default:'member'" json:"role"` // admin, manager, member
	CompanyID *uint  `gorm:"index" json:"company_id,omitempty"`

	// Relations
	Company  *Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Contacts []Contact `gorm:"foreignKey:OwnerID" json:"contacts,omitempty"`
}

// IsAdmin reports whether the user may perform admin-only workspace
// mutations (branding, roles, invites, member removal).
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
