package models

import (
	"time"

	"gorm.io/gorm"
)

// InviteTTL is how long an invite link stays redeemable.
const InviteTTL = 7 * 24 * time.Hour

// Invite lets an admin bring a new member into the company workspace.
// Registering with the invite token joins the invite's company with the
// invite's role instead of creating a fresh workspace.
type Invite struct {
	gorm.Model
	CompanyID uint   `gorm:"not null;index" json:"company_id"`
	Email     string `gorm:"not null;index" json:"email"`
	Role      string `gorm:"default:'member'" json:"role"`
	Token     string `gorm:"uniqueIndex;not null" json:"token"`

	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}

// Usable reports whether the invite can still be redeemed.
func (i *Invite) Usable() bool {
	return i.AcceptedAt == nil && time.Now().Before(i.ExpiresAt)
}
