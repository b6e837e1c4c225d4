package models

import "gorm.io/gorm"

// Activity types. note/call/email come from manual entry, stage_change is
// written automatically on every pipeline transition.
const (
	ActivityNote        = "note"
	ActivityCall        = "call"
	ActivityEmail       = "email"
	ActivityStageChange = "stage_change"
)

// ValidActivityType reports whether t is a known activity type.
func ValidActivityType(t string) bool {
	switch t {
	case ActivityNote, ActivityCall, ActivityEmail, ActivityStageChange:
		return true
	}
	return false
}

// Activity is an append-only audit entry attached to a contact. There is
// no update or delete path for activity rows anywhere in the API.
type Activity struct {
	gorm.Model
	ContactID uint `gorm:"not null;index" json:"contact_id"`
	CompanyID uint `gorm:"not null;index" json:"company_id"`
	UserID    uint `gorm:"not null;index" json:"user_id"`

	Type        string `gorm:"not null" json:"type"` // note, call, email, stage_change
	Description string `gorm:"type:text" json:"description"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
