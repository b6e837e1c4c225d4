package models

import "gorm.io/gorm"

// Company is a tenant workspace. Every contact, activity and team member
// belongs to exactly one company. Branding fields are free-form.
type Company struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	PrimaryColor string `gorm:"default:'#3b82f6'" json:"primary_color"`
	LogoURL      string `json:"logo_url"`

	// Relations
	Members  []User    `gorm:"foreignKey:CompanyID" json:"members,omitempty"`
	Contacts []Contact `gorm:"foreignKey:CompanyID" json:"contacts,omitempty"`
}
