package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Pipeline stages in progression order. The order drives board layout and
// dashboard breakdowns only; any transition between stages is allowed.
const (
	StageNewLead     = "New Lead"
	StageContacted   = "Contacted"
	StageQualified   = "Qualified"
	StageProposal    = "Proposal"
	StageNegotiation = "Negotiation"
	StageClosedWon   = "Closed Won"
	StageClosedLost  = "Closed Lost"
)

// Stages lists the pipeline vocabulary in progression order.
var Stages = []string{
	StageNewLead,
	StageContacted,
	StageQualified,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// ValidStage reports whether stage is a member of the fixed sequence.
func ValidStage(stage string) bool {
	for _, s := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// TagList stores an ordered, de-duplicated set of tags as a JSON text
// column so it round-trips as a plain string array over the API.
type TagList []string

func (t TagList) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *TagList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	}
	return fmt.Errorf("unsupported tags column type %T", value)
}

// Contact is a lead scoped to one company and owned by one profile.
// DealValue is always non-negative; invalid input is coerced to 0 before
// the row is written.
type Contact struct {
	gorm.Model
	CompanyID uint `gorm:"not null;index" json:"company_id"`
	OwnerID   uint `gorm:"not null;index" json:"owner_id"`

	Name        string     `gorm:"not null" json:"name"`
	Email       string     `gorm:"index" json:"email"`
	Phone       string     `json:"phone"`
	CompanyName string     `json:"company_name"`
	Title       string     `json:"title"`
	Industry    string     `json:"industry"`
	Source      string     `json:"source"`
	Stage       string     `gorm:"default:'New Lead';index" json:"stage"`
	DealValue   float64    `gorm:"default:0" json:"deal_value"`
	Tags        TagList    `gorm:"type:text" json:"tags"`
	Notes       string     `gorm:"type:text" json:"notes"`
	LastContact *time.Time `json:"last_contact"`

	// Relations
	Owner      *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Activities []Activity `gorm:"foreignKey:ContactID" json:"activities,omitempty"`
}
