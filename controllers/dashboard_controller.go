package controller

import (
	"log"
	"math"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"salesforge/models"
	"salesforge/utils"
)

type DashboardController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewDashboardController(db *gorm.DB, logger *log.Logger) *DashboardController {
	return &DashboardController{
		DB:     db,
		Logger: logger,
	}
}

type StageBreakdown struct {
	Stage string  `json:"stage"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

type DashboardStats struct {
	TotalContacts  int              `json:"total_contacts"`
	PipelineValue  float64          `json:"pipeline_value"`
	WonValue       float64          `json:"won_value"`
	WonCount       int              `json:"won_count"`
	HotCount       int              `json:"hot_count"`
	WinRate        int              `json:"win_rate"`
	StageBreakdown []StageBreakdown `json:"stage_breakdown"`
	RecentContacts []models.Contact `json:"recent_contacts"`
}

// ComputeStats derives the dashboard numbers from a tenant's contact
// list. Pipeline value sums deal value over every contact, closed deals
// included; win rate is the won share of all contacts, rounded to a
// whole percent.
func ComputeStats(contacts []models.Contact) DashboardStats {
	stats := DashboardStats{
		TotalContacts:  len(contacts),
		StageBreakdown: make([]StageBreakdown, 0, len(models.Stages)),
	}

	byStage := make(map[string]*StageBreakdown, len(models.Stages))
	for _, stage := range models.Stages {
		byStage[stage] = &StageBreakdown{Stage: stage}
	}

	for _, contact := range contacts {
		if b, ok := byStage[contact.Stage]; ok {
			b.Count++
			b.Value += contact.DealValue
		}
		stats.PipelineValue += contact.DealValue
		switch contact.Stage {
		case models.StageClosedWon:
			stats.WonCount++
			stats.WonValue += contact.DealValue
		case models.StageProposal, models.StageNegotiation:
			stats.HotCount++
		}
	}

	if stats.TotalContacts > 0 {
		stats.WinRate = int(math.Round(100 * float64(stats.WonCount) / float64(stats.TotalContacts)))
	}

	for _, stage := range models.Stages {
		stats.StageBreakdown = append(stats.StageBreakdown, *byStage[stage])
	}

	return stats
}

// GetDashboardStats returns the tenant's dashboard aggregates plus the
// six most recently created contacts.
func (dc *DashboardController) GetDashboardStats(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(uint)

	var contacts []models.Contact
	if err := dc.DB.Where("company_id = ?", companyID).Order("created_at DESC").Find(&contacts).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch contacts", err)
	}

	stats := ComputeStats(contacts)

	recent := contacts
	if len(recent) > 6 {
		recent = recent[:6]
	}
	stats.RecentContacts = recent

	return c.JSON(utils.SuccessResponse(stats))
}
