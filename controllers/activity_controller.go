package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"salesforge/models"
	"salesforge/utils"
)

const maxActivityLimit = 50

type ActivityController struct {
	DB     *gorm.DB
	Hub    *ActivityHub
	Logger *log.Logger
}

func NewActivityController(db *gorm.DB, hub *ActivityHub, logger *log.Logger) *ActivityController {
	return &ActivityController{
		DB:     db,
		Hub:    hub,
		Logger: logger,
	}
}

type logActivityRequest struct {
	ContactID   uint   `json:"contact_id" validate:"required"`
	Type        string `json:"type" validate:"required,activity_type"`
	Description string `json:"description" validate:"required,max=2000"`
}

// LogActivity records a note, call or email against a contact. The
// contact must belong to the caller's tenant.
func (ac *ActivityController) LogActivity(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	companyID := c.Locals("companyID").(uint)

	var req logActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var contact models.Contact
	if err := ac.DB.Where("id = ? AND company_id = ?", req.ContactID, companyID).First(&contact).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Contact not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch contact", err)
	}

	activity := models.Activity{
		ContactID:   contact.ID,
		CompanyID:   companyID,
		UserID:      user.ID,
		Type:        req.Type,
		Description: req.Description,
	}
	if err := ac.DB.Create(&activity).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to log activity", err)
	}

	if ac.Hub != nil {
		ac.Hub.Publish(companyID, &activity)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(activity))
}

// GetActivities returns the tenant's newest activities, optionally
// scoped to one contact. The limit is capped at 50.
func (ac *ActivityController) GetActivities(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(uint)

	limit := c.QueryInt("limit", maxActivityLimit)
	if limit < 1 || limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	query := ac.DB.Where("company_id = ?", companyID)
	if contactID := c.Query("contact_id"); contactID != "" {
		query = query.Where("contact_id = ?", utils.ParseUint(contactID))
	}

	var activities []models.Activity
	if err := query.Preload("User").Order("created_at DESC").Limit(limit).Find(&activities).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch activities", err)
	}

	return c.JSON(utils.SuccessResponse(activities))
}
