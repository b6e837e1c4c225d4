package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"salesforge/models"
	"salesforge/utils"
)

type CompanyController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewCompanyController(db *gorm.DB, logger *log.Logger) *CompanyController {
	return &CompanyController{
		DB:     db,
		Logger: logger,
	}
}

// GetCompany returns the caller's workspace row, branding included.
func (cc *CompanyController) GetCompany(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(uint)

	var company models.Company
	if err := cc.DB.First(&company, companyID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Company not found", nil)
	}

	return c.JSON(utils.SuccessResponse(company))
}

// UpdateCompany applies branding changes. Admin-gated by middleware;
// fields are free-form and unvalidated on purpose.
func (cc *CompanyController) UpdateCompany(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(uint)

	var input struct {
		Name         string `json:"name" validate:"omitempty,max=100"`
		PrimaryColor string `json:"primary_color" validate:"omitempty,max=32"`
		LogoURL      string `json:"logo_url" validate:"omitempty,max=500"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var company models.Company
	if err := cc.DB.First(&company, companyID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Company not found", nil)
	}

	if input.Name != "" {
		company.Name = input.Name
	}
	if input.PrimaryColor != "" {
		company.PrimaryColor = input.PrimaryColor
	}
	if input.LogoURL != "" {
		company.LogoURL = input.LogoURL
	}

	if err := cc.DB.Save(&company).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update company", err)
	}

	return c.JSON(utils.SuccessResponse(company))
}
