package controller

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"salesforge/config"
	"salesforge/models"
	"salesforge/utils"
)

type TeamController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewTeamController(db *gorm.DB, logger *log.Logger) *TeamController {
	return &TeamController{
		DB:     db,
		Logger: logger,
	}
}

// GetMembers lists every profile sharing the caller's workspace.
func (tc *TeamController) GetMembers(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(uint)

	var members []models.User
	if err := tc.DB.Where("company_id = ?", companyID).Order("full_name").Find(&members).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch team members", err)
	}

	return c.JSON(utils.SuccessResponse(members))
}

// UpdateMemberRole sets another member's role. Admin-gated by middleware;
// a caller can never edit their own row through this control.
func (tc *TeamController) UpdateMemberRole(c *fiber.Ctx) error {
	caller := c.Locals("user").(*models.User)
	companyID := c.Locals("companyID").(uint)
	memberID := utils.ParseUint(c.Params("id"))

	if memberID == caller.ID {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot change your own role", nil)
	}

	var input struct {
		Role string `json:"role" validate:"required,role"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var member models.User
	if err := tc.DB.Where("id = ? AND company_id = ?", memberID, companyID).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team member not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch team member", err)
	}

	member.Role = input.Role
	if err := tc.DB.Save(&member).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update role", err)
	}

	utils.LogEvent("member_role_changed", map[string]interface{}{
		"company_id": companyID,
		"member_id":  member.ID,
		"role":       member.Role,
		"changed_by": caller.ID,
	})

	return c.JSON(utils.SuccessResponse(member))
}

// RemoveMember detaches a member from the workspace. The profile row
// survives without a company, losing all tenant access.
func (tc *TeamController) RemoveMember(c *fiber.Ctx) error {
	caller := c.Locals("user").(*models.User)
	companyID := c.Locals("companyID").(uint)
	memberID := utils.ParseUint(c.Params("id"))

	if memberID == caller.ID {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot remove yourself from the workspace", nil)
	}

	result := tc.DB.Model(&models.User{}).
		Where("id = ? AND company_id = ?", memberID, companyID).
		Update("company_id", nil)
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove member", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Team member not found", nil)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"message": "Member removed",
	}))
}

// CreateInvite issues an invite link and emails it best-effort. The link
// is always returned so an admin can share it manually when SMTP is
// down or unconfigured.
func (tc *TeamController) CreateInvite(c *fiber.Ctx) error {
	caller := c.Locals("user").(*models.User)
	companyID := c.Locals("companyID").(uint)

	var input struct {
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"omitempty,role"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if err := checkmail.ValidateFormat(input.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email address", err)
	}
	if input.Role == "" {
		input.Role = models.RoleMember
	}

	// Already a member of this workspace?
	var existing models.User
	if err := tc.DB.Where("email = ? AND company_id = ?", strings.ToLower(input.Email), companyID).First(&existing).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "User is already a member of this workspace", nil)
	}

	invite := models.Invite{
		CompanyID: companyID,
		Email:     strings.ToLower(input.Email),
		Role:      input.Role,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(models.InviteTTL),
	}
	if err := tc.DB.Create(&invite).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create invite", err)
	}

	link := fmt.Sprintf("%s?invite=%s", config.AppConfig.AppURL, invite.Token)

	var companyName string
	var company models.Company
	if err := tc.DB.First(&company, companyID).Error; err == nil {
		companyName = company.Name
	}

	if err := utils.SendInviteEmail(invite.Email, companyName, caller.FullName, invite.Role, link); err != nil {
		tc.Logger.Printf("invite email to %s not sent: %v", invite.Email, err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(fiber.Map{
		"invite": invite,
		"link":   link,
	}))
}

// GetInvites lists pending, unexpired invites for the workspace.
func (tc *TeamController) GetInvites(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(uint)

	var invites []models.Invite
	if err := tc.DB.
		Where("company_id = ? AND accepted_at IS NULL AND expires_at > ?", companyID, time.Now()).
		Order("created_at DESC").
		Find(&invites).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch invites", err)
	}

	return c.JSON(utils.SuccessResponse(invites))
}
