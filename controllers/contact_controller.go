package controller

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"salesforge/models"
	"salesforge/utils"
)

type ContactController struct {
	DB     *gorm.DB
	Hub    *ActivityHub
	Logger *log.Logger
}

func NewContactController(db *gorm.DB, hub *ActivityHub, logger *log.Logger) *ContactController {
	return &ContactController{
		DB:     db,
		Hub:    hub,
		Logger: logger,
	}
}

type contactInput struct {
	Name        string      `json:"name" validate:"omitempty,max=200"`
	Email       string      `json:"email" validate:"omitempty,email"`
	Phone       string      `json:"phone" validate:"omitempty,max=50"`
	CompanyName string      `json:"company_name" validate:"omitempty,max=200"`
	Title       string      `json:"title" validate:"omitempty,max=200"`
	Industry    string      `json:"industry" validate:"omitempty,max=100"`
	Source      string      `json:"source" validate:"omitempty,max=100"`
	Stage       string      `json:"stage" validate:"omitempty,stage"`
	DealValue   interface{} `json:"deal_value"`
	Tags        *string     `json:"tags"` // comma-delimited
	Notes       *string     `json:"notes"`
	LastContact string      `json:"last_contact"` // YYYY-MM-DD
}

// CreateContact inserts a lead stamped with the caller's tenant and
// ownership, then logs a creation activity.
func (cc *ContactController) CreateContact(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	companyID := c.Locals("companyID").(uint)

	var input contactInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if strings.TrimSpace(input.Name) == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Name is required", nil)
	}

	stage := input.Stage
	if stage == "" {
		stage = models.StageNewLead
	}

	contact := models.Contact{
		CompanyID:   companyID,
		OwnerID:     user.ID,
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.ToLower(input.Email),
		Phone:       input.Phone,
		CompanyName: input.CompanyName,
		Title:       input.Title,
		Industry:    input.Industry,
		Source:      input.Source,
		Stage:       stage,
		DealValue:   utils.CoerceDealValue(input.DealValue),
		LastContact: parseDateOrToday(input.LastContact),
	}
	if input.Tags != nil {
		contact.Tags = utils.ParseTags(*input.Tags)
	}
	if input.Notes != nil {
		contact.Notes = *input.Notes
	}

	if err := cc.DB.Create(&contact).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create contact", err)
	}

	if err := logActivity(cc.DB, cc.Hub, contact.ID, companyID, user.ID, models.ActivityNote, "Contact created"); err != nil {
		cc.Logger.Printf("failed to log creation activity for contact %d: %v", contact.ID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(contact))
}

// GetContacts returns the tenant's contact list, newest first, with the
// optional stage/owner/search filters from the list view.
func (cc *ContactController) GetContacts(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(uint)

	query := cc.DB.Where("company_id = ?", companyID)

	if stage := c.Query("stage"); stage != "" {
		query = query.Where("stage = ?", stage)
	}
	if owner := c.Query("owner_id"); owner != "" {
		query = query.Where("owner_id = ?", utils.ParseUint(owner))
	}
	if search := c.Query("search"); search != "" {
		q := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company_name) LIKE ?",
			q, q, q,
		)
	}

	var contacts []models.Contact
	if err := query.Preload("Owner").Order("created_at DESC").Find(&contacts).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch contacts", err)
	}

	return c.JSON(utils.SuccessResponse(contacts))
}

// GetContact returns a single contact by ID
func (cc *ContactController) GetContact(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(uint)
	contactID := c.Params("id")

	var contact models.Contact
	if err := cc.DB.Preload("Owner").Where("id = ? AND company_id = ?", contactID, companyID).First(&contact).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Contact not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch contact", err)
	}

	return c.JSON(utils.SuccessResponse(contact))
}

// UpdateContact applies a partial edit and returns the updated row. A
// stage change writes one stage_change activity; any other edit writes a
// "Contact updated" note.
func (cc *ContactController) UpdateContact(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	companyID := c.Locals("companyID").(uint)
	contactID := c.Params("id")

	var input contactInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var contact models.Contact
	if err := cc.DB.Where("id = ? AND company_id = ?", contactID, companyID).First(&contact).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Contact not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch contact", err)
	}

	previousStage := contact.Stage

	if input.Name != "" {
		contact.Name = strings.TrimSpace(input.Name)
	}
	if input.Email != "" {
		contact.Email = strings.ToLower(input.Email)
	}
	if input.Phone != "" {
		contact.Phone = input.Phone
	}
	if input.CompanyName != "" {
		contact.CompanyName = input.CompanyName
	}
	if input.Title != "" {
		contact.Title = input.Title
	}
	if input.Industry != "" {
		contact.Industry = input.Industry
	}
	if input.Source != "" {
		contact.Source = input.Source
	}
	if input.Stage != "" {
		contact.Stage = input.Stage
	}
	if input.DealValue != nil {
		contact.DealValue = utils.CoerceDealValue(input.DealValue)
	}
	if input.Tags != nil {
		contact.Tags = utils.ParseTags(*input.Tags)
	}
	if input.Notes != nil {
		contact.Notes = *input.Notes
	}
	if input.LastContact != "" {
		// Unparseable dates are ignored on update rather than rewritten
		if parsed, err := time.Parse("2006-01-02", input.LastContact); err == nil {
			contact.LastContact = &parsed
		}
	}

	if err := cc.DB.Save(&contact).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update contact", err)
	}

	if contact.Stage != previousStage {
		desc := fmt.Sprintf("Stage changed from %s to %s", previousStage, contact.Stage)
		if err := logActivity(cc.DB, cc.Hub, contact.ID, companyID, user.ID, models.ActivityStageChange, desc); err != nil {
			cc.Logger.Printf("failed to log stage change for contact %d: %v", contact.ID, err)
		}
	} else {
		if err := logActivity(cc.DB, cc.Hub, contact.ID, companyID, user.ID, models.ActivityNote, "Contact updated"); err != nil {
			cc.Logger.Printf("failed to log update activity for contact %d: %v", contact.ID, err)
		}
	}

	return c.JSON(utils.SuccessResponse(contact))
}

// ChangeStage moves a contact to another pipeline stage (board drag).
// Always appends exactly one stage_change activity for the transition.
func (cc *ContactController) ChangeStage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	companyID := c.Locals("companyID").(uint)
	contactID := c.Params("id")

	var input struct {
		Stage string `json:"stage" validate:"required,stage"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var contact models.Contact
	if err := cc.DB.Where("id = ? AND company_id = ?", contactID, companyID).First(&contact).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Contact not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch contact", err)
	}

	previousStage := contact.Stage
	contact.Stage = input.Stage
	if err := cc.DB.Save(&contact).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update stage", err)
	}

	desc := fmt.Sprintf("Stage changed from %s to %s", previousStage, contact.Stage)
	if err := logActivity(cc.DB, cc.Hub, contact.ID, companyID, user.ID, models.ActivityStageChange, desc); err != nil {
		cc.Logger.Printf("failed to log stage change for contact %d: %v", contact.ID, err)
	}

	return c.JSON(utils.SuccessResponse(contact))
}

// DeleteContact hard-deletes a contact together with its activity rows.
// There is no soft delete and no undo.
func (cc *ContactController) DeleteContact(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(uint)
	contactID := c.Params("id")

	tx := cc.DB.Begin()

	if err := tx.Unscoped().Where("contact_id = ? AND company_id = ?", contactID, companyID).Delete(&models.Activity{}).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete contact activities", err)
	}

	result := tx.Unscoped().Where("id = ? AND company_id = ?", contactID, companyID).Delete(&models.Contact{})
	if result.Error != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete contact", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Contact not found", nil)
	}

	tx.Commit()

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"message": "Contact deleted successfully",
	}))
}

var csvHeader = []string{
	"name", "email", "phone", "company_name", "title",
	"industry", "source", "stage", "deal_value", "tags", "notes", "last_contact",
}

// ExportContacts streams the tenant's contacts as CSV.
func (cc *ContactController) ExportContacts(c *fiber.Ctx) error {
	companyID := c.Locals("companyID").(uint)

	var contacts []models.Contact
	if err := cc.DB.Where("company_id = ?", companyID).Order("created_at DESC").Find(&contacts).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch contacts", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to write CSV", err)
	}
	for _, contact := range contacts {
		lastContact := ""
		if contact.LastContact != nil {
			lastContact = contact.LastContact.Format("2006-01-02")
		}
		row := []string{
			contact.Name,
			contact.Email,
			contact.Phone,
			contact.CompanyName,
			contact.Title,
			contact.Industry,
			contact.Source,
			contact.Stage,
			strconv.FormatFloat(contact.DealValue, 'f', -1, 64),
			strings.Join(contact.Tags, ","),
			contact.Notes,
			lastContact,
		}
		if err := w.Write(row); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to write CSV", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to write CSV", err)
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="contacts.csv"`)
	return c.Send(buf.Bytes())
}

// ImportContacts bulk-creates contacts from an uploaded CSV file. Rows
// without a name are skipped; malformed rows are skipped silently.
func (cc *ContactController) ImportContacts(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	companyID := c.Locals("companyID").(uint)

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File upload error", err)
	}

	// Check file size (max 5MB)
	if file.Size > 5<<20 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File too large (max 5MB)", nil)
	}

	src, err := file.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to open file", err)
	}
	defer src.Close()

	reader := csv.NewReader(src)
	// Variable-width rows are handled by the per-row length check below
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to parse CSV file", err)
	}
	if len(records) < 2 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "CSV file must have at least a header and one row", nil)
	}

	header := records[0]
	rows := records[1:]

	imported := 0
	skipped := 0
	batchSize := 100
	var batch []models.Contact

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := cc.DB.Create(&batch).Error; err != nil {
			cc.Logger.Printf("failed to import batch of contacts: %v", err)
			skipped += len(batch)
		} else {
			imported += len(batch)
		}
		batch = nil
	}

	for _, row := range rows {
		if len(row) != len(header) {
			skipped++
			continue
		}

		data := make(map[string]string)
		for i, col := range header {
			data[strings.TrimSpace(strings.ToLower(col))] = row[i]
		}

		name := strings.TrimSpace(data["name"])
		if name == "" {
			skipped++
			continue
		}

		stage := data["stage"]
		if !models.ValidStage(stage) {
			stage = models.StageNewLead
		}

		contact := models.Contact{
			CompanyID:   companyID,
			OwnerID:     user.ID,
			Name:        name,
			Email:       strings.ToLower(data["email"]),
			Phone:       data["phone"],
			CompanyName: data["company_name"],
			Title:       data["title"],
			Industry:    data["industry"],
			Source:      data["source"],
			Stage:       stage,
			DealValue:   utils.CoerceDealValue(data["deal_value"]),
			Tags:        utils.ParseTags(data["tags"]),
			Notes:       data["notes"],
			LastContact: parseDateOrToday(data["last_contact"]),
		}
		batch = append(batch, contact)

		if len(batch) >= batchSize {
			flush()
		}
	}
	flush()

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"imported": imported,
		"skipped":  skipped,
	}))
}

// logActivity appends an audit row and pushes it to any live feed
// subscribers for the tenant.
func logActivity(db *gorm.DB, hub *ActivityHub, contactID, companyID, userID uint, actType, description string) error {
	activity := models.Activity{
		ContactID:   contactID,
		CompanyID:   companyID,
		UserID:      userID,
		Type:        actType,
		Description: description,
	}
	if err := db.Create(&activity).Error; err != nil {
		return err
	}
	if hub != nil {
		hub.Publish(companyID, &activity)
	}
	return nil
}

// parseDateOrToday reads a YYYY-MM-DD date, defaulting to today.
func parseDateOrToday(s string) *time.Time {
	if s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return &t
		}
	}
	now := time.Now().Truncate(24 * time.Hour)
	return &now
}
