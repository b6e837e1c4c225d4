package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"salesforge/config"
	"salesforge/middleware"
	"salesforge/models"
	"salesforge/utils"
)

// setupTestApp wires the API against an in-memory database. Each test
// gets its own named database so state never leaks between tests.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := config.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	config.DB = db
	config.AppConfig = config.Config{
		Environment:   "test",
		EncryptionKey: "test-secret",
		AppURL:        "http://localhost:3000",
		RateLimitAuth: 1000,
	}

	hub := NewActivityHub()
	quiet := log.New(io.Discard, "", 0)

	companyController := NewCompanyController(db, quiet)
	teamController := NewTeamController(db, quiet)
	contactController := NewContactController(db, hub, quiet)
	activityController := NewActivityController(db, hub, quiet)
	dashboardController := NewDashboardController(db, quiet)

	app := fiber.New()

	auth := app.Group("/auth")
	auth.Post("/register", Register)
	auth.Post("/login", Login)
	auth.Post("/refresh", RefreshToken)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", Logout)
	protectedAuth.Post("/change-password", ChangePassword)
	protectedAuth.Get("/me", GetCurrentUser)

	api := app.Group("/api/v1", middleware.Protected(), middleware.WorkspaceRequired())

	company := api.Group("/company")
	company.Get("/", companyController.GetCompany)
	company.Put("/", middleware.AdminOnly(), companyController.UpdateCompany)

	team := api.Group("/team")
	team.Get("/members", teamController.GetMembers)
	team.Put("/members/:id/role", middleware.AdminOnly(), teamController.UpdateMemberRole)
	team.Delete("/members/:id", middleware.AdminOnly(), teamController.RemoveMember)
	team.Post("/invites", middleware.AdminOnly(), teamController.CreateInvite)
	team.Get("/invites", middleware.AdminOnly(), teamController.GetInvites)

	contact := api.Group("/contacts")
	contact.Post("/", contactController.CreateContact)
	contact.Get("/", contactController.GetContacts)
	contact.Get("/export", contactController.ExportContacts)
	contact.Post("/import", contactController.ImportContacts)
	contact.Get("/:id", contactController.GetContact)
	contact.Put("/:id", contactController.UpdateContact)
	contact.Put("/:id/stage", contactController.ChangeStage)
	contact.Delete("/:id", contactController.DeleteContact)

	activity := api.Group("/activities")
	activity.Post("/", activityController.LogActivity)
	activity.Get("/", activityController.GetActivities)

	api.Get("/dashboard/stats", dashboardController.GetDashboardStats)

	return app, db
}

// seedUser creates a company plus an active user in it and returns the
// user with a valid access token.
func seedUser(t *testing.T, db *gorm.DB, email, role string) (*models.User, string) {
	t.Helper()

	company := models.Company{Name: "Acme Inc"}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("failed to seed company: %v", err)
	}
	return seedUserInCompany(t, db, email, role, company.ID)
}

// seedUserInCompany creates an active user in an existing company.
func seedUserInCompany(t *testing.T, db *gorm.DB, email, role string, companyID uint) (*models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Test User",
		Role:         role,
		IsActive:     true,
		CompanyID:    &companyID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	access, _, err := utils.GenerateJWTToken(&user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return &user, access
}

// seedContact inserts a contact owned by the given user.
func seedContact(t *testing.T, db *gorm.DB, user *models.User, name, stage string, dealValue float64) *models.Contact {
	t.Helper()

	contact := models.Contact{
		CompanyID: *user.CompanyID,
		OwnerID:   user.ID,
		Name:      name,
		Email:     strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Stage:     stage,
		DealValue: dealValue,
	}
	if err := db.Create(&contact).Error; err != nil {
		t.Fatalf("failed to seed contact: %v", err)
	}
	return &contact
}

// doJSON performs an authenticated JSON request against the test app.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// decodeData unmarshals the "data" field of a success envelope.
func decodeData(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("failed to decode envelope %s: %v", raw, err)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			t.Fatalf("failed to decode data %s: %v", envelope.Data, err)
		}
	}
}
