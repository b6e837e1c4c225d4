package routes

import (
	"log"
	"os"

	controller "salesforge/controllers"
	"salesforge/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authLogger := log.New(os.Stdout, "AUTH: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Auth routes group with logging middleware
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Credential endpoints take the brute-force limiter
	limited := auth.Group("", middleware.AuthRateLimiter())
	limited.Post("/register", controller.Register)
	limited.Post("/login", controller.Login)

	auth.Post("/refresh", controller.RefreshToken)

	// Google OAuth routes
	controller.InitGoogleOAuth()
	auth.Get("/google", controller.GoogleOAuth)
	auth.Get("/google/callback", controller.GoogleOAuthCallback)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Post("/change-password", controller.ChangePassword)
	protectedAuth.Get("/me", controller.GetCurrentUser)

	authLogger.Println("Authentication routes initialized successfully")
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB) {
	hub := controller.NewActivityHub()

	companyController := controller.NewCompanyController(db, log.New(os.Stdout, "COMPANY: ", log.LstdFlags))
	teamController := controller.NewTeamController(db, log.New(os.Stdout, "TEAM: ", log.LstdFlags))
	contactController := controller.NewContactController(db, hub, log.New(os.Stdout, "CONTACT: ", log.LstdFlags))
	activityController := controller.NewActivityController(db, hub, log.New(os.Stdout, "ACTIVITY: ", log.LstdFlags))
	dashboardController := controller.NewDashboardController(db, log.New(os.Stdout, "DASHBOARD: ", log.LstdFlags))

	// API group with versioning, protection and tenant scoping
	api := app.Group("/api/v1", middleware.Protected(), middleware.WorkspaceRequired(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Company routes
	company := api.Group("/company")
	company.Get("/", companyController.GetCompany)
	company.Put("/", middleware.AdminOnly(), companyController.UpdateCompany)

	// Team routes
	team := api.Group("/team")
	team.Get("/members", teamController.GetMembers)
	team.Put("/members/:id/role", middleware.AdminOnly(), teamController.UpdateMemberRole)
	team.Delete("/members/:id", middleware.AdminOnly(), teamController.RemoveMember)
	team.Post("/invites", middleware.AdminOnly(), teamController.CreateInvite)
	team.Get("/invites", middleware.AdminOnly(), teamController.GetInvites)

	// Contact routes
	contact := api.Group("/contacts")
	contact.Post("/", contactController.CreateContact)
	contact.Get("/", contactController.GetContacts)
	contact.Get("/export", contactController.ExportContacts)
	contact.Post("/import", contactController.ImportContacts)
	contact.Get("/:id", contactController.GetContact)
	contact.Put("/:id", contactController.UpdateContact)
	contact.Put("/:id/stage", contactController.ChangeStage)
	contact.Delete("/:id", contactController.DeleteContact)

	// Activity routes
	activity := api.Group("/activities")
	activity.Post("/", activityController.LogActivity)
	activity.Get("/", activityController.GetActivities)

	// WebSocket route for the live activity feed
	api.Get("/activities/stream", websocket.New(hub.HandleFeed))

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.Get("/stats", dashboardController.GetDashboardStats)

	log.Println("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app, db)
	SetupAPIRoutes(app, db)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
