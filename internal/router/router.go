package router

import (
	"database/sql"

	"plantops_backend/internal/handlers"
	"plantops_backend/internal/middleware"
	"plantops_backend/internal/repositories"
	"plantops_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	scheduleRepo := repositories.NewScheduleRepository(db)
	handoverRepo := repositories.NewHandoverRepository(db)
	roundsRepo := repositories.NewRoundsRepository(db)
	feedRepo := repositories.NewFeedRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, db)
	employeeService := services.NewEmployeeService(employeeRepo, authRepo, db)
	scheduleService := services.NewScheduleService(scheduleRepo, employeeRepo, db)
	timesheetService := services.NewTimesheetService(scheduleRepo, employeeRepo, settingsRepo)
	handoverService := services.NewHandoverService(handoverRepo, employeeRepo, db)
	roundsService := services.NewRoundsService(roundsRepo, employeeRepo, db)
	feedService := services.NewFeedService(feedRepo, db)
	settingsService := services.NewSettingsService(settingsRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	reportHandler := handlers.NewReportHandler(timesheetService)
	handoverHandler := handlers.NewHandoverHandler(handoverService)
	roundsHandler := handlers.NewRoundsHandler(roundsService)
	feedHandler := handlers.NewFeedHandler(feedService)
	settingHandler := handlers.NewSettingHandler(settingsService)

	apiV1 := engine.Group("/api/v1")

	// Public authentication routes
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	// Authenticated routes
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)

		SetupOrgUnitRoutes(authenticated, employeeHandler)
		SetupEmployeeRoutes(authenticated, employeeHandler)
		SetupScheduleRoutes(authenticated, scheduleHandler)
		SetupCalendarRoutes(authenticated, scheduleHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupHandoverRoutes(authenticated, handoverHandler)
		SetupEquipmentRoutes(authenticated, roundsHandler)
		SetupRoundRoutes(authenticated, roundsHandler)
		SetupFeedRoutes(authenticated, feedHandler)
		SetupSettingsRoutes(authenticated, settingHandler)
	}
}

// SetupPublicAuthRoutes registers the routes reachable without a token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.RegisterUser)
	group.POST("/login", authHandler.LoginUser)
	group.POST("/refresh-token", authHandler.RefreshToken)
}

// SetupAuthenticatedAuthRoutes registers the token-protected auth routes.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.LogoutUser)
	group.GET("/me", authHandler.GetCurrentUser)
}
