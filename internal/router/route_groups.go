package router

import (
	"plantops_backend/internal/handlers"
	"plantops_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupOrgUnitRoutes sets up the org unit routes. Writes are Admin only.
func SetupOrgUnitRoutes(authenticatedGroup *gin.RouterGroup, employeeHandler *handlers.EmployeeHandler) {
	orgUnitWriteRoutes := authenticatedGroup.Group("/org-units")
	orgUnitWriteRoutes.Use(middleware.RoleAuthMiddleware("Admin"))
	{
		orgUnitWriteRoutes.POST("", employeeHandler.CreateOrgUnit)
		orgUnitWriteRoutes.PUT("/:id", employeeHandler.UpdateOrgUnit)
		orgUnitWriteRoutes.DELETE("/:id", employeeHandler.DeleteOrgUnit)
	}

	authenticatedGroup.GET("/org-units", employeeHandler.GetOrgUnits)
}

// SetupEmployeeRoutes sets up the employee routes. Writes are Admin only,
// reads are available to Engineers as well.
func SetupEmployeeRoutes(authenticatedGroup *gin.RouterGroup, employeeHandler *handlers.EmployeeHandler) {
	employeeWriteRoutes := authenticatedGroup.Group("/employees")
	employeeWriteRoutes.Use(middleware.RoleAuthMiddleware("Admin"))
	{
		employeeWriteRoutes.POST("", employeeHandler.CreateEmployee)
		employeeWriteRoutes.PUT("/:id", employeeHandler.UpdateEmployee)
		employeeWriteRoutes.DELETE("/:id", employeeHandler.DeleteEmployee)
	}

	authenticatedGroup.GET("/employees", middleware.RoleAuthMiddleware("Admin", "Engineer"), employeeHandler.GetEmployees)
	authenticatedGroup.GET("/employees/:id", middleware.RoleAuthMiddleware("Admin", "Engineer"), employeeHandler.GetEmployeeByID)
}

// SetupScheduleRoutes sets up the work schedule routes.
func SetupScheduleRoutes(authenticatedGroup *gin.RouterGroup, scheduleHandler *handlers.ScheduleHandler) {
	scheduleRoutes := authenticatedGroup.Group("/schedule")
	scheduleRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Engineer"))
	{
		scheduleRoutes.POST("/entries", scheduleHandler.CreateEntry)
		scheduleRoutes.POST("/entries/bulk", scheduleHandler.BulkUpsertEntries)
		scheduleRoutes.GET("/entries", scheduleHandler.GetMonthEntries)
		scheduleRoutes.GET("/entries/:id", scheduleHandler.GetEntryByID)
		scheduleRoutes.PUT("/entries/:id", scheduleHandler.UpdateEntry)
		scheduleRoutes.DELETE("/entries/:id", scheduleHandler.DeleteEntry)
	}
}

// SetupCalendarRoutes sets up the production calendar routes. Reads are open
// to all authenticated users; writes are Admin only.
func SetupCalendarRoutes(authenticatedGroup *gin.RouterGroup, scheduleHandler *handlers.ScheduleHandler) {
	calendarRoutes := authenticatedGroup.Group("/calendar")
	{
		calendarRoutes.GET("/month", scheduleHandler.GetCalendarMonth)
		calendarRoutes.GET("/year", scheduleHandler.GetCalendarYear)
		calendarRoutes.PUT("/month", middleware.RoleAuthMiddleware("Admin"), scheduleHandler.UpsertCalendarMonth)
	}
}

// SetupReportRoutes sets up the report routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	reportRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Engineer"))
	{
		reportRoutes.GET("/timesheet", reportHandler.GetTimesheetReport)
	}
}

// SetupHandoverRoutes sets up the shift handover routes. Any authenticated
// employee may read and confirm; creating is for Engineers and Admins.
func SetupHandoverRoutes(authenticatedGroup *gin.RouterGroup, handoverHandler *handlers.HandoverHandler) {
	handoverRoutes := authenticatedGroup.Group("/handovers")
	{
		handoverRoutes.POST("", middleware.RoleAuthMiddleware("Admin", "Engineer"), handoverHandler.CreateHandover)
		handoverRoutes.GET("", handoverHandler.GetHandovers)
		handoverRoutes.GET("/:id", handoverHandler.GetHandoverByID)
		handoverRoutes.POST("/:id/confirm-briefing", handoverHandler.ConfirmBriefing)
	}
}

// SetupEquipmentRoutes sets up the equipment registry routes.
func SetupEquipmentRoutes(authenticatedGroup *gin.RouterGroup, roundsHandler *handlers.RoundsHandler) {
	equipmentWriteRoutes := authenticatedGroup.Group("/equipment")
	equipmentWriteRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Engineer"))
	{
		equipmentWriteRoutes.POST("", roundsHandler.CreateEquipment)
		equipmentWriteRoutes.PUT("/:id", roundsHandler.UpdateEquipment)
		equipmentWriteRoutes.DELETE("/:id", roundsHandler.DeleteEquipment)
	}

	authenticatedGroup.GET("/equipment", roundsHandler.GetEquipment)
	authenticatedGroup.GET("/equipment/:id", roundsHandler.GetEquipmentByID)
}

// SetupRoundRoutes sets up the inspection round routes.
func SetupRoundRoutes(authenticatedGroup *gin.RouterGroup, roundsHandler *handlers.RoundsHandler) {
	roundRoutes := authenticatedGroup.Group("/rounds")
	{
		roundRoutes.POST("/start", roundsHandler.StartRound)
		roundRoutes.GET("", roundsHandler.GetRounds)
		roundRoutes.GET("/:id", roundsHandler.GetRoundByID)
		roundRoutes.POST("/:id/readings", roundsHandler.AddReading)
		roundRoutes.PATCH("/:id/complete", roundsHandler.CompleteRound)
	}
}

// SetupFeedRoutes sets up the employee feed routes.
func SetupFeedRoutes(authenticatedGroup *gin.RouterGroup, feedHandler *handlers.FeedHandler) {
	feedRoutes := authenticatedGroup.Group("/feed")
	{
		feedRoutes.POST("/posts", feedHandler.CreatePost)
		feedRoutes.GET("/posts", feedHandler.GetPosts)
		feedRoutes.GET("/posts/:id", feedHandler.GetPostByID)
		feedRoutes.DELETE("/posts/:id", feedHandler.DeletePost)
		feedRoutes.POST("/posts/:id/comments", feedHandler.CreateComment)
		feedRoutes.POST("/posts/:id/like", feedHandler.ToggleLike)
	}
}

// SetupSettingsRoutes sets up the application settings routes.
func SetupSettingsRoutes(authenticatedGroup *gin.RouterGroup, settingHandler *handlers.SettingHandler) {
	settingsRoutes := authenticatedGroup.Group("/settings")
	settingsRoutes.Use(middleware.RoleAuthMiddleware("Admin"))
	{
		settingsRoutes.GET("", settingHandler.GetSettings)
		settingsRoutes.GET("/:key", settingHandler.GetSettingByKey)
		settingsRoutes.PUT("/:key", settingHandler.UpsertSetting)
		settingsRoutes.DELETE("/:key", settingHandler.DeleteSetting)
	}
}
