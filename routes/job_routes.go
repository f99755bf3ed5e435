package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/agriconnect/agriconnect_backend/controllers"
	"github.com/agriconnect/agriconnect_backend/middleware"
	"github.com/agriconnect/agriconnect_backend/models"
)

// RegisterJobRoutes sets up job posting, discovery, and application endpoints.
func RegisterJobRoutes(e *echo.Echo, jobController *controllers.JobController, applicationController *controllers.ApplicationController) {
	jobs := e.Group("/api/jobs")
	jobs.Use(middleware.JWTMiddleware())

	// Discovery is open to both roles
	jobs.GET("", jobController.SearchJobs)
	jobs.GET("/mine", jobController.MyJobs, middleware.RequireRole(models.RoleFarmer))
	jobs.GET("/:id", jobController.GetJob)

	// Posting and managing jobs is farmer-only
	jobs.POST("", jobController.CreateJob, middleware.RequireRole(models.RoleFarmer))
	jobs.PUT("/:id/status", jobController.UpdateJobStatus, middleware.RequireRole(models.RoleFarmer))
	jobs.GET("/:id/applications", applicationController.ListForJob, middleware.RequireRole(models.RoleFarmer))

	applications := e.Group("/api/applications")
	applications.Use(middleware.JWTMiddleware())

	applications.POST("", applicationController.Apply, middleware.RequireRole(models.RoleLabourer))
	applications.GET("/mine", applicationController.MyApplications, middleware.RequireRole(models.RoleLabourer))
	applications.PUT("/:id/respond", applicationController.Respond, middleware.RequireRole(models.RoleFarmer))
	applications.DELETE("/:id", applicationController.Withdraw, middleware.RequireRole(models.RoleLabourer))
}
