// controllers/application_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/agriconnect/agriconnect_backend/models"
	"github.com/agriconnect/agriconnect_backend/repositories"
	"github.com/agriconnect/agriconnect_backend/services"
	"github.com/agriconnect/agriconnect_backend/utils"
	"github.com/agriconnect/agriconnect_backend/websocket"
)

// ApplicationController handles the labourer application lifecycle.
type ApplicationController struct {
	applications *repositories.ApplicationRepository
	jobs         *repositories.JobRepository
	users        *repositories.UserRepository
	notify       *services.NotificationService
	hub          *websocket.Hub
}

func NewApplicationController(
	applications *repositories.ApplicationRepository,
	jobs *repositories.JobRepository,
	users *repositories.UserRepository,
	notify *services.NotificationService,
	hub *websocket.Hub,
) *ApplicationController {
	return &ApplicationController{
		applications: applications,
		jobs:         jobs,
		users:        users,
		notify:       notify,
		hub:          hub,
	}
}

// Apply handles POST /api/applications (labourers only)
func (apc *ApplicationController) Apply(c echo.Context) error {
	labourerID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	var req models.ApplyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "jobId is required"})
	}

	jobID, err := primitive.ObjectIDFromHex(req.JobID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid job id"})
	}

	job, err := apc.jobs.FindByID(c.Request().Context(), jobID)
	if errors.Is(err, repositories.ErrNotFound) {
		return c.JSON(http.StatusNotFound, models.Response{Success: false, Message: "Job not found"})
	}
	if err != nil {
		log.Printf("apply: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch job"})
	}

	if job.Status != models.JobStatusOpen {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "This job is no longer accepting applications"})
	}

	app := &models.JobApplication{
		JobID:        jobID,
		LabourerID:   labourerID,
		FarmerID:     job.FarmerID,
		Message:      utils.SanitizeInput(req.Message),
		ProposedWage: req.ProposedWage,
	}

	if err := apc.applications.Create(c.Request().Context(), app); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return c.JSON(http.StatusConflict, models.Response{Success: false, Message: "You have already applied to this job"})
		}
		log.Printf("apply: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to submit application"})
	}

	if err := apc.jobs.IncrementApplications(c.Request().Context(), jobID); err != nil {
		log.Printf("apply: failed to bump applicationsCount: %v", err)
	}

	if err := apc.notify.Notify(c.Request().Context(), job.FarmerID,
		"New application", "A labourer applied to your job: "+job.Title,
		models.NotificationApplication, map[string]string{
			"jobId":         jobID.Hex(),
			"applicationId": app.ID.Hex(),
		}); err != nil {
		log.Printf("apply: failed to save notification: %v", err)
	}
	apc.hub.NotifyApplicationReceived(job.FarmerID, app)

	return c.JSON(http.StatusCreated, models.Response{Success: true, Message: "Application submitted", Data: app})
}

// ListForJob handles GET /api/jobs/:id/applications (job owner only)
func (apc *ApplicationController) ListForJob(c echo.Context) error {
	farmerID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	jobID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid job id"})
	}

	job, err := apc.jobs.FindByID(c.Request().Context(), jobID)
	if errors.Is(err, repositories.ErrNotFound) {
		return c.JSON(http.StatusNotFound, models.Response{Success: false, Message: "Job not found"})
	}
	if err != nil {
		log.Printf("list-applications: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch job"})
	}

	if job.FarmerID != farmerID {
		return c.JSON(http.StatusForbidden, models.Response{Success: false, Message: "Only the job owner can view applications"})
	}

	apps, err := apc.applications.FindByJob(c.Request().Context(), jobID)
	if err != nil {
		log.Printf("list-applications: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch applications"})
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Data: apps})
}

// MyApplications handles GET /api/applications/mine (labourers only)
func (apc *ApplicationController) MyApplications(c echo.Context) error {
	labourerID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	apps, err := apc.applications.FindByLabourer(c.Request().Context(), labourerID)
	if err != nil {
		log.Printf("my-applications: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch applications"})
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Data: apps})
}

// Respond handles PUT /api/applications/:id/respond (job owner only).
// Accepting records the labourer on the job's hired list.
func (apc *ApplicationController) Respond(c echo.Context) error {
	farmerID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	appID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid application id"})
	}

	var req models.RespondApplicationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Status must be accepted or rejected"})
	}

	app, err := apc.applications.FindByID(c.Request().Context(), appID)
	if errors.Is(err, repositories.ErrNotFound) {
		return c.JSON(http.StatusNotFound, models.Response{Success: false, Message: "Application not found"})
	}
	if err != nil {
		log.Printf("respond-application: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch application"})
	}

	if app.FarmerID != farmerID {
		return c.JSON(http.StatusForbidden, models.Response{Success: false, Message: "Only the job owner can respond to applications"})
	}
	if app.Status != models.ApplicationPending {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Application has already been responded to"})
	}

	if err := apc.applications.UpdateStatus(c.Request().Context(), appID, req.Status); err != nil {
		log.Printf("respond-application: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to update application"})
	}

	if req.Status == models.ApplicationAccepted {
		if err := apc.jobs.AddHiredWorker(c.Request().Context(), app.JobID, app.LabourerID); err != nil {
			log.Printf("respond-application: failed to record hire: %v", err)
		}
	}

	title := "Application update"
	message := "Your application was " + req.Status
	if err := apc.notify.Notify(c.Request().Context(), app.LabourerID, title, message,
		models.NotificationApplication, map[string]string{
			"jobId":         app.JobID.Hex(),
			"applicationId": appID.Hex(),
			"status":        req.Status,
		}); err != nil {
		log.Printf("respond-application: failed to save notification: %v", err)
	}
	apc.hub.NotifyApplicationUpdate(app.LabourerID, map[string]string{
		"applicationId": appID.Hex(),
		"status":        req.Status,
	})

	return c.JSON(http.StatusOK, models.Response{Success: true, Message: "Application " + req.Status})
}

// Withdraw handles DELETE /api/applications/:id (applicant only, while
// pending)
func (apc *ApplicationController) Withdraw(c echo.Context) error {
	labourerID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	appID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid application id"})
	}

	app, err := apc.applications.FindByID(c.Request().Context(), appID)
	if errors.Is(err, repositories.ErrNotFound) {
		return c.JSON(http.StatusNotFound, models.Response{Success: false, Message: "Application not found"})
	}
	if err != nil {
		log.Printf("withdraw-application: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch application"})
	}

	if app.LabourerID != labourerID {
		return c.JSON(http.StatusForbidden, models.Response{Success: false, Message: "You can only withdraw your own applications"})
	}
	if app.Status != models.ApplicationPending {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Only pending applications can be withdrawn"})
	}

	if err := apc.applications.UpdateStatus(c.Request().Context(), appID, models.ApplicationWithdrawn); err != nil {
		log.Printf("withdraw-application: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to withdraw application"})
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Message: "Application withdrawn"})
}
