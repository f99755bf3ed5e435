// controllers/job_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/agriconnect/agriconnect_backend/models"
	"github.com/agriconnect/agriconnect_backend/repositories"
	"github.com/agriconnect/agriconnect_backend/utils"
)

// JobController handles job posting and discovery.
type JobController struct {
	jobs  *repositories.JobRepository
	users *repositories.UserRepository
}

func NewJobController(jobs *repositories.JobRepository, users *repositories.UserRepository) *JobController {
	return &JobController{jobs: jobs, users: users}
}

// CreateJob handles POST /api/jobs (farmers only)
func (jc *JobController) CreateJob(c echo.Context) error {
	farmerID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	var req models.JobPostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Missing or invalid job fields"})
	}

	job := &models.Job{
		FarmerID:    farmerID,
		Title:       utils.SanitizeInput(req.Title),
		Description: utils.SanitizeInput(req.Description),
		CropType:    utils.SanitizeInput(req.CropType),
		WorkType:    utils.SanitizeInput(req.WorkType),
		Location:    req.Location,
		Requirements: models.JobRequirements{
			WorkersNeeded:      req.WorkersNeeded,
			ExperienceRequired: req.ExperienceRequired,
			SkillsRequired:     utils.SanitizeStringArray(req.SkillsRequired),
		},
		Schedule: models.JobSchedule{
			StartDate:     req.StartDate,
			EndDate:       req.EndDate,
			EstimatedDays: req.EstimatedDays,
			WorkingHours:  req.WorkingHours,
		},
		Wages: models.Wages{
			Type:    req.WageType,
			Amount:  req.WageAmount,
			Bonuses: req.Bonuses,
		},
	}

	if err := jc.jobs.Create(c.Request().Context(), job); err != nil {
		log.Printf("create-job: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to create job"})
	}

	if err := jc.users.IncrementJobsPosted(c.Request().Context(), farmerID); err != nil {
		log.Printf("create-job: failed to bump jobsPosted: %v", err)
	}

	return c.JSON(http.StatusCreated, models.Response{Success: true, Message: "Job posted", Data: job})
}

// GetJob handles GET /api/jobs/:id
func (jc *JobController) GetJob(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid job id"})
	}

	job, err := jc.jobs.FindByID(c.Request().Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		return c.JSON(http.StatusNotFound, models.Response{Success: false, Message: "Job not found"})
	}
	if err != nil {
		log.Printf("get-job: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch job"})
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Data: job})
}

// SearchJobs handles GET /api/jobs. Only open jobs are searchable.
func (jc *JobController) SearchJobs(c echo.Context) error {
	var filters models.JobSearchFilters
	if err := c.Bind(&filters); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid search filters"})
	}

	jobs, err := jc.jobs.Search(c.Request().Context(), filters)
	if err != nil {
		log.Printf("search-jobs: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to search jobs"})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data: map[string]interface{}{
			"jobs":  jobs,
			"count": len(jobs),
		},
	})
}

// MyJobs handles GET /api/jobs/mine (farmers only)
func (jc *JobController) MyJobs(c echo.Context) error {
	farmerID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	jobs, err := jc.jobs.FindByFarmer(c.Request().Context(), farmerID, limit, skip)
	if err != nil {
		log.Printf("my-jobs: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch jobs"})
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Data: jobs})
}

// UpdateJobStatus handles PUT /api/jobs/:id/status. Only the posting farmer
// can change a job's status.
func (jc *JobController) UpdateJobStatus(c echo.Context) error {
	farmerID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid job id"})
	}

	var req models.UpdateJobStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid status"})
	}

	job, err := jc.jobs.FindByID(c.Request().Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		return c.JSON(http.StatusNotFound, models.Response{Success: false, Message: "Job not found"})
	}
	if err != nil {
		log.Printf("update-job-status: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch job"})
	}

	if job.FarmerID != farmerID {
		return c.JSON(http.StatusForbidden, models.Response{Success: false, Message: "Only the job owner can update its status"})
	}

	if err := jc.jobs.UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
		log.Printf("update-job-status: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to update job status"})
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Message: "Job status updated"})
}
