// controllers/rating_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/agriconnect/agriconnect_backend/models"
	"github.com/agriconnect/agriconnect_backend/repositories"
	"github.com/agriconnect/agriconnect_backend/utils"
)

// RatingController handles post-job ratings.
type RatingController struct {
	ratings *repositories.RatingRepository
	users   *repositories.UserRepository
	jobs    *repositories.JobRepository
}

func NewRatingController(ratings *repositories.RatingRepository, users *repositories.UserRepository, jobs *repositories.JobRepository) *RatingController {
	return &RatingController{ratings: ratings, users: users, jobs: jobs}
}

// RateUser handles POST /api/ratings. Ratings are only accepted for completed
// jobs the rater took part in, and the stored average on the rated user is
// recomputed after every insert.
func (rc *RatingController) RateUser(c echo.Context) error {
	raterID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	var req models.RatingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Rating must be between 1 and 5"})
	}

	ratedUserID, err := primitive.ObjectIDFromHex(req.RatedUserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid user id"})
	}
	if ratedUserID == raterID {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "You cannot rate yourself"})
	}

	jobID, err := primitive.ObjectIDFromHex(req.JobID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid job id"})
	}

	job, err := rc.jobs.FindByID(c.Request().Context(), jobID)
	if errors.Is(err, repositories.ErrNotFound) {
		return c.JSON(http.StatusNotFound, models.Response{Success: false, Message: "Job not found"})
	}
	if err != nil {
		log.Printf("rate-user: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch job"})
	}

	if job.Status != models.JobStatusCompleted {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Only completed jobs can be rated"})
	}
	if !involvedInJob(job, raterID) || !involvedInJob(job, ratedUserID) {
		return c.JSON(http.StatusForbidden, models.Response{Success: false, Message: "You can only rate people you worked with"})
	}

	rating := &models.Rating{
		RaterID:     raterID,
		RatedUserID: ratedUserID,
		JobID:       jobID,
		Rating:      req.Rating,
		Comment:     utils.SanitizeInput(req.Comment),
	}

	if err := rc.ratings.Create(c.Request().Context(), rating); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return c.JSON(http.StatusConflict, models.Response{Success: false, Message: "You have already rated this job"})
		}
		log.Printf("rate-user: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to save rating"})
	}

	average, count, err := rc.ratings.AverageForUser(c.Request().Context(), ratedUserID)
	if err != nil {
		log.Printf("rate-user: failed to recompute average: %v", err)
	} else if err := rc.users.UpdateRating(c.Request().Context(), ratedUserID, average, count); err != nil {
		log.Printf("rate-user: failed to store average: %v", err)
	}

	return c.JSON(http.StatusCreated, models.Response{Success: true, Message: "Rating saved", Data: rating})
}

// ListUserRatings handles GET /api/users/:id/ratings
func (rc *RatingController) ListUserRatings(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid user id"})
	}

	ratings, err := rc.ratings.FindForUser(c.Request().Context(), userID)
	if err != nil {
		log.Printf("list-ratings: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch ratings"})
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Data: ratings})
}

// involvedInJob reports whether the user is the posting farmer or one of the
// hired workers.
func involvedInJob(job *models.Job, userID primitive.ObjectID) bool {
	if job.FarmerID == userID {
		return true
	}
	for _, w := range job.HiredWorkers {
		if w == userID {
			return true
		}
	}
	return false
}
