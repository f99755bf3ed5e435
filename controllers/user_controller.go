// controllers/user_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/agriconnect/agriconnect_backend/middleware"
	"github.com/agriconnect/agriconnect_backend/models"
	"github.com/agriconnect/agriconnect_backend/repositories"
	"github.com/agriconnect/agriconnect_backend/utils"
)

// UserController handles profile management endpoints.
type UserController struct {
	users *repositories.UserRepository
}

func NewUserController(users *repositories.UserRepository) *UserController {
	return &UserController{users: users}
}

// Me handles GET /api/users/me
func (uc *UserController) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	user, err := uc.users.FindByID(c.Request().Context(), userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return c.JSON(http.StatusNotFound, models.Response{Success: false, Message: "User not found"})
	}
	if err != nil {
		log.Printf("me: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch profile"})
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Data: user})
}

// UpdateProfile handles PUT /api/users/me. Role-specific blocks in the request
// are applied only when they match the caller's role.
func (uc *UserController) UpdateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid request body"})
	}

	role := middleware.ExtractUserRole(c)

	set := bson.M{}
	if req.Name != "" {
		set["profile.name"] = utils.SanitizeInput(req.Name)
	}
	if req.Location != nil {
		set["profile.location"] = req.Location
	}
	if req.Language != "" {
		set["language"] = utils.NormalizeLanguage(req.Language)
	}
	if role == models.RoleFarmer && req.FarmDetails != nil {
		set["profile.farmer.farmDetails"] = req.FarmDetails
	}
	if role == models.RoleLabourer {
		if req.Skills != nil {
			set["profile.labourer.skills"] = utils.SanitizeStringArray(req.Skills)
		}
		if req.Experience != nil {
			set["profile.labourer.experience"] = *req.Experience
		}
		if req.Availability != nil {
			set["profile.labourer.availability"] = req.Availability
		}
	}

	if len(set) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Nothing to update"})
	}

	if err := uc.users.UpdateProfile(c.Request().Context(), userID, set); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{Success: false, Message: "User not found"})
		}
		log.Printf("update-profile: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to update profile"})
	}

	user, err := uc.users.FindByID(c.Request().Context(), userID)
	if err != nil {
		log.Printf("update-profile: reload failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch profile"})
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Message: "Profile updated", Data: user})
}

// UploadAvatar handles POST /api/users/me/avatar
func (uc *UserController) UploadAvatar(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Avatar file is required"})
	}

	url, err := utils.SaveAvatar(file)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: err.Error()})
	}

	// Drop the previous avatar before recording the new one.
	if user, err := uc.users.FindByID(c.Request().Context(), userID); err == nil && user.Profile.Avatar != "" {
		if err := utils.RemoveUpload(user.Profile.Avatar); err != nil {
			log.Printf("upload-avatar: failed to remove old avatar: %v", err)
		}
	}

	if err := uc.users.UpdateProfile(c.Request().Context(), userID, bson.M{"profile.avatar": url}); err != nil {
		log.Printf("upload-avatar: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to update avatar"})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Avatar updated",
		Data:    map[string]string{"avatar": url},
	})
}

// GetPublicProfile handles GET /api/users/:id. Phone numbers are only shown to
// the owner, never on the public view.
func (uc *UserController) GetPublicProfile(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid user id"})
	}

	user, err := uc.users.FindByID(c.Request().Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		return c.JSON(http.StatusNotFound, models.Response{Success: false, Message: "User not found"})
	}
	if err != nil {
		log.Printf("public-profile: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch profile"})
	}

	profile := map[string]interface{}{
		"id":           user.ID.Hex(),
		"role":         user.Role,
		"name":         user.Profile.Name,
		"avatar":       user.Profile.Avatar,
		"location":     user.Profile.Location,
		"rating":       user.Profile.Rating,
		"totalRatings": user.Profile.TotalRatings,
	}
	switch user.Role {
	case models.RoleFarmer:
		profile["farmer"] = user.Profile.Farmer
	case models.RoleLabourer:
		profile["labourer"] = user.Profile.Labourer
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Data: profile})
}

// UpdateFCMToken handles PUT /api/users/me/fcm-token
func (uc *UserController) UpdateFCMToken(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	var req models.UpdateFCMTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "fcmToken is required"})
	}

	if err := uc.users.UpdateFCMToken(c.Request().Context(), userID, req.FCMToken); err != nil {
		log.Printf("update-fcm-token: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to update FCM token"})
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Message: "FCM token updated"})
}
