package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/agriconnect/agriconnect_backend/controllers"
	"github.com/agriconnect/agriconnect_backend/middleware"
)

// RegisterUserRoutes sets up profile and rating endpoints.
func RegisterUserRoutes(e *echo.Echo, userController *controllers.UserController, ratingController *controllers.RatingController) {
	users := e.Group("/api/users")
	users.Use(middleware.JWTMiddleware())

	users.GET("/me", userController.Me)
	users.PUT("/me", userController.UpdateProfile)
	users.POST("/me/avatar", userController.UploadAvatar)
	users.PUT("/me/fcm-token", userController.UpdateFCMToken)

	users.GET("/:id", userController.GetPublicProfile)
	users.GET("/:id/ratings", ratingController.ListUserRatings)

	ratings := e.Group("/api/ratings")
	ratings.Use(middleware.JWTMiddleware())
	ratings.POST("", ratingController.RateUser)
}
