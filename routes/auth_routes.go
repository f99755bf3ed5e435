package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/agriconnect/agriconnect_backend/controllers"
	"github.com/agriconnect/agriconnect_backend/middleware"
)

// RegisterAuthRoutes sets up the OTP authentication endpoints.
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController) {
	// Public authentication routes
	e.POST("/api/auth/send-otp", authController.SendOTP)
	e.POST("/api/auth/verify-otp", authController.VerifyOTP)
	e.POST("/api/auth/register", authController.Register)

	// Token validation requires a valid token by definition
	validate := e.Group("/api/auth")
	validate.Use(middleware.JWTMiddleware())
	validate.GET("/validate", authController.ValidateToken)
}
