package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/agriconnect/agriconnect_backend/config"
	"github.com/agriconnect/agriconnect_backend/controllers"
	"github.com/agriconnect/agriconnect_backend/middleware"
	"github.com/agriconnect/agriconnect_backend/repositories"
	"github.com/agriconnect/agriconnect_backend/routes"
	"github.com/agriconnect/agriconnect_backend/services"
	"github.com/agriconnect/agriconnect_backend/utils"
	"github.com/agriconnect/agriconnect_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Initialize Firebase (optional, push notifications)
	config.InitFirebase()

	// Connect to Redis (optional, shared OTP store)
	redisClient := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client.Disconnect(ctx)
		config.CloseRedis()
	}()

	logger := log.Default()

	// OTP store: Redis when available so multiple instances share pending
	// codes, otherwise the in-process map.
	var otpStore services.OTPStore
	if redisClient != nil {
		otpStore = services.NewRedisOTPStore(redisClient)
	} else {
		otpStore = services.NewMemoryOTPStore()
	}

	smsSender := services.NewSMSSenderFromEnv(logger)
	otpService := services.NewOTPService(otpStore, smsSender, logger)

	// Sweep expired codes every 5 minutes (no-op on Redis, TTLs handle it)
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go otpService.StartSweeper(sweepCtx, 5*time.Minute)

	// Repositories
	userRepo := repositories.NewUserRepository(client)
	jobRepo := repositories.NewJobRepository(client)
	applicationRepo := repositories.NewApplicationRepository(client)
	chatRepo := repositories.NewChatRepository(client)
	ratingRepo := repositories.NewRatingRepository(client)
	notificationRepo := repositories.NewNotificationRepository(client)

	// Services
	authService := services.NewAuthService(userRepo, otpService, middleware.GenerateJWT, logger)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, logger)

	// WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Controllers
	authController := controllers.NewAuthController(authService)
	userController := controllers.NewUserController(userRepo)
	jobController := controllers.NewJobController(jobRepo, userRepo)
	applicationController := controllers.NewApplicationController(applicationRepo, jobRepo, userRepo, notificationService, wsHub)
	chatController := controllers.NewChatController(chatRepo, userRepo, notificationService, wsHub)
	ratingController := controllers.NewRatingController(ratingRepo, userRepo, jobRepo)
	notificationController := controllers.NewNotificationController(notificationRepo)

	// Echo instance
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	rateLimiter := middleware.NewRateLimiter()

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: []string{"*"},
		AllowInlineJS:  false,
		AllowEval:      false,
	}))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Agriconnect Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Routes
	routes.RegisterAuthRoutes(e, authController)
	routes.RegisterUserRoutes(e, userController, ratingController)
	routes.RegisterJobRoutes(e, jobController, applicationController)
	routes.RegisterChatRoutes(e, chatController, notificationController, wsHub)

	// Uploaded files (avatars)
	if err := utils.InitializeStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	e.Static("/uploads", "uploads")

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
