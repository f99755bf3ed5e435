// controllers/auth_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agriconnect/agriconnect_backend/middleware"
	"github.com/agriconnect/agriconnect_backend/models"
	"github.com/agriconnect/agriconnect_backend/services"
	"github.com/agriconnect/agriconnect_backend/utils"
)

// AuthController handles the OTP authentication endpoints.
type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// SendOTP handles POST /api/auth/send-otp
func (ac *AuthController) SendOTP(c echo.Context) error {
	var req models.SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: utils.Localize(utils.MsgMissingFields, requestLanguage(c)),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: utils.Localize(utils.MsgMissingFields, req.Language),
		})
	}

	lang := utils.NormalizeLanguage(req.Language)

	if err := ac.auth.SendOTP(c.Request().Context(), req.Phone, lang); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPhone):
			return c.JSON(http.StatusBadRequest, models.Response{
				Success: false,
				Message: utils.Localize(utils.MsgInvalidPhone, lang),
			})
		case errors.Is(err, services.ErrSMSDelivery):
			log.Printf("send-otp: sms delivery failed: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Success: false,
				Message: utils.Localize(utils.MsgOTPSendFailed, lang),
			})
		default:
			log.Printf("send-otp: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Success: false,
				Message: utils.Localize(utils.MsgInternalError, lang),
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: utils.Localize(utils.MsgOTPSent, lang),
	})
}

// VerifyOTP handles POST /api/auth/verify-otp. A valid code for an unknown
// phone returns 404 with a register redirect rather than an error.
func (ac *AuthController) VerifyOTP(c echo.Context) error {
	lang := requestLanguage(c)

	var req models.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: utils.Localize(utils.MsgMissingFields, lang),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: utils.Localize(utils.MsgMissingFields, lang),
		})
	}

	data, err := ac.auth.Login(c.Request().Context(), req.Phone, req.OTP)
	if err != nil {
		if errors.Is(err, services.ErrMustRegister) {
			return c.JSON(http.StatusNotFound, models.Response{
				Success:    false,
				Message:    utils.Localize(utils.MsgMustRegister, lang),
				RedirectTo: "/register",
			})
		}
		return ac.otpFailure(c, err, lang)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: utils.Localize(utils.MsgLoginSuccess, lang),
		Data:    data,
	})
}

// Register handles POST /api/auth/register
func (ac *AuthController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: utils.Localize(utils.MsgMissingFields, requestLanguage(c)),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: utils.Localize(utils.MsgMissingFields, req.Language),
		})
	}

	lang := utils.NormalizeLanguage(req.Language)

	data, err := ac.auth.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyRegistered) {
			return c.JSON(http.StatusConflict, models.Response{
				Success:    false,
				Message:    utils.Localize(utils.MsgAlreadyExists, lang),
				RedirectTo: "/login",
			})
		}
		return ac.otpFailure(c, err, lang)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: utils.Localize(utils.MsgRegistered, lang),
		Data:    data,
	})
}

// ValidateToken handles GET /api/auth/validate. It sits behind the JWT
// middleware, so reaching it means the token is good.
func (ac *AuthController) ValidateToken(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Invalid or expired token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data: map[string]string{
			"userId": claims.UserID,
			"phone":  claims.Phone,
			"role":   claims.Role,
		},
	})
}

// otpFailure maps verification errors onto localized 400s. Unknown errors are
// logged and become a generic 500.
func (ac *AuthController) otpFailure(c echo.Context, err error, lang string) error {
	var key string
	switch {
	case errors.Is(err, services.ErrInvalidPhone):
		key = utils.MsgInvalidPhone
	case errors.Is(err, services.ErrOTPNotFound):
		key = utils.MsgOTPNotFound
	case errors.Is(err, services.ErrOTPExpired):
		key = utils.MsgOTPExpired
	case errors.Is(err, services.ErrOTPMismatch):
		key = utils.MsgOTPMismatch
	case errors.Is(err, services.ErrTooManyAttempts):
		key = utils.MsgTooManyAttempts
	default:
		log.Printf("auth: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: utils.Localize(utils.MsgInternalError, lang),
		})
	}

	return c.JSON(http.StatusBadRequest, models.Response{
		Success: false,
		Message: utils.Localize(key, lang),
	})
}

// requestLanguage reads the preferred response language from the lang query
// parameter. Bodies that carry their own language field override this.
func requestLanguage(c echo.Context) string {
	return utils.NormalizeLanguage(c.QueryParam("lang"))
}
