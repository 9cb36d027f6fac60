package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"visitordesk/api/v1/request"
	"visitordesk/internal/metrics"
	"visitordesk/internal/upload"
	"visitordesk/internal/validator"
	"visitordesk/service"
)

// AuthAPI exposes the registration / login / refresh HTTP handlers.
type AuthAPI struct {
	service *service.AuthService
}

func NewAuthAPI(s *service.AuthService) *AuthAPI {
	return &AuthAPI{service: s}
}

// Register handles the multipart registration form plus optional image.
func (a *AuthAPI) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		metrics.IncRegister("validation_failed")
		respondValidation(c, validator.Collect(err))
		return
	}

	image, err := c.FormFile(upload.FieldName)
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			metrics.IncRegister("validation_failed")
			respondError(c, http.StatusBadRequest, "Invalid upload")
			return
		}
		image = nil
	}

	user, access, refresh, err := a.service.Register(req, image)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			metrics.IncRegister("conflict")
			respondError(c, http.StatusConflict, "Email already registered")
		case errors.Is(err, service.ErrPhoneTaken):
			metrics.IncRegister("conflict")
			respondError(c, http.StatusConflict, "Phone number already registered")
		case errors.Is(err, upload.ErrTooLarge), errors.Is(err, upload.ErrBadType):
			metrics.IncRegister("validation_failed")
			respondValidation(c, []validator.FieldError{{Field: upload.FieldName, Message: err.Error()}})
		default:
			metrics.IncRegister("internal_error")
			respondError(c, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	metrics.IncRegister("success")
	respondData(c, http.StatusCreated, "User registered successfully", gin.H{
		"user":         user,
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

// Login validates credentials and returns the user plus a token pair.
func (a *AuthAPI) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncLogin("validation_failed")
		respondValidation(c, validator.Collect(err))
		return
	}

	user, access, refresh, err := a.service.Login(req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.IncLogin("unauthorized")
			respondError(c, http.StatusUnauthorized, "Invalid email/phone or password")
			return
		}
		metrics.IncLogin("internal_error")
		respondError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	metrics.IncLogin("success")
	respondData(c, http.StatusOK, "Login successful", gin.H{
		"user":         user,
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

// Refresh mints a new token pair from a valid refresh token. A missing token
// is 401; any verification failure is 403.
func (a *AuthAPI) Refresh(c *gin.Context) {
	var req request.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		metrics.IncRefresh("missing_token")
		respondError(c, http.StatusUnauthorized, "Refresh token required")
		return
	}

	access, refresh, err := a.service.Refresh(req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshInvalid):
			metrics.IncRefresh("forbidden")
			respondError(c, http.StatusForbidden, "Invalid refresh token")
		case errors.Is(err, service.ErrUserNotFound):
			metrics.IncRefresh("not_found")
			respondError(c, http.StatusNotFound, "User not found")
		default:
			metrics.IncRefresh("internal_error")
			respondError(c, http.StatusInternalServerError, "Token refresh failed")
		}
		return
	}

	metrics.IncRefresh("success")
	respondData(c, http.StatusOK, "Token refreshed successfully", gin.H{
		"accessToken":  access,
		"refreshToken": refresh,
	})
}
