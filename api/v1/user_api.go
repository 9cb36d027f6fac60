package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"visitordesk/api/v1/request"
	"visitordesk/internal/metrics"
	"visitordesk/internal/upload"
	"visitordesk/internal/validator"
	"visitordesk/middleware"
	"visitordesk/service"
)

// UserAPI exposes the admin-only user CRUD handlers.
type UserAPI struct {
	service *service.UserService
}

func NewUserAPI(s *service.UserService) *UserAPI {
	return &UserAPI{service: s}
}

// List returns all users, optionally filtered by ?search=<term>.
func (u *UserAPI) List(c *gin.Context) {
	users, err := u.service.List(c.Query("search"))
	if err != nil {
		metrics.IncUserAction("list", "internal_error")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}
	metrics.IncUserAction("list", "success")
	respondList(c, "Users retrieved successfully", users, len(users))
}

// GetByID returns a single user record.
func (u *UserAPI) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := u.service.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to retrieve user")
		return
	}
	respondData(c, http.StatusOK, "User retrieved successfully", user)
}

// Update applies a partial multipart update, optionally swapping the image.
func (u *UserAPI) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req request.UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		metrics.IncUserAction("update", "validation_failed")
		respondValidation(c, validator.Collect(err))
		return
	}

	image, err := c.FormFile(upload.FieldName)
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			metrics.IncUserAction("update", "validation_failed")
			respondError(c, http.StatusBadRequest, "Invalid upload")
			return
		}
		image = nil
	}

	user, err := u.service.Update(id, req, image)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			metrics.IncUserAction("update", "not_found")
			respondError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, service.ErrEmailTaken):
			metrics.IncUserAction("update", "conflict")
			respondError(c, http.StatusConflict, "Email already in use")
		case errors.Is(err, service.ErrPhoneTaken):
			metrics.IncUserAction("update", "conflict")
			respondError(c, http.StatusConflict, "Phone number already in use")
		case errors.Is(err, upload.ErrTooLarge), errors.Is(err, upload.ErrBadType):
			metrics.IncUserAction("update", "validation_failed")
			respondValidation(c, []validator.FieldError{{Field: upload.FieldName, Message: err.Error()}})
		default:
			metrics.IncUserAction("update", "internal_error")
			respondError(c, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}

	metrics.IncUserAction("update", "success")
	respondData(c, http.StatusOK, "User updated successfully", user)
}

// Delete removes a user record. Self-deletion is blocked.
func (u *UserAPI) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	claims := middleware.CurrentUser(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := u.service.Delete(id, claims.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			metrics.IncUserAction("delete", "not_found")
			respondError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, service.ErrSelfDelete):
			metrics.IncUserAction("delete", "forbidden")
			respondError(c, http.StatusForbidden, "You cannot delete your own account")
		default:
			metrics.IncUserAction("delete", "internal_error")
			respondError(c, http.StatusInternalServerError, "Failed to delete user")
		}
		return
	}

	metrics.IncUserAction("delete", "success")
	respondData(c, http.StatusOK, "User deleted successfully", nil)
}

// parseID reads :id from the path. A non-numeric id can never match a
// record, so it reads as not found.
func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return 0, false
	}
	return id, true
}
