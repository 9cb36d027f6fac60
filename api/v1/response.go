package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"visitordesk/internal/validator"
)

// Response is the uniform envelope shared by every handler.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

func respondData(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func respondList(c *gin.Context, message string, data interface{}, count int) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data, Count: &count})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

func respondValidation(c *gin.Context, errs []validator.FieldError) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Message: "Validation failed", Errors: errs})
}
