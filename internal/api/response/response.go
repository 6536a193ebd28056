package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response success envelope
type Response struct {
	Status  int         `json:"status"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

// ErrorResponse failure envelope; Errors carries per-field details
type ErrorResponse struct {
	Status  int      `json:"status"`
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func JSON(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Status:  status,
		Success: true,
		Data:    data,
		Message: message,
	})
}

func OK(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusCreated, message, data)
}

// Fail writes the failure envelope and aborts the chain
func Fail(c *gin.Context, status int, message string, errs []string) {
	if errs == nil {
		errs = []string{}
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Status:  status,
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message, nil)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message, nil)
}

func InternalError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, message, nil)
}
