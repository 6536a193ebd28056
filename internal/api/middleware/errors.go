package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"vidtube/internal/api/response"
	"vidtube/internal/apperr"
	"vidtube/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrorResponder renders the last error a handler pushed with c.Error as the
// failure envelope. Handlers never write error responses themselves.
func ErrorResponder() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		last := c.Errors.Last()
		status, message, details := Classify(last)
		if status >= http.StatusInternalServerError {
			logger.FromContext(c.Request.Context()).Error("Request failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(last.Err),
			)
		}
		response.Fail(c, status, message, details)
	}
}

// Classify maps an error to status, client message and details. Unknown
// errors become a generic internal error so nothing internal leaks.
func Classify(err error) (int, string, []string) {
	if appErr, ok := apperr.As(err); ok {
		if appErr.Kind == apperr.KindInternal {
			return http.StatusInternalServerError, appErr.Message, nil
		}
		return appErr.Status(), appErr.Message, appErr.Errors
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldMessage(fe))
		}
		return http.StatusBadRequest, "invalid request", details
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, "resource not found", nil
	}

	var ginErr *gin.Error
	if errors.As(err, &ginErr) && ginErr.IsType(gin.ErrorTypeBind) {
		return http.StatusBadRequest, "invalid request", []string{ginErr.Err.Error()}
	}
	return http.StatusInternalServerError, "internal server error", nil
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "uuid", "uuid4":
		return field + " must be a valid id"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return field + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
