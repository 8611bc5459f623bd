package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serverErrorMessage = "Server Error"

// StatusError is an error that already knows which HTTP status and client
// message it maps to. Everything else is classified by the formatter.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

func NotFound(resource string, id string) *StatusError {
	return &StatusError{Status: http.StatusNotFound, Message: fmt.Sprintf("%s with id %s not found", resource, id)}
}

func ValidationFailed(message string) *StatusError {
	return &StatusError{Status: http.StatusBadRequest, Message: message}
}

func UploadRejected(message string) *StatusError {
	return &StatusError{Status: http.StatusBadRequest, Message: message}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorFormatter is the single place errors become client responses. Handlers
// attach errors to the context and never write failure payloads themselves.
func ErrorFormatter(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, message := classify(err)

		if status >= http.StatusInternalServerError {
			logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		}

		c.JSON(status, Envelope{Success: false, Message: message})
	}
}

func classify(err error) (int, string) {
	var (
		statusErr      *StatusError
		validationErrs validator.ValidationErrors
		syntaxErr      *json.SyntaxError
		typeErr        *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &statusErr):
		return statusErr.Status, statusErr.Message
	case errors.As(err, &validationErrs):
		var aggregated error
		for _, violation := range validationErrs {
			aggregated = multierr.Append(aggregated, fmt.Errorf("field %s failed on the %q rule", violation.Field(), violation.Tag()))
		}

		return http.StatusBadRequest, aggregated.Error()
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusBadRequest, "Duplicate field values"
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return http.StatusBadRequest, "Malformed request body"
	default:
		return http.StatusInternalServerError, serverErrorMessage
	}
}
