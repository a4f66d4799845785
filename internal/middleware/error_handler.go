package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"accounts-service/internal/models"
	"accounts-service/internal/permissions"
	"accounts-service/internal/repository"
	"accounts-service/internal/services"
)

// CustomError represents an application error with a stable code.
type CustomError struct {
	Code       string
	Message    string
	Field      string
	StatusCode int
	Details    map[string]interface{}
}

func (e CustomError) Error() string {
	return e.Message
}

// Error codes surfaced in the response envelope.
const (
	// Account hierarchy errors
	ErrCodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	ErrCodeDuplicateEmail      = "DUPLICATE_EMAIL"
	ErrCodeDuplicatePhone      = "DUPLICATE_PHONE"
	ErrCodeBranchRequired      = "BRANCH_REQUIRED"
	ErrCodeInvalidPermissions  = "INVALID_PERMISSIONS"
	ErrCodeAlreadyDeactivated  = "ALREADY_DEACTIVATED"
	ErrCodeAlreadyActive       = "ALREADY_ACTIVE"
	ErrCodeVersionConflict     = "VERSION_CONFLICT"
	ErrCodeAccountDeactivated  = "ACCOUNT_DEACTIVATED"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeUnauthorized          = "UNAUTHORIZED"
	ErrCodeForbidden             = "FORBIDDEN"
	ErrCodePermissionDenied      = "PERMISSION_DENIED"
	ErrCodeInvalidModuleOrAction = "INVALID_MODULE_OR_ACTION"
	ErrCodeTenantRequired        = "TENANT_REQUIRED"

	// General errors
	ErrCodeInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeRateLimited      = "RATE_LIMITED"
)

// ErrorHandler renders errors attached to the gin context into the standard
// response envelope. Handlers push errors with c.Error and abort.
func ErrorHandler() gin.HandlerFunc {
	logger := logrus.WithField("component", "error_handler")
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		custom := Classify(err)
		traceID := c.GetString("trace_id")
		if traceID == "" {
			traceID = uuid.New().String()
		}

		entry := logger.WithFields(logrus.Fields{
			"trace_id": traceID,
			"code":     custom.Code,
			"path":     c.Request.URL.Path,
			"method":   c.Request.Method,
		})
		if custom.StatusCode >= http.StatusInternalServerError {
			entry.WithError(err).Error("Request failed")
		} else {
			entry.Info(custom.Message)
		}

		c.JSON(custom.StatusCode, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    custom.Code,
				Message: custom.Message,
				Field:   custom.Field,
				Details: custom.Details,
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			RequestID: traceID,
		})
	}
}

// Classify maps service-layer errors onto response codes. Unrecognized
// errors become opaque 500s so internals never leak to clients.
func Classify(err error) CustomError {
	var custom CustomError
	if errors.As(err, &custom) {
		return custom
	}

	var invalidPerms *services.InvalidPermissionsError
	switch {
	case errors.As(err, &invalidPerms):
		details := map[string]interface{}{}
		if len(invalidPerms.Violations) > 0 {
			details["violations"] = invalidPerms.Violations
		}
		return CustomError{
			Code:       ErrCodeInvalidPermissions,
			Message:    invalidPerms.Error(),
			Field:      "permissions",
			StatusCode: http.StatusUnprocessableEntity,
			Details:    details,
		}
	case errors.Is(err, services.ErrAccountNotFound):
		return CustomError{Code: ErrCodeAccountNotFound, Message: "Account not found", StatusCode: http.StatusNotFound}
	case errors.Is(err, services.ErrDuplicateEmail):
		return CustomError{Code: ErrCodeDuplicateEmail, Message: "Email is already in use", Field: "email", StatusCode: http.StatusConflict}
	case errors.Is(err, services.ErrDuplicatePhone):
		return CustomError{Code: ErrCodeDuplicatePhone, Message: "Phone number is already in use", Field: "phone", StatusCode: http.StatusConflict}
	case errors.Is(err, services.ErrBranchRequired):
		return CustomError{Code: ErrCodeBranchRequired, Message: "Center admin accounts require a branch", Field: "branchId", StatusCode: http.StatusBadRequest}
	case errors.Is(err, services.ErrUnknownPreset):
		return CustomError{Code: ErrCodeValidationFailed, Message: err.Error(), Field: "presetKey", StatusCode: http.StatusBadRequest}
	case errors.Is(err, services.ErrForbidden):
		return CustomError{Code: ErrCodeForbidden, Message: "You are not authorized to manage this account", StatusCode: http.StatusForbidden}
	case errors.Is(err, services.ErrAlreadyDeactivated):
		return CustomError{Code: ErrCodeAlreadyDeactivated, Message: "Account is already deactivated", StatusCode: http.StatusConflict}
	case errors.Is(err, services.ErrAlreadyActive):
		return CustomError{Code: ErrCodeAlreadyActive, Message: "Account is already active", StatusCode: http.StatusConflict}
	case errors.Is(err, services.ErrInvalidCredentials):
		return CustomError{Code: ErrCodeInvalidCredentials, Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	case errors.Is(err, services.ErrAccountDeactivated):
		return CustomError{Code: ErrCodeAccountDeactivated, Message: "Account is deactivated", StatusCode: http.StatusForbidden}
	case errors.Is(err, repository.ErrVersionConflict):
		return CustomError{Code: ErrCodeVersionConflict, Message: "Account was modified concurrently, retry the request", StatusCode: http.StatusConflict}
	case errors.Is(err, repository.ErrNotFound):
		return CustomError{Code: ErrCodeAccountNotFound, Message: "Account not found", StatusCode: http.StatusNotFound}
	case errors.Is(err, permissions.ErrInvalidModuleOrAction):
		return CustomError{Code: ErrCodeInvalidModuleOrAction, Message: err.Error(), StatusCode: http.StatusBadRequest}
	}

	return CustomError{
		Code:       ErrCodeInternalServer,
		Message:    "An unexpected error occurred",
		StatusCode: http.StatusInternalServerError,
	}
}

// NewBadRequestError creates a bad request error.
func NewBadRequestError(message string, details map[string]interface{}) CustomError {
	return CustomError{
		Code:       ErrCodeBadRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// NewValidationError creates a request validation error.
func NewValidationError(message string) CustomError {
	return CustomError{
		Code:       ErrCodeValidationFailed,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(resource string) CustomError {
	return CustomError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(message string) CustomError {
	return CustomError{
		Code:       ErrCodeUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}
