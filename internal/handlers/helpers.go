package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "gastos/internal/errors"
	"gastos/internal/logger"
	"gastos/internal/models"
	"gastos/internal/scope"
	"gastos/internal/services"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return 0, apperrors.ErrUnauthorized
	}
	return userID.(uint), nil
}

// currentCaller builds the caller identity from the authenticated request
// context. The role comes from the verified token claims, never from the
// request body.
func currentCaller(c *gin.Context) (scope.Caller, error) {
	userID, err := getUserID(c)
	if err != nil {
		return scope.Caller{}, err
	}
	role, exists := c.Get("role")
	if !exists {
		return scope.Caller{}, apperrors.ErrUnauthorized
	}
	return scope.Caller{UserID: userID, Role: role.(models.UserRole)}, nil
}

// parsePathID parses a uint path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// parseTargetUser reads the optional user_id query parameter. Zero means
// the caller's own ledger; the scope guard decides whether the caller may
// actually read the requested one.
func parseTargetUser(c *gin.Context) (uint, error) {
	v := c.Query("user_id")
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid user_id")
	}
	return uint(id), nil
}

// parsePeriod reads the optional year/month query pair. Both must be
// given together; absent means no month filter.
func parsePeriod(c *gin.Context) (*services.Period, error) {
	yearStr, monthStr := c.Query("year"), c.Query("month")
	if yearStr == "" && monthStr == "" {
		return nil, nil
	}
	if yearStr == "" || monthStr == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "year and month must be given together")
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid year")
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid month")
	}
	period := services.Period{Year: year, Month: time.Month(month)}
	if !period.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid year or month")
	}
	return &period, nil
}

// requirePeriod is parsePeriod for endpoints where the month is mandatory.
func requirePeriod(c *gin.Context) (services.Period, error) {
	period, err := parsePeriod(c)
	if err != nil {
		return services.Period{}, err
	}
	if period == nil {
		return services.Period{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "year and month are required")
	}
	return *period, nil
}

// parseFlexibleTime accepts RFC3339 timestamps and bare YYYY-MM-DD dates.
func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}
