package delivery

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"catalog_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ErrorBody struct {
	Status           int               `json:"status"`
	Message          string            `json:"message"`
	ExceptionMessage string            `json:"exceptionMessage,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
	Errors           map[string]string `json:"errors,omitempty"`
}

func ErrorResponse(c *gin.Context, statusCode int, message, exceptionMessage string) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{
		Status:           statusCode,
		Message:          message,
		ExceptionMessage: exceptionMessage,
		Timestamp:        time.Now().UTC(),
	})
}

func validationResponse(c *gin.Context, verr *domain.ValidationError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
		Status:    http.StatusBadRequest,
		Message:   "Validation error",
		Timestamp: time.Now().UTC(),
		Errors:    verr.Fields,
	})
}

// respondError writes the error body for err. Unknown errors are logged in
// full and reported to the client with a generic message.
func respondError(c *gin.Context, logger logrus.FieldLogger, err error) {
	var (
		verr     *domain.ValidationError
		quotaErr *domain.QuotaExceededError
	)

	switch {
	case errors.As(err, &verr):
		logger.Warnf("Handler: validation failed: %v", err)
		validationResponse(c, verr)
	case errors.Is(err, domain.ErrProductNotFound):
		logger.Warnf("Handler: %v", err)
		ErrorResponse(c, http.StatusNotFound, "Product not found", err.Error())
	case errors.Is(err, domain.ErrProductConflict):
		logger.Warnf("Handler: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Product already exists", err.Error())
	case errors.Is(err, domain.ErrMissingUserID):
		ErrorResponse(c, http.StatusBadRequest, "Missing user identity", err.Error())
	case errors.As(err, &quotaErr):
		if quotaErr.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(quotaErr.RetryAfter.Seconds()))))
		}
		ErrorResponse(c, http.StatusTooManyRequests, "Too many requests", quotaErr.Error())
	default:
		logger.WithError(err).Error("Handler: unexpected error")
		ErrorResponse(c, http.StatusInternalServerError, "Unexpected error occurred.", "")
	}
}
