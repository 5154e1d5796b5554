package router

import (
	"net/http"

	"github.com/akeren/landing-api/internal/log"
	apperrors "github.com/akeren/landing-api/pkg/errors"
)

func GetLogger(ctx *RequestContext) *log.Logger {
	if logger := ctx.Request.Context().Value(log.LoggerKeyForContext); logger != nil {
		if l, ok := logger.(*log.Logger); ok {
			return l
		}
	}

	baseLogger := log.NewLoggerWithJSONOutput()
	return baseLogger.WithCorrelationID(ctx.Request.Context())
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		Data:       data,
		Message:    message,
	}
}

// EmptyResult answers with a status and headers only, as preflight responses do.
func EmptyResult(statusCode int) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		emptyBody:  true,
	}
}

func TooManyRequestsResult(data RateLimitResponse) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusTooManyRequests,
		Data:       data,
		Error:      "Too Many Requests",
	}
}

// BadRequestResult renders as {error: message}.
func BadRequestResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusBadRequest,
		Error:      message,
		bareError:  true,
	}
}

func NotFoundResult(message string) *ServiceResult {
	return ErrorResult(http.StatusNotFound, message)
}

func ConflictResult(message string) *ServiceResult {
	return ErrorResult(http.StatusConflict, message)
}

func InternalServerErrorResult() *ServiceResult {
	return ErrorResult(http.StatusInternalServerError, apperrors.GenericFailureMessage)
}

func ErrorResult(statusCode int, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Error:      message,
	}
}

// ResultFromError maps a service error onto the envelope. Anything that is
// not a client fault gets the generic failure message.
func ResultFromError(err error) *ServiceResult {
	status := apperrors.HTTPStatusCode(err)
	message := apperrors.GetHumanReadableMessage(err)

	switch status {
	case http.StatusBadRequest:
		return BadRequestResult(message)
	case http.StatusConflict:
		return ConflictResult(message)
	case http.StatusNotFound:
		return NotFoundResult(message)
	default:
		if status >= http.StatusInternalServerError {
			return InternalServerErrorResult()
		}
		return ErrorResult(status, message)
	}
}
