package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

// ServiceResult is what every handler returns. ToJSON renders it into the
// public envelope: {success, data, message} on success and
// {success: false, error} on failure.
type ServiceResult struct {
	StatusCode int
	Data       any
	Message    string
	Error      string

	// bareError drops the success flag from an error body ({error} only).
	bareError bool
	// emptyBody writes the status and headers with no body.
	emptyBody bool
}

type RateLimitResponse struct {
	Limit      int    `json:"limit"`
	Window     string `json:"window"`
	RetryAfter string `json:"retry_after"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	version      string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() gin.H {
	if result.IsError() {
		body := gin.H{"error": result.Error}
		if !result.bareError {
			body["success"] = false
		}
		if result.Data != nil {
			body["data"] = result.Data
		}
		return body
	}

	body := gin.H{"success": true}
	if result.Data != nil {
		body["data"] = result.Data
	}
	if result.Message != "" {
		body["message"] = result.Message
	}
	return body
}

func (result *ServiceResult) IsSuccess() bool {
	return result.StatusCode >= 200 && result.StatusCode < 300
}

func (result *ServiceResult) IsError() bool {
	return result.StatusCode >= 400
}

func (result *ServiceResult) HasBody() bool {
	return !result.emptyBody
}
