package contact

import (
	"net/http"

	"github.com/akeren/landing-api/config/router"
	"github.com/akeren/landing-api/internal/log"
	apperrors "github.com/akeren/landing-api/pkg/errors"
	"github.com/akeren/landing-api/pkg/factory"
	"gorm.io/gorm"
)

const (
	formName       = "contact"
	successMessage = "Contact form submitted successfully!"
)

// Options configures the contact controller from application config.
type Options struct {
	Mode        ValidationMode
	CORSEnabled bool
}

func NewContactController(
	db *gorm.DB,
	logger *log.Logger,
	limiters factory.RateLimiterFactory,
	opts Options,
) *router.RESTController {

	return router.NewRESTController(
		"ContactController",
		"/api/contact",
		func(rs *router.RouterService, c *router.RESTController) {
			repository := NewContactRepository(db)
			service := NewContactService(logger, repository, opts.Mode)

			var middlewares []router.MiddlewareFunc
			if opts.CORSEnabled {
				middlewares = append(middlewares, corsHeaders())
			}

			rs.AddPostHandler(c, limiters.CreateRateLimiter(), "", submitContactHandler(rs, service), middlewares...)

			if opts.CORSEnabled {
				rs.AddOptionsHandler(c, nil, "", preflightHandler(), middlewares...)
			}
		},
	)
}

// corsHeaders opens /api/contact to any origin.
func corsHeaders() router.MiddlewareFunc {
	return func(c *router.RequestContext) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Del("Access-Control-Allow-Credentials")
		c.Next()
	}
}

func preflightHandler() router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		return router.EmptyResult(http.StatusOK)
	}
}

func submitContactHandler(rs *router.RouterService, service ContactService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		result := submitContact(ctx, service)
		rs.ObserveSubmission(formName, router.OutcomeForStatus(result.StatusCode))
		return result
	}
}

func submitContact(ctx *router.RequestContext, service ContactService) *router.ServiceResult {
	logger := router.GetLogger(ctx)

	var req SubmitContactRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind contact request", "error", err, "fields", apperrors.FormatValidationErrors(err, &req))
		return router.ResultFromError(apperrors.ToValidationError(err, nil))
	}

	response, err := service.Submit(ctx.Request.Context(), &req)
	if err != nil {
		return router.ResultFromError(err)
	}

	return router.OKResult(response, successMessage)
}
