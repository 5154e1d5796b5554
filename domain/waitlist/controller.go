package waitlist

import (
	"errors"
	"io"

	"github.com/akeren/landing-api/config/router"
	"github.com/akeren/landing-api/internal/log"
	apperrors "github.com/akeren/landing-api/pkg/errors"
	"github.com/akeren/landing-api/pkg/factory"
	"gorm.io/gorm"
)

const formName = "waitlist"

func NewWaitlistController(
	db *gorm.DB,
	logger *log.Logger,
	limiters factory.RateLimiterFactory,
) *router.RESTController {

	return router.NewRESTController(
		"WaitlistController",
		"/api/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			repository := NewWaitlistRepository(db)
			service := NewWaitlistService(logger, repository)

			rs.AddPostHandler(c, limiters.CreateRateLimiter(), "", joinWaitlistHandler(rs, service))
		},
	)
}

func joinWaitlistHandler(rs *router.RouterService, service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		result := joinWaitlist(ctx, service)
		rs.ObserveSubmission(formName, router.OutcomeForStatus(result.StatusCode))
		return result
	}
}

func joinWaitlist(ctx *router.RequestContext, service WaitlistService) *router.ServiceResult {
	logger := router.GetLogger(ctx)

	var req JoinWaitlistRequest

	// An empty body is a request without an email.
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Failed to bind waitlist request", "error", err, "fields", apperrors.FormatValidationErrors(err, &req))
		return router.ResultFromError(apperrors.ToValidationError(err, nil))
	}

	response, err := service.Join(ctx.Request.Context(), &req)
	if err != nil {
		return router.ResultFromError(err)
	}

	return router.OKResult(response, "")
}
