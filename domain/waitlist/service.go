package waitlist

import (
	"context"

	"github.com/akeren/landing-api/internal/log"
	apperrors "github.com/akeren/landing-api/pkg/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const MessageEmailRequired = "Email is required"

var tracer = otel.Tracer("github.com/akeren/landing-api/domain/waitlist")

var validationMessages = []apperrors.TagMessage{
	{Tag: "required", Message: MessageEmailRequired},
}

type WaitlistService interface {
	// Join records interest for an email. Joining twice is a CONFLICT.
	Join(ctx context.Context, req *JoinWaitlistRequest) (*WaitlistEntryResponse, error)
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
	validate   *validator.Validate
}

func NewWaitlistService(logger *log.Logger, repository WaitlistRepository) WaitlistService {
	return &waitlistService{
		logger:     logger,
		repository: repository,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *waitlistService) Join(ctx context.Context, req *JoinWaitlistRequest) (*WaitlistEntryResponse, error) {
	ctx, span := tracer.Start(ctx, "WaitlistService.Join")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Warn("Waitlist join received empty request")
		return nil, apperrors.NewInvalidRequestError(apperrors.InvalidBodyMessage, nil)
	}

	if err := s.validate.Struct(req); err != nil {
		appErr := apperrors.ToValidationError(err, validationMessages)
		logger.Warn("Waitlist join rejected", "reason", appErr.Message)
		span.SetStatus(codes.Error, appErr.Message)
		return nil, appErr
	}

	entry, err := s.repository.Create(ctx, ToWaitlistEntryModel(req))
	if err != nil {
		if apperrors.IsConflict(err) {
			logger.Info("Waitlist email already registered")
			span.SetAttributes(attribute.Bool("waitlist.duplicate", true))
			return nil, err
		}

		logger.Error("Failed to create waitlist entry", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist waitlist entry")
		return nil, err
	}

	span.SetAttributes(attribute.Int64("waitlist.entry_id", int64(entry.ID)))
	logger.Info("Waitlist entry created", "id", entry.ID)

	response := ToWaitlistEntryResponse(entry)
	return &response, nil
}
