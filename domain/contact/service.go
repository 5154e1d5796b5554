package contact

import (
	"context"

	"github.com/akeren/landing-api/internal/log"
	apperrors "github.com/akeren/landing-api/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/akeren/landing-api/domain/contact")

type ContactService interface {
	// Submit validates the request under the configured mode and stores it.
	Submit(ctx context.Context, req *SubmitContactRequest) (*ContactSubmissionResponse, error)
}

type contactService struct {
	logger     *log.Logger
	repository ContactRepository
	validator  *formValidator
}

func NewContactService(logger *log.Logger, repository ContactRepository, mode ValidationMode) ContactService {
	return &contactService{
		logger:     logger,
		repository: repository,
		validator:  newFormValidator(mode),
	}
}

func (s *contactService) Submit(ctx context.Context, req *SubmitContactRequest) (*ContactSubmissionResponse, error) {
	ctx, span := tracer.Start(ctx, "ContactService.Submit")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)
	span.SetAttributes(attribute.String("contact.validation_mode", string(s.validator.mode)))

	if req == nil {
		logger.Warn("Contact submission received empty request")
		return nil, apperrors.NewInvalidRequestError(apperrors.InvalidBodyMessage, nil)
	}

	if appErr, fields := s.validator.Check(req); appErr != nil {
		logger.Warn("Contact submission rejected", "reason", appErr.Message, "fields", fields)
		span.SetStatus(codes.Error, appErr.Message)
		return nil, appErr
	}

	submission, err := s.repository.Create(ctx, ToContactSubmissionModel(req))
	if err != nil {
		logger.Error("Failed to store contact submission", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist contact submission")
		return nil, err
	}

	span.SetAttributes(attribute.Int64("contact.submission_id", int64(submission.ID)))
	logger.Info("Contact submission stored", "id", submission.ID)

	response := ToContactSubmissionResponse(submission)
	return &response, nil
}
