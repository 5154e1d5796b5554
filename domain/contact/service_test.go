package contact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/akeren/landing-api/internal/log"
	"github.com/akeren/landing-api/internal/models"
	apperrors "github.com/akeren/landing-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestContactService_Submit(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := NewMockContactRepository(ctrl)
	logger := log.NewLogger(io.Discard, slog.LevelError)
	service := NewContactService(logger, mockRepo, StrictMode)

	t.Run("successful submission", func(t *testing.T) {
		req := fullRequest()
		created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, s *models.ContactSubmission) (*models.ContactSubmission, error) {
				s.ID = 7
				s.CreatedAt = created
				return s, nil
			})

		result, err := service.Submit(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, uint(7), result.ID)
		assert.Equal(t, req.FirstName, result.FirstName)
		assert.Equal(t, req.Email, result.Email)
		assert.Equal(t, req.Message, result.Message)
		assert.Equal(t, "2026-03-01T12:00:00Z", result.CreatedAt)
	})

	t.Run("validation failure skips the repository", func(t *testing.T) {
		req := fullRequest()
		req.CountryName = ""

		result, err := service.Submit(context.Background(), req)

		assert.Nil(t, result)
		assert.Equal(t, apperrors.StatusBadRequest, apperrors.HTTPStatusCode(err))
		assert.Equal(t, MessageAllFieldsRequired, apperrors.GetHumanReadableMessage(err))
	})

	t.Run("values are stored verbatim", func(t *testing.T) {
		req := fullRequest()
		req.FirstName = "  Ada  "
		req.Email = "ADA@Example.COM"

		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, s *models.ContactSubmission) (*models.ContactSubmission, error) {
				assert.Equal(t, "  Ada  ", s.FirstName)
				assert.Equal(t, "ADA@Example.COM", s.Email)
				return s, nil
			})

		_, err := service.Submit(context.Background(), req)
		require.NoError(t, err)
	})

	t.Run("repository error is a generic 500", func(t *testing.T) {
		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewDatabaseError("unable to store contact submission", errors.New("pq: relation does not exist")))

		result, err := service.Submit(context.Background(), fullRequest())

		assert.Nil(t, result)
		assert.Equal(t, apperrors.StatusInternalServerError, apperrors.HTTPStatusCode(err))
		assert.Equal(t, apperrors.GenericFailureMessage, apperrors.GetHumanReadableMessage(err))
	})

	t.Run("nil request", func(t *testing.T) {
		_, err := service.Submit(context.Background(), nil)
		assert.Equal(t, apperrors.InvalidBodyMessage, apperrors.GetHumanReadableMessage(err))
	})
}

func TestContactService_PermissiveStoresEmptyFields(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := NewMockContactRepository(ctrl)
	service := NewContactService(log.NewLogger(io.Discard, slog.LevelError), mockRepo, PermissiveMode)

	mockRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *models.ContactSubmission) (*models.ContactSubmission, error) {
			return s, nil
		})

	result, err := service.Submit(context.Background(), &SubmitContactRequest{Message: "only a message"})

	require.NoError(t, err)
	assert.Equal(t, "only a message", result.Message)
	assert.Equal(t, "", result.FirstName)
	assert.Equal(t, "", result.Email)
}
