package waitlist

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
	"gorm.io/gorm"
)

func TestWaitlistService_Join(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLogger(io.Discard, slog.LevelError)
	service := NewWaitlistService(logger, mockRepo)

	t.Run("successful join", func(t *testing.T) {
		req := &JoinWaitlistRequest{Email: "a@b.com", Name: "Ada"}

		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *models.WaitlistEntry) (*models.WaitlistEntry, error) {
				e.ID = 1
				e.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
				return e, nil
			})

		result, err := service.Join(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, WaitlistEntryResponse{ID: 1, Email: "a@b.com", Name: "Ada", CreatedAt: "2026-01-02T03:04:05Z"}, *result)
	})

	t.Run("name defaults to empty", func(t *testing.T) {
		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *models.WaitlistEntry) (*models.WaitlistEntry, error) {
				assert.Equal(t, "", e.Name)
				return e, nil
			})

		result, err := service.Join(context.Background(), &JoinWaitlistRequest{Email: "solo@example.com"})

		require.NoError(t, err)
		assert.Equal(t, "", result.Name)
	})

	t.Run("missing email", func(t *testing.T) {
		result, err := service.Join(context.Background(), &JoinWaitlistRequest{Name: "Ada"})

		assert.Nil(t, result)
		assert.Equal(t, apperrors.StatusBadRequest, apperrors.HTTPStatusCode(err))
		assert.Equal(t, MessageEmailRequired, apperrors.GetHumanReadableMessage(err))
	})

	t.Run("email format is not checked", func(t *testing.T) {
		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *models.WaitlistEntry) (*models.WaitlistEntry, error) {
				return e, nil
			})

		_, err := service.Join(context.Background(), &JoinWaitlistRequest{Email: "not-an-email"})
		assert.NoError(t, err)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewConflictError(MessageAlreadyJoined, gorm.ErrDuplicatedKey))

		result, err := service.Join(context.Background(), &JoinWaitlistRequest{Email: "a@b.com"})

		assert.Nil(t, result)
		assert.Equal(t, apperrors.StatusConflict, apperrors.HTTPStatusCode(err))
		assert.Equal(t, MessageAlreadyJoined, apperrors.GetHumanReadableMessage(err))
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewDatabaseError("unable to create waitlist entry", errors.New("dial tcp: connection refused")))

		result, err := service.Join(context.Background(), &JoinWaitlistRequest{Email: "a@b.com"})

		assert.Nil(t, result)
		assert.Equal(t, apperrors.StatusInternalServerError, apperrors.HTTPStatusCode(err))
		assert.Equal(t, apperrors.GenericFailureMessage, apperrors.GetHumanReadableMessage(err))
	})
}
