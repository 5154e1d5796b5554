package contact

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=contact

import (
	"context"

	"github.com/akeren/landing-api/internal/models"
	apperrors "github.com/akeren/landing-api/pkg/errors"
	"gorm.io/gorm"
)

type ContactRepository interface {
	// Create inserts one submission and returns it with id and createdAt set.
	Create(ctx context.Context, submission *models.ContactSubmission) (*models.ContactSubmission, error)
	// Count returns the number of stored submissions.
	Count(ctx context.Context) (int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (cr *contactRepository) Create(ctx context.Context, submission *models.ContactSubmission) (*models.ContactSubmission, error) {
	if err := cr.db.WithContext(ctx).Create(submission).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to store contact submission", err)
	}

	return submission, nil
}

func (cr *contactRepository) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := cr.db.WithContext(ctx).Model(&models.ContactSubmission{}).Count(&count).Error; err != nil {
		return 0, apperrors.NewDatabaseError("unable to count contact submissions", err)
	}

	return count, nil
}
