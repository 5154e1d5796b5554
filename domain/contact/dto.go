package contact

import (
	"github.com/akeren/landing-api/internal/models"
	"github.com/akeren/landing-api/pkg/constants"
)

// SubmitContactRequest is the /api/contact body. Every field is optional on
// the wire; the active ValidationMode decides what is required.
type SubmitContactRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	CountryName string `json:"countryName"`
	CompanyType string `json:"companyType"`
	Message     string `json:"message"`
}

type ContactSubmissionResponse struct {
	ID          uint   `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	CountryName string `json:"countryName"`
	CompanyType string `json:"companyType"`
	Message     string `json:"message"`
	CreatedAt   string `json:"createdAt"`
}

func ToContactSubmissionModel(req *SubmitContactRequest) *models.ContactSubmission {
	if req == nil {
		return nil
	}
	return &models.ContactSubmission{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		CountryName: req.CountryName,
		CompanyType: req.CompanyType,
		Message:     req.Message,
	}
}

func ToContactSubmissionResponse(submission *models.ContactSubmission) ContactSubmissionResponse {
	if submission == nil {
		return ContactSubmissionResponse{}
	}
	return ContactSubmissionResponse{
		ID:          submission.ID,
		FirstName:   submission.FirstName,
		LastName:    submission.LastName,
		Email:       submission.Email,
		CountryName: submission.CountryName,
		CompanyType: submission.CompanyType,
		Message:     submission.Message,
		CreatedAt:   submission.CreatedAt.Format(constants.RFC3339DateTimeFormat),
	}
}
