package contact

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/akeren/landing-api/pkg/errors"
	"github.com/go-playground/validator/v10"
)

type ValidationMode string

const (
	// StrictMode requires all six fields and a well-formed email.
	StrictMode ValidationMode = "strict"
	// PermissiveMode requires at least one field; missing ones are stored empty.
	PermissiveMode ValidationMode = "permissive"
)

const (
	MessageAllFieldsRequired = "All fields are required"
	MessageAtLeastOneField   = "At least one field must be provided"
	MessageInvalidEmail      = "Please provide a valid email address"
)

func ParseValidationMode(raw string) (ValidationMode, error) {
	switch mode := ValidationMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "", StrictMode:
		return StrictMode, nil
	case PermissiveMode:
		return PermissiveMode, nil
	default:
		return "", fmt.Errorf("unknown contact validation mode %q", raw)
	}
}

// Each part excludes Unicode whitespace and BOM, not just the ASCII set RE2 puts in \s.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

type strictForm struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,contactemail"`
	CountryName string `json:"countryName" validate:"required"`
	CompanyType string `json:"companyType" validate:"required"`
	Message     string `json:"message" validate:"required"`
}

type permissiveForm struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" validate:"omitempty,contactemail"`
	CountryName string `json:"countryName"`
	CompanyType string `json:"companyType"`
	Message     string `json:"message"`
}

var (
	strictMessages = []apperrors.TagMessage{
		{Tag: "required", Message: MessageAllFieldsRequired},
		{Tag: "contactemail", Message: MessageInvalidEmail},
	}
	permissiveMessages = []apperrors.TagMessage{
		{Tag: "atleastone", Message: MessageAtLeastOneField},
		{Tag: "contactemail", Message: MessageInvalidEmail},
	}
)

// formValidator checks a submission against one ValidationMode.
type formValidator struct {
	mode     ValidationMode
	validate *validator.Validate
}

func newFormValidator(mode ValidationMode) *formValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	})
	_ = v.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(atLeastOneField, permissiveForm{})

	return &formValidator{mode: mode, validate: v}
}

// Check returns nil or an INVALID_REQUEST AppError carrying the client message.
func (fv *formValidator) Check(req *SubmitContactRequest) (*apperrors.AppError, []apperrors.ValidationErrorResponse) {
	var (
		form     interface{}
		messages []apperrors.TagMessage
	)

	if fv.mode == PermissiveMode {
		f := permissiveForm(*req)
		form, messages = &f, permissiveMessages
	} else {
		f := strictForm(*req)
		form, messages = &f, strictMessages
	}

	err := fv.validate.Struct(form)
	if err == nil {
		return nil, nil
	}

	return apperrors.ToValidationError(err, messages), apperrors.FormatValidationErrors(err, form)
}

func atLeastOneField(sl validator.StructLevel) {
	form := sl.Current().Interface().(permissiveForm)

	if form.FirstName == "" && form.LastName == "" && form.Email == "" &&
		form.CountryName == "" && form.CompanyType == "" && form.Message == "" {
		sl.ReportError(form, "form", "Form", "atleastone", "")
	}
}
