package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// InvalidBodyMessage is returned when a request body cannot be decoded.
const InvalidBodyMessage = "Invalid request body"

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// TagMessage binds a validator tag to the message a client sees when a field
// fails that tag.
type TagMessage struct {
	Tag     string
	Message string
}

func msgForTag(tag string) string {
	switch tag {
	case "required":
		return "This field is required"
	case "email", "contactemail":
		return "Invalid email format"
	case "min":
		return "Value is too short or too small"
	case "max":
		return "Value is too long or too large"
	default:
		return "Invalid value"
	}
}

func getJSONFieldName(structType reflect.Type, fieldName string) string {
	field, found := structType.FieldByName(fieldName)
	if !found {
		return fieldName
	}

	jsonTag := field.Tag.Get("json")
	if jsonTag == "" {
		return fieldName
	}

	parts := strings.Split(jsonTag, ",")
	return parts[0]
}

// FormatValidationErrors lists failing fields by their JSON names. It is meant
// for logs; clients get the single message from ToValidationError.
func FormatValidationErrors(err error, model interface{}) []ValidationErrorResponse {
	var errorsList []ValidationErrorResponse

	if err == nil {
		return errorsList
	}

	var jsonErr *json.UnmarshalTypeError
	if errors.As(err, &jsonErr) {
		return []ValidationErrorResponse{
			{
				Field:   jsonErr.Field,
				Message: fmt.Sprintf("Invalid type for field %s. Expected %s, got %s", jsonErr.Field, jsonErr.Type, jsonErr.Value),
			},
		}
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var structType reflect.Type
		if model != nil {
			structType = reflect.TypeOf(model)
			if structType.Kind() == reflect.Ptr {
				structType = structType.Elem()
			}
		}

		errorsList = make([]ValidationErrorResponse, len(validationErrors))

		for i, fieldError := range validationErrors {
			jsonField := fieldError.Field()
			if structType != nil {
				jsonField = getJSONFieldName(structType, fieldError.StructField())
			}

			errorsList[i] = ValidationErrorResponse{
				Field:   jsonField,
				Message: msgForTag(fieldError.Tag()),
			}
		}
	}

	return errorsList
}

// ToValidationError turns a decode or validator error into an INVALID_REQUEST
// AppError. Precedence is the order of messages: the first tag failed by any
// field wins. Anything that is not a validator error is a body decode failure.
func ToValidationError(err error, messages []TagMessage) *AppError {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return NewInvalidRequestError(InvalidBodyMessage, err)
	}

	for _, m := range messages {
		for _, fieldError := range validationErrors {
			if fieldError.Tag() == m.Tag {
				return NewInvalidRequestError(m.Message, err)
			}
		}
	}

	return NewInvalidRequestError(msgForTag(validationErrors[0].Tag()), err)
}
