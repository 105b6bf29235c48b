package middleware

import (
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"mom-generator/internal/api/errors"
)

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

// ValidateRequest binds the JSON body and checks struct tags and domain rules
func ValidateRequest(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return bindingError(err, "request", "invalid JSON format")
	}
	return validateDomain(req)
}

// ValidateForm binds a form or multipart body
func ValidateForm(c *gin.Context, req interface{}) error {
	if err := c.ShouldBind(req); err != nil {
		return bindingError(err, "form", "invalid form data")
	}
	return validateDomain(req)
}

// ValidateQuery validates query parameters
func ValidateQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		var validationErrs validator.ValidationErrors
		if stderrors.As(err, &validationErrs) {
			details := make(map[string]string)
			for _, fieldError := range validationErrs {
				details[strings.ToLower(fieldError.Field())] = "invalid query parameter"
			}
			return &errors.APIError{Kind: errors.KindBadRequest, Message: "Invalid query parameters", Details: details}
		}
		return errors.NewBadRequestError("Invalid query parameters")
	}
	return validateDomain(req)
}

func bindingError(err error, field, message string) error {
	details := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		for _, fieldError := range validationErrs {
			name := strings.ToLower(fieldError.Field())

			switch fieldError.Tag() {
			case "required":
				details[name] = "is required"
			case "min":
				details[name] = "is too short"
			case "max":
				details[name] = "is too long"
			case "oneof":
				details[name] = "must be one of " + strings.ReplaceAll(fieldError.Param(), " ", ", ")
			default:
				details[name] = "is invalid"
			}
		}
	} else {
		details[field] = message
	}

	return errors.NewValidationError("Validation failed", details)
}

func validateDomain(req interface{}) error {
	if v, ok := req.(Validator); ok {
		return v.Validate()
	}
	return nil
}
