package dto

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen11/sitesmith/internal/domain"
)

// validate is shared by all request DTOs; validator caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterTagNameFunc(jsonFieldName)
}

// CreateProjectRequest is the JSON body for creating a project.
type CreateProjectRequest struct {
	Name string `json:"name" validate:"required"`
}

// Validate checks that required fields are present. Naming rules are
// enforced by the service.
func (r *CreateProjectRequest) Validate() error {
	return structError(validate.Struct(r))
}

// RenameProjectRequest is the JSON body for renaming a project.
type RenameProjectRequest struct {
	Name string `json:"name" validate:"required"`
}

// Validate checks that required fields are present.
func (r *RenameProjectRequest) Validate() error {
	return structError(validate.Struct(r))
}

// ValidateNameRequest is the JSON body for a dry-run name check.
type ValidateNameRequest struct {
	Name *string `json:"name" validate:"required"`
}

// Validate checks that the name field is present. An empty string is a
// legal candidate and is reported as invalid by the name rules instead.
func (r *ValidateNameRequest) Validate() error {
	return structError(validate.Struct(r))
}

// structError converts validator output to a *domain.ValidationError keyed
// by JSON field name.
func structError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating request: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = tagMessage(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
