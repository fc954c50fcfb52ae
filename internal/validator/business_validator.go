package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/campusops/records-service/internal/models"
)

// BusinessValidator handles rules beyond shape checking: value ranges,
// enum membership and cross-field constraints the schema layer cannot see.
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator(validate *validator.Validate) *BusinessValidator {
	return &BusinessValidator{validate: validate}
}

// Validate validates business rules for any request struct.
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateRole checks role enum membership for values arriving outside
// tag-validated DTOs (e.g. seed data, admin updates through loosely-typed
// payloads).
func (bv *BusinessValidator) ValidateRole(role models.UserRole) ValidationErrors {
	if !role.Valid() {
		return ValidationErrors{{
			Field:   "role",
			Message: "must be one of admin, teacher, student",
			Value:   role,
			Rule:    "user_role",
		}}
	}
	return nil
}

// ValidateGrade checks the [0,100] range. A nil grade is valid: the
// enrollment simply stays ungraded.
func (bv *BusinessValidator) ValidateGrade(grade *float64) ValidationErrors {
	if grade == nil {
		return nil
	}
	if *grade < 0 || *grade > 100 {
		return ValidationErrors{{
			Field:   "grade",
			Message: "must be between 0 and 100",
			Value:   *grade,
			Rule:    "grade_range",
		}}
	}
	return nil
}

// ValidateCode checks the minimum length shared by student, teacher and
// course codes.
func (bv *BusinessValidator) ValidateCode(field, code string) ValidationErrors {
	if len(code) < 3 {
		return ValidationErrors{{
			Field:   field,
			Message: "must be at least 3 characters long",
			Value:   code,
			Rule:    "entity_code",
		}}
	}
	return nil
}
