package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/campusops/records-service/internal/models"
)

// Validator bundles struct (shape) validation and the business validator.
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

func New() *Validator {
	validate := validator.New()
	registerCustomRules(validate)

	return &Validator{
		validate: validate,
		business: NewBusinessValidator(validate),
	}
}

// ValidateStruct runs tag-based validation on a request DTO.
func (v *Validator) ValidateStruct(s interface{}) ValidationErrors {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// GetBusinessValidator returns the business rule validator.
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

func registerCustomRules(validate *validator.Validate) {
	_ = validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})

	_ = validate.RegisterValidation("grade_range", func(fl validator.FieldLevel) bool {
		grade := fl.Field().Float()
		return grade >= 0 && grade <= 100
	})

	// Synthetic codes (student_code, teacher_code, course_code) are at least
	// three characters.
	_ = validate.RegisterValidation("entity_code", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) >= 3
	})
}
