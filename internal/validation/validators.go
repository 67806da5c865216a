package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/polyglotta/polyglotta-api/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for domain enums
	if err := Validate.RegisterValidation("language_code", validateLanguageCode); err != nil {
		panic(fmt.Sprintf("failed to register language_code validator: %v", err))
	}
	if err := Validate.RegisterValidation("cefr_level", validateCEFRLevel); err != nil {
		panic(fmt.Sprintf("failed to register cefr_level validator: %v", err))
	}
}

// validateLanguageCode validates a two-letter lowercase ISO 639-1 language code
func validateLanguageCode(fl validator.FieldLevel) bool {
	return IsLanguageCode(fl.Field().String())
}

// IsLanguageCode reports whether value looks like an ISO 639-1 code
func IsLanguageCode(value string) bool {
	if len(value) != 2 {
		return false
	}
	for _, r := range value {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// validateCEFRLevel validates that a string is a valid CEFR level enum value
func validateCEFRLevel(fl validator.FieldLevel) bool {
	switch models.CEFRLevel(fl.Field().String()) {
	case models.CEFRLevelA1, models.CEFRLevelA2, models.CEFRLevelB1,
		models.CEFRLevelB2, models.CEFRLevelC1, models.CEFRLevelC2:
		return true
	default:
		return false
	}
}
