package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	PasswordMinLength = 8
	PasswordMaxLength = 72 // bcrypt ignores anything longer

	NameMinLength = 2
	NameMaxLength = 100

	TitleMaxLength = 200
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// NormalizeEmail trims and lower-cases an address. Every write and lookup of
// a user email goes through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateName checks a person's display name
func ValidateName(name string) error {
	ok := NewStringValidation(strings.TrimSpace(name)).
		WithMinLength(NameMinLength).
		WithMaxLength(NameMaxLength).
		Validate()
	if !ok {
		return apperrors.NewFieldValidationError("name", "Name must be between 2 and 100 characters")
	}
	return nil
}

// ValidateEmail checks an already normalized address
func ValidateEmail(email string) error {
	if !NewStringValidation(email).WithPattern(CompiledPatterns.Email).Validate() {
		return apperrors.NewFieldValidationError("email", "Please provide a valid email address")
	}
	return nil
}

// ValidatePassword requires PasswordMinLength characters with at least one
// letter and one digit.
func ValidatePassword(password string) error {
	ok := NewStringValidation(password).
		WithMinLength(PasswordMinLength).
		WithMaxLength(PasswordMaxLength).
		Validate()
	if !ok {
		return apperrors.NewFieldValidationError("password", "Password must be between 8 and 72 characters")
	}

	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return apperrors.NewFieldValidationError("password", "Password must contain at least one letter and one number")
	}
	return nil
}

// ValidateCapacity rejects negative seat counts; nil means unlimited
func ValidateCapacity(capacity *int) error {
	if capacity == nil {
		return nil
	}
	if *capacity < 0 || !NewNumericValidation(*capacity).WithMax(100000).Validate() {
		return apperrors.NewFieldValidationError("capacity", "Capacity must be between 0 and 100000")
	}
	return nil
}

// String validation
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	// Check if required
	if v.Required && v.Value == "" {
		return false
	}

	// Skip other validations for empty optional values
	if !v.Required && v.Value == "" {
		return true
	}

	// Check min length
	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}

	// Check max length
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}

	// Check pattern
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// Numeric validation
type NumericValidation struct {
	Value    int
	Min      int
	Max      int
	Required bool
}

// NewNumericValidation creates a new numeric validation
func NewNumericValidation(value int) *NumericValidation {
	return &NumericValidation{
		Value:    value,
		Required: true,
	}
}

// WithMin sets minimum value
func (v *NumericValidation) WithMin(min int) *NumericValidation {
	v.Min = min
	return v
}

// WithMax sets maximum value
func (v *NumericValidation) WithMax(max int) *NumericValidation {
	v.Max = max
	return v
}

// WithRequired sets if field is required
func (v *NumericValidation) WithRequired(required bool) *NumericValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *NumericValidation) Validate() bool {
	// Check min value
	if v.Min != 0 && v.Value < v.Min {
		return false
	}

	// Check max value
	if v.Max != 0 && v.Value > v.Max {
		return false
	}

	return true
}
