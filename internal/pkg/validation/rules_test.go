package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@club.edu", NormalizeEmail("  Ada@Club.EDU "))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ada@club.education"))
	assert.ErrorIs(t, ValidateEmail("ada@"), apperrors.ErrValidationFailed)
	assert.Error(t, ValidateEmail(""))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"hunter22x", true},
		{"short1", false},
		{"onlyletters", false},
		{"1234567890", false},
		{"pässwörd9", true},
	}
	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if tt.valid {
			assert.NoError(t, err, tt.password)
		} else {
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed, tt.password)
		}
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Al"))
	assert.Error(t, ValidateName(" A "))
}

func TestValidateCapacity(t *testing.T) {
	zero, negative := 0, -3
	assert.NoError(t, ValidateCapacity(nil))
	assert.NoError(t, ValidateCapacity(&zero))
	assert.Error(t, ValidateCapacity(&negative))
}
