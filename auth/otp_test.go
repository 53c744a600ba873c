package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOtpCode(t *testing.T) {
	code, err := generateOtpCode()
	require.NoError(t, err)
	require.Len(t, code, otpDigits)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "code %q contains non-digit", code)
	}
}

func TestOtpEqual(t *testing.T) {
	tests := []struct {
		name      string
		submitted string
		stored    string
		want      bool
	}{
		{"equal", "123456", "123456", true},
		{"differs at first byte", "023456", "123456", false},
		{"differs at middle byte", "123056", "123456", false},
		{"differs at last byte", "123450", "123456", false},
		{"submitted shorter", "12345", "123456", false},
		{"submitted longer", "1234567", "123456", false},
		{"both empty", "", "", true},
		{"empty vs stored", "", "123456", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, otpEqual(tt.submitted, tt.stored))
		})
	}
}
