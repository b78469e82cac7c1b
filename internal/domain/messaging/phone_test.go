package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		countryCode string
		want        string
	}{
		{"national format with trunk zero", "07701234567", "964", "+9647701234567"},
		{"already international", "+9647701234567", "964", "+9647701234567"},
		{"international without plus", "9647701234567", "964", "+9647701234567"},
		{"formatting characters stripped", "077-012 345.67", "964", "+9647701234567"},
		{"no trunk zero no country code", "7701234567", "964", "+9647701234567"},
		{"different country code preserved as digits", "0501234567", "971", "+971501234567"},
		{"empty country code leaves number bare", "07701234567", "", "+7701234567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw, tt.countryCode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhone_NoDigits(t *testing.T) {
	_, err := NormalizePhone("not a number", "964")
	assert.Error(t, err)

	_, err = NormalizePhone("", "964")
	assert.Error(t, err)

	_, err = NormalizePhone("0", "964")
	assert.Error(t, err)
}
