package messaging

import (
	"fmt"
	"strings"
)

// NormalizePhone converts a free-text phone number into international format:
// non-digits are stripped, a single national trunk "0" is removed, the
// default country code is prefixed when missing, and the result carries a
// leading "+". Returns an error when no digits remain.
func NormalizePhone(raw, defaultCountryCode string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()
	if number == "" {
		return "", fmt.Errorf("phone number %q contains no digits", raw)
	}

	// National format like 0770...: drop the trunk zero before applying the
	// country code.
	number = strings.TrimPrefix(number, "0")
	if number == "" {
		return "", fmt.Errorf("phone number %q contains no digits after trunk prefix", raw)
	}

	if defaultCountryCode != "" && !strings.HasPrefix(number, defaultCountryCode) {
		number = defaultCountryCode + number
	}
	return "+" + number, nil
}
