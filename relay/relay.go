// Package relay sends text messages through the active account and logs them.
package relay

import (
	"regexp"

	"github.com/wabridge/wa-relay-api/errors"
)

// 8 to 15 digits, no leading zero, no '+'
var phonePattern = regexp.MustCompile(`^[1-9]\d{7,14}$`)

// ValidatePhone checks a destination number.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return &errors.InvalidPhoneFormatError{Phone: phone}
	}
	return nil
}
