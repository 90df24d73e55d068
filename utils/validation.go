// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

// Allows + prefix followed by 2-15 digits
var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// NormalizePhone strips separators from a phone number and reports whether the
// result is dialable.
func NormalizePhone(phone string) (string, bool) {
	cleaned := phoneSeparators.Replace(phone)
	return cleaned, phonePattern.MatchString(cleaned)
}

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	_, ok := NormalizePhone(phone)
	return ok
}
