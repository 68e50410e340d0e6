package validators

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

func IsEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// LooksLikeEmail decides how a login identifier is interpreted: the API
// accepts either an email or a phone number in the same field.
func LooksLikeEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}
