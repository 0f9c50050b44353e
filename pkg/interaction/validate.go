// pkg/interaction/validate.go
package interaction

import (
	"errors"
	"net/mail"
	"regexp"
)

var (
	usernameRe = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)
	siteNameRe = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?)*$`)
)

// ValidateUsername ensures the input is a valid UNIX-style username.
func ValidateUsername(input string) error {
	if !usernameRe.MatchString(input) {
		return errors.New("invalid username (use lowercase letters, digits, underscore, dash)")
	}
	return nil
}

// ValidateSiteName accepts host-like names such as site1.local.
func ValidateSiteName(input string) error {
	if len(input) > 253 || !siteNameRe.MatchString(input) {
		return errors.New("invalid site name (use letters, digits, dashes and dots, e.g. site1.local)")
	}
	return nil
}

// ValidateEmail uses net/mail to check email format.
func ValidateEmail(input string) error {
	addr, err := mail.ParseAddress(input)
	if err != nil || addr.Address != input {
		return errors.New("invalid email format")
	}
	return nil
}
