// Package validate implements the form validation rules applied before a
// credential ever reaches the auth service.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	passwordMinLen = 8
	passwordMaxLen = 20
	// Symbols allowed in a password besides letters and digits.
	passwordSymbols = "@$!%*?&;"
)

var (
	emailRe = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,10})+$`)
	nameRe  = regexp.MustCompile(`^[A-Za-z]+([A-Za-z\s'.-]*[A-Za-z])?$`)
)

// Required reports an error when value is empty or whitespace.
func Required(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// MinLength reports an error when the trimmed value is shorter than minLen.
func MinLength(value string, minLen int, fieldName string) error {
	if len(strings.TrimSpace(value)) < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	return nil
}

// Email checks the address shape used by the registration and login forms.
func Email(value string) error {
	if err := Required(value, "Email"); err != nil {
		return err
	}
	if !emailRe.MatchString(value) {
		return fmt.Errorf("Email is not a valid email address")
	}
	return nil
}

// Name accepts latin letters with inner spaces, apostrophes, dots, and
// hyphens.
func Name(value string) error {
	if err := Required(value, "Name"); err != nil {
		return err
	}
	if !nameRe.MatchString(value) {
		return fmt.Errorf("Name contains invalid characters")
	}
	return nil
}

// Password enforces the registration password policy: 8–20 characters from
// the allowed set, with at least one lowercase letter, one uppercase
// letter, and one digit.
func Password(value string) error {
	if err := Required(value, "Password"); err != nil {
		return err
	}
	if len(value) < passwordMinLen || len(value) > passwordMaxLen {
		return fmt.Errorf("Password must be %d-%d characters", passwordMinLen, passwordMaxLen)
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range value {
		switch {
		case unicode.IsLower(r) && r <= unicode.MaxASCII:
			hasLower = true
		case unicode.IsUpper(r) && r <= unicode.MaxASCII:
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			// allowed symbol
		default:
			return fmt.Errorf("Password contains invalid characters")
		}
	}
	if !hasLower || !hasUpper || !hasDigit {
		return fmt.Errorf("Password must contain a lowercase letter, an uppercase letter, and a digit")
	}
	return nil
}
