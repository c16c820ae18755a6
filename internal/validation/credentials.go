// Package validation contains input validation helpers for user-supplied data.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt input limit
	maxNameLen     = 50
)

// ValidateEmail checks basic email address shape.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 {
		return fmt.Errorf("email is too long")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("please include a valid email")
	}
	return nil
}

// ValidatePassword enforces the password length bounds.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("please enter a password with %d or more characters", minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return fmt.Errorf("password is too long (max %d characters)", maxPasswordLen)
	}
	return nil
}

// ValidateName checks the display name is present and within bounds.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(trimmed) > maxNameLen {
		return fmt.Errorf("name is too long (max %d characters)", maxNameLen)
	}
	return nil
}
