package api

import (
	"errors"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateCredentials checks login form fields before any network call.
// Mirrors the sign-in form rules: all fields present, plausible email,
// password of at least 6 characters.
func ValidateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return errors.New("please fill in all fields")
	}
	if !emailPattern.MatchString(email) {
		return errors.New("please enter a valid email")
	}
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters long")
	}
	return nil
}
