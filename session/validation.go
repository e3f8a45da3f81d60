package session

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateRegistration applies the checks the signup form runs before any
// remote call is made: all fields present, plausible email, password policy,
// matching confirmation. The server still validates everything it receives.
func ValidateRegistration(input RegisterInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) < 4 {
		return fmt.Errorf("name must be at least 4 characters long")
	}

	if err := ValidateEmail(input.Email); err != nil {
		return err
	}

	if err := ValidatePasswordStrength(input.Password); err != nil {
		return err
	}

	if input.Password != input.ConfirmPassword {
		return fmt.Errorf("passwords do not match")
	}

	return nil
}

// ValidateEmail performs a basic shape check on an email address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return fmt.Errorf("invalid email format")
	}

	return nil
}

// ValidatePasswordStrength checks if a password meets the signup policy:
// - At least 8 characters long
// - Contains at least one letter
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasLetter bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsLetter(char) {
			hasLetter = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasLetter {
		return fmt.Errorf("password must contain at least one letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

// ValidateCredentials checks login input before it goes to the server.
func ValidateCredentials(email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}

	if password == "" {
		return fmt.Errorf("password is required")
	}

	return nil
}
