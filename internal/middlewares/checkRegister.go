package middlewares

import (
	"fmt"
)

func CheckRegister(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return ErrEmptyField
	}

	if !CorrectEmailChecker(email) {
		return ErrInvalidEmail
	}

	if len(name) < 2 {
		return fmt.Errorf("%w: minimum 2 characters required", ErrNameTooShort)
	}

	if len(password) < 6 {
		return fmt.Errorf("%w: minimum 6 characters required", ErrPasswordTooShort)
	}

	return nil
}
