package middlewares

import (
	"regexp"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func CorrectEmailChecker(email string) bool {
	return emailPattern.MatchString(email)
}

func CheckInput(email, password string) error {
	if email == "" || password == "" {
		return ErrEmptyField
	}

	if !CorrectEmailChecker(email) {
		return ErrInvalidEmail
	}

	return nil
}

func CheckTransfer(toEmail string, points int) error {
	if toEmail == "" {
		return ErrEmptyField
	}

	if !CorrectEmailChecker(toEmail) {
		return ErrInvalidEmail
	}

	if points <= 0 {
		return ErrNonPositivePoints
	}

	return nil
}
