package middlewares

import "errors"

var (
	ErrEmptyField        = errors.New("all fields must be filled")
	ErrInvalidEmail      = errors.New("email is invalid")
	ErrNameTooShort      = errors.New("name must be at least 2 characters")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
	ErrNonPositivePoints = errors.New("points must be positive")
)
