package repository

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrTransferNotFound   = errors.New("transfer not found")
	ErrTransferConflict   = errors.New("transfer id already exists")
	ErrInsufficientPoints = errors.New("insufficient points")
)
