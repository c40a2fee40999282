package auth

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUsernameTaken           = errors.New("user with that username already exists")
	ErrEmailTaken              = errors.New("user with that email already exists")
	ErrInvalidConfirmationCode = errors.New("confirmation code incorrect")
	ErrInvalidToken            = errors.New("invalid or expired token")
)
