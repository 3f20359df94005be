package user

import "errors"

var (
	ErrUserNotFound            = errors.New("User not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrNoContacts              = errors.New("No contacts found")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
