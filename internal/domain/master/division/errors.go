package division

import "errors"

var (
	ErrDivisionNotFound = errors.New("Division not found")
	ErrNoDivisions      = errors.New("No divisions found")
)
