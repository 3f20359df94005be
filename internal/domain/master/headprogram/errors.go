package headprogram

import "errors"

var (
	ErrHeadProgramNotFound = errors.New("Headprogram not found")
	ErrNameRequired        = errors.New("Headprogram Input is required")
)
