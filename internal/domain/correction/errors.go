package correction

import "errors"

// Correction domain errors
var (
	ErrApplicationNotFound = errors.New("correction application not found")
	ErrAlreadyApproved     = errors.New("correction application has already been approved")
	ErrNotOwned            = errors.New("unauthorized to access this correction application")
)
