package errors

import "errors"

var (
	ErrPreferenceNotFound = errors.New("preference profile not found")
)
