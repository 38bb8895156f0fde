package domain

import "errors"

// Error taxonomy shared by every layer. Callers wrap these with context using
// fmt.Errorf("%w: ...") and test with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrAuthorization = errors.New("authorization error")
	ErrNotFound      = errors.New("not found")
	ErrUpstream      = errors.New("upstream error")
	ErrInternal      = errors.New("internal error")
)
