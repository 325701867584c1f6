package library

import "errors"

// Operation errors. The HTTP layer maps these onto response statuses;
// anything else coming out of the service is treated as an internal error.
var (
	ErrMissingFields       = errors.New("missing required fields")
	ErrInvalidPhone        = errors.New("invalid phone number")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrDuplicateContact    = errors.New("phone or email already in use")
	ErrMemberNotFound      = errors.New("member not found")
	ErrBookNotFound        = errors.New("book not found")
	ErrInvalidRange        = errors.New("start date must be before end date")
	ErrBookAlreadyBorrowed = errors.New("book already borrowed in that period")
)
