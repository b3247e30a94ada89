package form

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownGroup   = errors.New("unknown group")
	ErrInvalidOption  = errors.New("invalid option")
	ErrUnknownField   = errors.New("unknown field")
	ErrUnknownSection = errors.New("unknown section")
	ErrPhotoIndex     = errors.New("photo index out of range")
	ErrActionNotFound = errors.New("corrective action not found")
)

// InvalidOptionError is returned when a selection is outside a group's vocabulary
type InvalidOptionError struct {
	Group   string
	Option  string
	Allowed []string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid option %q for group %s (allowed: %v)", e.Option, e.Group, e.Allowed)
}

func (e *InvalidOptionError) Unwrap() error {
	return ErrInvalidOption
}
