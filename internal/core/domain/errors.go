package domain

import (
	"errors"
	"fmt"
)

var (
	ErrItemNotFound    = errors.New("clothing item not found")
	ErrOutfitNotFound  = errors.New("outfit not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrTemporary       = errors.New("temporary failure")
	ErrMalformedAdvice = errors.New("malformed styling advice")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
