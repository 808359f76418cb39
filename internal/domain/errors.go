package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrEventCodeTaken     = errors.New("event code already in use")
	ErrStoreUnavailable   = errors.New("store unavailable")
)

// StoreError marks err as a backing store failure. Both ErrStoreUnavailable
// and the driver error stay reachable through errors.Is / errors.As.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func invalidOp(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, msg)
}
