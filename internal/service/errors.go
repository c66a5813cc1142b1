package service

import (
	"errors"
	"fmt"

	"bestronggym/gym-desk/internal/repository"
	"bestronggym/gym-desk/internal/store"
)

var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrUnknownPlan        = errors.New("unknown plan")
	ErrClientNotFound     = errors.New("client not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrStoreUnavailable   = errors.New("record store unavailable")
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, msg)
}

// storeError translates record store failures into service errors.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNameRequired):
		return validationError("name is required")
	case errors.Is(err, store.ErrSlotUnavailable), errors.Is(err, repository.ErrSaveFailed):
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	default:
		return err
	}
}
