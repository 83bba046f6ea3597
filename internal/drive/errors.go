package drive

import (
	"errors"
	"fmt"
)

// Failure kinds returned by Service. Callers match them with errors.Is; the
// wrapped message carries the detail.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	// ErrCorrupt means a parent chain loops or exceeds the depth limit.
	ErrCorrupt = errors.New("folder tree is corrupt")
	// ErrPartialDelete is returned when a folder row was deleted but some of
	// its files could not be.
	ErrPartialDelete = errors.New("folder deleted with leftover files")
)

func folderNotFound(id int64) error {
	return fmt.Errorf("%w: folder %d", ErrNotFound, id)
}

func fileNotFound(id int64) error {
	return fmt.Errorf("%w: file %d", ErrNotFound, id)
}

func requireOwner(ownerID int64) error {
	if ownerID <= 0 {
		return fmt.Errorf("%w: no caller identity", ErrUnauthorized)
	}
	return nil
}

// Kind reduces err to one of the failure kinds above, or "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrCorrupt):
		return "corrupt"
	case errors.Is(err, ErrPartialDelete):
		return "partial_delete"
	default:
		return "internal"
	}
}
