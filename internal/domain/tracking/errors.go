package tracking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates a rejected add or update payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotPersisted indicates the change is live in memory but the slot write failed.
	ErrNotPersisted = errors.New("change applied but not persisted")
	// ErrNoAttachment indicates a material cost without a receipt.
	ErrNoAttachment = errors.New("material has no attachment")
	// ErrInvalidAttachment indicates receipt data that cannot be decoded.
	ErrInvalidAttachment = errors.New("invalid attachment data")
)

// PersistError reports a failed slot write. It matches both ErrNotPersisted
// and the underlying storage error.
type PersistError struct {
	Slot string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Slot, e.Err)
}

func (e *PersistError) Unwrap() []error {
	return []error{ErrNotPersisted, e.Err}
}

// IsPersistWarning reports whether err only signals a failed write after the
// in-memory change went through.
func IsPersistWarning(err error) bool {
	return errors.Is(err, ErrNotPersisted)
}
