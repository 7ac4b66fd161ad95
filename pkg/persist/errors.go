package persist

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStore is returned when a bridge is built without a KV.
	ErrNoStore = errors.New("persist: kv store is required")
	// ErrEmptyFormID rejects keys that would collide across forms.
	ErrEmptyFormID = errors.New("persist: form id is required")
)

// CorruptStateError describes a stored blob that could not be decoded. Load
// logs it and reports the state as absent.
type CorruptStateError struct {
	Key string
	Err error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("persist: corrupt state under %q: %v", e.Key, e.Err)
}

func (e *CorruptStateError) Unwrap() error {
	return e.Err
}
