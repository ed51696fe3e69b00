// Package snapshot persists small opaque blobs of client state (the session
// identity and the cart) under a fixed key.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Well-known snapshot keys.
const (
	SessionKey = "shopease-user"
	CartKey    = "shopease-cart"
)

var (
	// ErrNotFound means nothing has been saved under the key.
	ErrNotFound = errors.New("snapshot not found")
	// ErrCorrupt wraps decode failures of a stored blob.
	ErrCorrupt = errors.New("snapshot corrupt")
)

// Store holds one blob. Implementations are bound to a single key.
type Store interface {
	// Load returns the saved blob, or ErrNotFound.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context) error
}

// Encode serializes v as JSON.
func Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// Decode parses a JSON blob into T. Any parse failure is reported as ErrCorrupt.
func Decode[T any](blob []byte) (T, error) {
	var v T
	if err := json.Unmarshal(blob, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return v, nil
}
