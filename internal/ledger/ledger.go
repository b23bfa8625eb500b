// Package ledger provides the shared versioned key/value store backing every
// balance, seat, claim and draw-state mutation. Each key supports a single-key
// optimistic conditional update; cross-key consistency is the caller's job via
// compensating transactions, never via multi-key atomicity.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
)

// maxUpdateAttempts bounds the transparent retry loop on version conflicts
// before the conflict surfaces to the caller.
const maxUpdateAttempts = 16

// UpdateFunc transforms the current value of a key into its next value.
// current is nil when the key does not exist yet. Returning an error aborts
// the update and propagates unchanged; there is no zero-value sentinel.
type UpdateFunc func(current []byte) ([]byte, error)

// Store is a keyed store with an optimistic conditional-update primitive.
// All mutations of contended state MUST go through Update; plain
// read-then-Set is how double-booking bugs happen.
type Store interface {
	// Get returns the current value, or errs.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes unconditionally. Reserved for initial writes and
	// non-contended data such as issued tickets.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all key/value pairs whose key starts with prefix.
	List(ctx context.Context, prefix string) (map[string][]byte, error)

	// Update applies fn to the current value and commits the result only if
	// no concurrent writer committed in between, retrying a bounded number
	// of times before returning errs.ErrConflict. The committed value is
	// returned on success.
	Update(ctx context.Context, key string, fn UpdateFunc) ([]byte, error)
}

// GetJSON loads a key into out.
func GetJSON(ctx context.Context, s Store, key string, out any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("ledger key %s holds malformed value: %w", key, err)
	}
	return nil
}

// SetJSON writes v as the key's value.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// UpdateJSON runs a conditional update on a JSON-encoded record of type T.
// fn receives the decoded current value (zero T when absent) and an exists
// flag; any error from fn aborts the update. The committed record is returned.
func UpdateJSON[T any](ctx context.Context, s Store, key string, fn func(v *T, exists bool) error) (*T, error) {
	var committed T
	_, err := s.Update(ctx, key, func(current []byte) ([]byte, error) {
		var v T
		exists := current != nil
		if exists {
			if err := json.Unmarshal(current, &v); err != nil {
				return nil, fmt.Errorf("ledger key %s holds malformed value: %w", key, err)
			}
		}
		if err := fn(&v, exists); err != nil {
			return nil, err
		}
		raw, err := json.Marshal(&v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal value for %s: %w", key, err)
		}
		committed = v
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return &committed, nil
}

// Require is a convenience for updates that must find the key present.
func Require(exists bool, key string) error {
	if !exists {
		return fmt.Errorf("%w: %s", errs.ErrNotFound, key)
	}
	return nil
}
