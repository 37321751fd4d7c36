package datastore

import (
	"context"
	"encoding/json"

	"github.com/HISPSA/d2/api"
	"github.com/HISPSA/d2/errors"
)

// Namespace is the accessor for a single named key/value namespace. It is
// constructed in one of two states: keys known (built from a
// server-confirmed list) or keys unknown (no list, used both for deferred
// creation and for confirmed-absent namespaces). KeysKnown exposes the
// distinction explicitly instead of leaving callers to infer it from an
// empty list.
type Namespace struct {
	api       *api.Client
	endPoint  string
	name      string
	keys      []string
	keysKnown bool
}

// NewNamespace creates a namespace accessor. A nil key slice means the
// keys are unknown; any non-nil slice, including an empty one, means the
// server confirmed the listing.
func NewNamespace(apiClient *api.Client, endPoint, name string, keys []string) *Namespace {
	n := &Namespace{
		api:      apiClient,
		endPoint: endPoint,
		name:     name,
	}
	if keys != nil {
		n.keys = append([]string{}, keys...)
		n.keysKnown = true
	}
	return n
}

// Name returns the namespace name
func (n *Namespace) Name() string {
	return n.name
}

// Keys returns the known key names in server order. For a keys-unknown
// accessor the result is empty.
func (n *Namespace) Keys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// KeysKnown reports whether the key list came from the server rather than
// a deferred-create construction
func (n *Namespace) KeysKnown() bool {
	return n.keysKnown
}

// Has reports whether the key is present in the locally known key list
func (n *Namespace) Has(key string) bool {
	for _, k := range n.keys {
		if k == key {
			return true
		}
	}
	return false
}

// Get reads the value stored under key and unmarshals it into the given
// destination
func (n *Namespace) Get(ctx context.Context, key string, into interface{}) error {
	if key == "" {
		return errors.Wrap(errors.ErrValidation, "key should be provided")
	}

	body, err := n.api.Get(ctx, n.keyPath(key))
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, into); err != nil {
		return errors.Wrapf(err, "failed to unmarshal value for key %q", key)
	}
	return nil
}

// Set writes value under key. A key the accessor has not seen yet is
// created with POST, which is also what brings a deferred namespace into
// existence server-side; a known key is updated with PUT. The local key
// list is kept in sync on success.
func (n *Namespace) Set(ctx context.Context, key string, value interface{}) error {
	if key == "" {
		return errors.Wrap(errors.ErrValidation, "key should be provided")
	}

	if n.Has(key) {
		return n.Update(ctx, key, value)
	}

	if _, err := n.api.Post(ctx, n.keyPath(key), value); err != nil {
		return err
	}

	n.keys = append(n.keys, key)
	return nil
}

// Update overwrites the value stored under an existing key
func (n *Namespace) Update(ctx context.Context, key string, value interface{}) error {
	if key == "" {
		return errors.Wrap(errors.ErrValidation, "key should be provided")
	}

	_, err := n.api.Put(ctx, n.keyPath(key), value)
	return err
}

// Delete removes a key and its value from the namespace. Deleting the
// last key deletes the namespace server-side; the accessor keeps working
// as a deferred-create handle afterwards.
func (n *Namespace) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.Wrap(errors.ErrValidation, "key should be provided")
	}

	if _, err := n.api.Delete(ctx, n.keyPath(key)); err != nil {
		return err
	}

	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
	return nil
}

func (n *Namespace) keyPath(key string) string {
	return n.endPoint + "/" + n.name + "/" + key
}
