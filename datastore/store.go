// Package datastore provides access to the server's named key/value
// namespaces. DataStore is the concrete store for the dataStore endpoint;
// BaseStore carries the operations every namespaced store shares and is
// meant to be embedded and specialized.
package datastore

import (
	"context"
	"encoding/json"

	"github.com/HISPSA/d2/api"
	"github.com/HISPSA/d2/errors"
)

// DefaultEndPoint is the API resource namespaced stores live under
const DefaultEndPoint = "dataStore"

// Store is the namespace access surface
type Store interface {
	// Get returns an accessor for the namespace. With autoLoad the key
	// list is fetched eagerly; without it the accessor resolves
	// immediately in the keys-unknown state, which is the required path
	// for creating a namespace that does not exist yet.
	Get(ctx context.Context, namespace string, autoLoad bool) (*Namespace, error)

	// GetAll lists every namespace name under the store's endpoint
	GetAll(ctx context.Context) ([]string, error)

	// Delete removes the namespace and all of its keys
	Delete(ctx context.Context, namespace string) (json.RawMessage, error)
}

// BaseStore holds the transport and endpoint shared by namespaced stores.
// Its Get is abstract: embed BaseStore and override Get with the store's
// own loading semantics.
type BaseStore struct {
	api      *api.Client
	endPoint string
}

// NewBaseStore creates a base store for the given endpoint. An empty
// endpoint falls back to DefaultEndPoint.
func NewBaseStore(apiClient *api.Client, endPoint string) *BaseStore {
	if endPoint == "" {
		endPoint = DefaultEndPoint
	}
	return &BaseStore{
		api:      apiClient,
		endPoint: endPoint,
	}
}

// EndPoint returns the API resource this store reads and writes
func (s *BaseStore) EndPoint() string {
	return s.endPoint
}

// Get must be overridden by a concrete store
func (s *BaseStore) Get(ctx context.Context, namespace string, autoLoad bool) (*Namespace, error) {
	return nil, errors.Wrap(errors.ErrNotImplemented, "must be implemented by a concrete store")
}

// GetAll lists every namespace under the endpoint. Unlike the
// per-namespace read there is no recovery here: a server with no
// namespaces at all is never a valid pre-creation state, so anything but
// a sequence of names is an error.
func (s *BaseStore) GetAll(ctx context.Context) ([]string, error) {
	body, err := s.api.Get(ctx, s.endPoint)
	if err != nil {
		return nil, err
	}

	var namespaces []string
	if unmarshalErr := json.Unmarshal(body, &namespaces); unmarshalErr != nil || namespaces == nil {
		return nil, errors.Wrap(errors.ErrNoNamespaces, "No namespaces exist.")
	}

	return namespaces, nil
}

// Delete removes a namespace. Result and failure pass through from the
// transport unmodified.
func (s *BaseStore) Delete(ctx context.Context, namespace string) (json.RawMessage, error) {
	if namespace == "" {
		return nil, errors.Wrap(errors.ErrValidation, "namespace should be provided")
	}
	return s.api.Delete(ctx, s.endPoint+"/"+namespace)
}
