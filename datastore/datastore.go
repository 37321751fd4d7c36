package datastore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/HISPSA/d2/api"
	"github.com/HISPSA/d2/config"
	"github.com/HISPSA/d2/errors"
	"github.com/HISPSA/d2/logger"
)

// DataStore is the concrete store for the dataStore endpoint
type DataStore struct {
	*BaseStore
}

// NewDataStore creates a data store over the given API client
func NewDataStore(apiClient *api.Client) *DataStore {
	return &DataStore{
		BaseStore: NewBaseStore(apiClient, DefaultEndPoint),
	}
}

// Get returns an accessor for the namespace.
//
// With autoLoad the key list is fetched from the server: a sequence body
// yields a keys-known accessor, a 404 yields a keys-unknown accessor
// (absence is a legitimate pre-creation state, not an error), and any
// other failure passes through. A present but non-sequence body is an
// invalid response.
//
// Without autoLoad the accessor resolves immediately with no network
// interaction. This is the required path for namespace creation, since a
// namespace cannot exist server-side until at least one key is written
// and pre-fetching would 404.
func (s *DataStore) Get(ctx context.Context, namespace string, autoLoad bool) (*Namespace, error) {
	if namespace == "" {
		return nil, errors.Wrap(errors.ErrValidation, "namespace should be provided")
	}

	if !autoLoad {
		return NewNamespace(s.api, s.endPoint, namespace, nil), nil
	}

	body, err := s.api.Get(ctx, s.endPoint+"/"+namespace)
	if err != nil {
		if api.IsNotFound(err) {
			return NewNamespace(s.api, s.endPoint, namespace, nil), nil
		}
		return nil, err
	}

	var keys []string
	if unmarshalErr := json.Unmarshal(body, &keys); unmarshalErr != nil || keys == nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse,
			"The requested namespace has no keys or does not exist.")
	}

	return NewNamespace(s.api, s.endPoint, namespace, keys), nil
}

// Process-wide singleton. Written at most once; every caller observes the
// same instance for the lifetime of the process. There is deliberately no
// reset hook; tests that need isolation construct stores directly with
// NewDataStore.
var (
	instance     *DataStore
	instanceErr  error
	instanceOnce sync.Once
)

// GetDataStore returns the shared DataStore, constructing it from the
// loaded configuration on first call
func GetDataStore() (*DataStore, error) {
	instanceOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			instanceErr = errors.Wrap(err, "failed to load configuration for data store")
			return
		}

		instance = NewDataStore(api.NewClient(api.Config{
			BaseURL:           cfg.Server.BaseURL,
			Username:          cfg.Server.Username,
			Password:          cfg.Server.Password,
			APIToken:          cfg.Server.APIToken,
			Timeout:           time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			RequestsPerSecond: cfg.Server.RequestsPerSecond,
			Logger:            logger.Logger,
		}))
	})

	if instanceErr != nil {
		return nil, instanceErr
	}
	return instance, nil
}
