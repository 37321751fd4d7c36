package datastore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HISPSA/d2/api"
	"github.com/HISPSA/d2/errors"
)

func newTestDataStore(t *testing.T, handler http.HandlerFunc) *DataStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewDataStore(api.NewClient(api.Config{BaseURL: server.URL}))
}

func TestGetWithoutAutoLoad(t *testing.T) {
	store := newTestDataStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected transport call: %s %s", r.Method, r.URL.Path)
	})

	ns, err := store.Get(context.Background(), "brandNew", false)
	require.NoError(t, err)

	assert.Equal(t, "brandNew", ns.Name())
	assert.Empty(t, ns.Keys())
	assert.False(t, ns.KeysKnown())
}

func TestGetAutoLoad(t *testing.T) {
	store := newTestDataStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/dataStore/settings", r.URL.Path)
		w.Write([]byte(`["k1","k2"]`))
	})

	ns, err := store.Get(context.Background(), "settings", true)
	require.NoError(t, err)

	assert.Equal(t, "settings", ns.Name())
	assert.Equal(t, []string{"k1", "k2"}, ns.Keys())
	assert.True(t, ns.KeysKnown())
}

func TestGetAutoLoadEmptyKeyList(t *testing.T) {
	store := newTestDataStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	ns, err := store.Get(context.Background(), "settings", true)
	require.NoError(t, err)

	// Server-confirmed empty listing is still "keys known"
	assert.Empty(t, ns.Keys())
	assert.True(t, ns.KeysKnown())
}

func TestGetNotFoundRecovers(t *testing.T) {
	store := newTestDataStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"httpStatusCode":404,"message":"The namespace 'missing' was not found."}`))
	})

	ns, err := store.Get(context.Background(), "missing", true)
	require.NoError(t, err, "a 404 on a single-namespace read is a legitimate pre-creation state")

	assert.Equal(t, "missing", ns.Name())
	assert.Empty(t, ns.Keys())
	assert.False(t, ns.KeysKnown())
}

func TestGetServerErrorPassesThrough(t *testing.T) {
	store := newTestDataStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := store.Get(context.Background(), "settings", true)
	require.Error(t, err)

	var reqErr *api.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
}

func TestGetNonSequenceResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"object", `{"k1":"v1"}`},
		{"null", `null`},
		{"number", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestDataStore(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := store.Get(context.Background(), "settings", true)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidResponseError(err))
			assert.Contains(t, err.Error(), "The requested namespace has no keys or does not exist.")
		})
	}
}

func TestGetEmptyNamespace(t *testing.T) {
	store := NewDataStore(nil)

	_, err := store.Get(context.Background(), "", true)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestGetDataStoreSingleton(t *testing.T) {
	first, err := GetDataStore()
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := GetDataStore()
	require.NoError(t, err)

	assert.Same(t, first, second, "every call must observe the same instance")
}
