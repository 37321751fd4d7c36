package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare server", "https://play.dhis2.org/demo", "https://play.dhis2.org/demo/api"},
		{"trailing slash", "https://play.dhis2.org/demo/", "https://play.dhis2.org/demo/api"},
		{"already api", "https://play.dhis2.org/demo/api", "https://play.dhis2.org/demo/api"},
		{"api with slash", "https://play.dhis2.org/demo/api/", "https://play.dhis2.org/demo/api"},
		{"localhost", "http://localhost:8080", "http://localhost:8080/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeBaseURL(tt.in))
		})
	}
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/dataStore/settings", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`["keyA","keyB"]`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	body, err := client.Get(context.Background(), "dataStore/settings")
	require.NoError(t, err)

	var keys []string
	require.NoError(t, json.Unmarshal(body, &keys))
	assert.Equal(t, []string{"keyA", "keyB"}, keys)
}

func TestGetNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"httpStatus":"Not Found","httpStatusCode":404,"message":"The namespace 'missing' was not found."}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.Get(context.Background(), "dataStore/missing")
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.Equal(t, "The namespace 'missing' was not found.", reqErr.Message)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsServerError(err))
}

func TestGetServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.Get(context.Background(), "dataStore")
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	// Non-JSON body falls back to the raw text
	assert.Equal(t, "boom", reqErr.Message)
	assert.False(t, IsNotFound(err))
	assert.True(t, IsServerError(err))
}

func TestDelete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/dataStore/settings", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	body, err := client.Delete(context.Background(), "dataStore/settings")
	require.NoError(t, err)
	assert.Nil(t, body)
}

func TestPostSendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "dark", payload["theme"])

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.Post(context.Background(), "dataStore/settings/ui", map[string]string{"theme": "dark"})
	require.NoError(t, err)
}

func TestBasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "district", pass)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Username: "admin", Password: "district"})

	_, err := client.Get(context.Background(), "me")
	require.NoError(t, err)
}

func TestAPITokenWinsOverBasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ApiToken d2pat_secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:  server.URL,
		Username: "admin",
		Password: "district",
		APIToken: "d2pat_secret",
	})

	_, err := client.Get(context.Background(), "me")
	require.NoError(t, err)
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, "dataStore")
	require.Error(t, err)
}

func TestRateLimiterThrottles(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	// 20 rps: the second request must wait roughly 50ms for a token
	client := NewClient(Config{BaseURL: server.URL, RequestsPerSecond: 20})

	start := time.Now()
	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), "system/info")
		require.NoError(t, err)
	}

	assert.Equal(t, 2, hits)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}
