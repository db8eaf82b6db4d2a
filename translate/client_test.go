package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req translateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ru", req.TargetLang)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(translateResponse{TranslatedText: "Привет"})
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{Endpoint: srv.URL, APIKey: "secret"})
	require.NoError(t, err)

	got, err := client.Translate(context.Background(), "Hello", "ru")
	require.NoError(t, err)
	assert.Equal(t, "Привет", got)
}

func TestTranslateServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{Endpoint: srv.URL})
	require.NoError(t, err)

	_, err = client.Translate(context.Background(), "Hello", "ru")
	assert.ErrorIs(t, err, ErrTranslationUnavailable)
}

func TestTranslateEmptyTextShortCircuits(t *testing.T) {
	client, err := NewClient(ClientConfig{Endpoint: "http://localhost:1"})
	require.NoError(t, err)

	got, err := client.Translate(context.Background(), "", "ru")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.Error(t, err)
}
