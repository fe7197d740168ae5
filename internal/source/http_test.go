package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSourceSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pujas":[
			{"id":"1","title":"Aarti","startDate":"2026-08-28","isActive":true},
			{"id":"2","title":"Draft","startDate":"2026-08-29","isActive":false}
		]}`))
	}))
	defer srv.Close()

	pujas, err := FromURL(srv.URL).Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, pujas, 1)
	assert.Equal(t, "Aarti", pujas[0].Title)
}

func TestHTTPSourceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := FromURL(srv.URL).Snapshot(context.Background())
	assert.Error(t, err)
}

func TestHTTPSourceMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := FromURL(srv.URL).Snapshot(context.Background())
	assert.Error(t, err)
}
