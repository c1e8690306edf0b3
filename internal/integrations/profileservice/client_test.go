package profileservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaamconnect/KaamConnect-RentalService/pkg/logger"
)

func TestClient_GetProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/users/u-1/profile":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"u-1","full_name":"Ramesh Patil"}`))
		case "/internal/users/u-2/profile":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second, logger.Nop())

	profile, err := client.GetProfile(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Ramesh Patil", profile.FullName)

	_, err = client.GetProfile(context.Background(), "u-2")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = client.GetProfile(context.Background(), "u-3")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_GetDisplayName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/internal/users/u-1/profile" {
			_, _ = w.Write([]byte(`{"id":"u-1","full_name":" Ramesh Patil "}`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, logger.Nop())

	assert.Equal(t, "Ramesh Patil", client.GetDisplayName(context.Background(), "u-1"))
	assert.Equal(t, FallbackDisplayName, client.GetDisplayName(context.Background(), "u-9"))

	unconfigured := NewClient("", time.Second, logger.Nop())
	assert.Equal(t, FallbackDisplayName, unconfigured.GetDisplayName(context.Background(), "u-1"))
}
