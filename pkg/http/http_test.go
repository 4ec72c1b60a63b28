package http_test

import (
	"context"
	"encoding/json"
	gohttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	bchttp "github.com/shashiranjanraj/brewandco/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendJSONWithBearer(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["name"]})
	}))
	defer srv.Close()

	resp, err := bchttp.NewClient(srv.URL).Post("/api/echo").
		Bearer("tok").
		Body(map[string]string{"name": "latte"}).
		Send(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.OK())

	var out map[string]string
	require.NoError(t, resp.JSON(&out))
	assert.Equal(t, "latte", out["echo"])
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(gohttp.StatusBadGateway)
			return
		}
		w.WriteHeader(gohttp.StatusOK)
	}))
	defer srv.Close()

	resp, err := bchttp.NewClient(srv.URL).Get("/").Retry(3, time.Millisecond).Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gohttp.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		calls.Add(1)
		w.WriteHeader(gohttp.StatusNotFound)
	}))
	defer srv.Close()

	resp, err := bchttp.NewClient(srv.URL).Get("/").Retry(3, time.Millisecond).Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gohttp.StatusNotFound, resp.StatusCode)
	assert.False(t, resp.OK())
	assert.Equal(t, int32(1), calls.Load())
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	_, err := bchttp.NewClient(srv.URL).Get("/").Timeout(20 * time.Millisecond).Send(context.Background())
	assert.Error(t, err)
}

func TestURLResolution(t *testing.T) {
	c := bchttp.NewClient("http://api.local/")
	assert.Equal(t, "http://api.local/api/products", c.Get("api/products").URL())
	assert.Equal(t, "https://other/x", c.Get("https://other/x").URL())
}
