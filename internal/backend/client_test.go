package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get_DecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"_id":"p1","name":"Widget","price":100}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	var env envelope[[]productDTO]
	require.NoError(t, c.Get(context.Background(), "/products", &env))
	assert.True(t, env.Success)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "p1", env.Data[0].ID)
	assert.InDelta(t, 100, env.Data[0].Price, 0.001)
}

func TestClient_NotFoundWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Get(context.Background(), "/products/missing", nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "An unexpected error occurred", apiErr.Message)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestClient_StructuredErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"Not found"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Get(context.Background(), "/special-prices/x", nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Not found", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	err := NewClient(srv.URL).Get(context.Background(), "/products", nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "An unexpected error occurred", apiErr.Message)
	assert.Zero(t, apiErr.Status, "transport failures carry no HTTP status")
}

func TestClient_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		srv.Close()
	}()

	c := NewClient(srv.URL, WithTimeout(50*time.Millisecond))
	err := c.Get(context.Background(), "/products", nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "An unexpected error occurred", apiErr.Message)
	assert.Zero(t, apiErr.Status)
}

func TestNormalize(t *testing.T) {
	assert.Nil(t, Normalize(nil))

	orig := &Error{Message: "Not found", Status: 404}
	assert.Same(t, orig, Normalize(orig))
	assert.Same(t, orig, Normalize(errors.Wrap(orig, "get product")))

	plain := Normalize(errors.New("boom"))
	assert.Equal(t, "boom", plain.Message)
	assert.Zero(t, plain.Status)

	assert.Equal(t, "An unknown error occurred", Unknown().Message)
}

func TestError_Error(t *testing.T) {
	assert.Equal(t, "backend: Not found (status 404)", (&Error{Message: "Not found", Status: 404}).Error())
	assert.Equal(t, "backend: boom", (&Error{Message: "boom"}).Error())
}
