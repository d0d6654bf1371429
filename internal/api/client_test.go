// internal/api/client_test.go
//
// Client tests against an httptest server.
//
// Run: go test ./internal/api -v

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUser_PostsExactJSON(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		WriteJSON(w, http.StatusCreated, User{ID: "u-1", Name: "Jo", Email: "jo@x.com"})
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/", Options{})
	u, err := c.RegisterUser(context.Background(), NewUser{Name: "Jo", Email: "jo@x.com", Password: "123456"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"name": "Jo", "email": "jo@x.com", "password": "123456"}, got)
	assert.Equal(t, "u-1", u.ID)
}

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		assert.Equal(t, map[string]string{"email": "a@b.com", "password": "secret"}, in)
		WriteJSON(w, http.StatusOK, Session{Token: "jwt", User: User{ID: "u-1"}})
	}))
	defer srv.Close()

	s, err := New(srv.URL, Options{}).CreateSession(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt", s.Token)
}

func TestErrorEnvelopeDecoded(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		WriteError(w, &Error{Status: http.StatusConflict, Code: CodeDuplicateEmail, Message: "e-mail already registered"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, Options{RetryMax: 3}).RegisterUser(context.Background(), NewUser{})
	require.Error(t, err)

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusConflict, ae.Status)
	assert.True(t, IsCode(err, CodeDuplicateEmail))
	assert.Equal(t, int32(1), hits.Load(), "answered POSTs are never retried")
}

func TestNonEnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, Options{}).CreateSession(context.Background(), "a@b.com", "x")
	assert.True(t, IsCode(err, CodeInternal))
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, Options{RetryMax: 1}).CreateSession(context.Background(), "a@b.com", "x")
	require.Error(t, err)
	var ae *Error
	assert.False(t, IsCode(err, CodeInternal))
	assert.NotErrorAs(t, err, &ae)
}
