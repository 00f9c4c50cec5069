package owmsclient

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/owms-dashboard/internal/errs"
	"github.com/GregMSThompson/owms-dashboard/pkg/helpers"
)

func TestGetForwardsTokenAndDecodes(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"title":"공지"}]}`))
	}))
	defer srv.Close()

	a := NewAdapter(srv.URL+"/", time.Second, 0)
	payload, err := a.Get(helpers.TestCtx(), "tok", "/board/notice/posts?limit=5")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "/board/notice/posts", gotPath)
	assert.Equal(t, "limit=5", gotQuery)
	obj, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Len(t, obj["items"], 1)
}

func TestGetEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	payload, err := NewAdapter(srv.URL, time.Second, 0).Get(helpers.TestCtx(), "", "/x")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, payload)
}

func TestGetStatusErrors(t *testing.T) {
	cases := []struct {
		status    int
		transient bool
	}{
		{http.StatusInternalServerError, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusTooManyRequests, true},
		{http.StatusForbidden, false},
		{http.StatusNotFound, false},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"message":"boom"}`))
		}))

		_, err := NewAdapter(srv.URL, time.Second, 0).Get(helpers.TestCtx(), "tok", "/x")
		srv.Close()

		var ext *errs.ExternalServiceError
		require.True(t, errors.As(err, &ext), "status %d", tc.status)
		assert.Equal(t, tc.status, ext.StatusCode)
		assert.Equal(t, tc.transient, ext.Transient, "status %d", tc.status)
		assert.Contains(t, ext.Error(), "boom")
	}
}

func TestGetInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewAdapter(srv.URL, time.Second, 0).Get(helpers.TestCtx(), "tok", "/x")
	var ext *errs.ExternalServiceError
	require.True(t, errors.As(err, &ext))
	assert.False(t, ext.Transient)
}

func TestGetUnreachableIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewAdapter(url, time.Second, 5).Get(helpers.TestCtx(), "tok", "/x")
	var ext *errs.ExternalServiceError
	require.True(t, errors.As(err, &ext))
	assert.True(t, ext.Transient)
}
