package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamescope/app/internal/apperr"
	"gamescope/app/internal/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   apperr.Kind
		msg    string
	}{
		{http.StatusBadRequest, `{"error":"bad json"}`, apperr.Validation, "bad json"},
		{http.StatusUnauthorized, `{"error":"Session expired"}`, apperr.Unauthorized, "Session expired"},
		{http.StatusForbidden, `{"error":"Only the owner may change this document"}`, apperr.PermissionDenied, "Only the owner may change this document"},
		{http.StatusNotFound, `{"error":"Document not found"}`, apperr.NotFound, "Document not found"},
		{http.StatusUnprocessableEntity, `{"error":"review content must not be empty"}`, apperr.Validation, "review content must not be empty"},
		{http.StatusTooManyRequests, `slow down`, apperr.RateLimited, "slow down"},
		{http.StatusServiceUnavailable, ``, apperr.Network, ""},
		{http.StatusConflict, `{"error":"Document already exists"}`, apperr.Unknown, "Document already exists"},
		{http.StatusInternalServerError, `{"error":"upstream timeout"}`, apperr.Network, "upstream timeout"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, nil).GetDocument(context.Background(), "games", "hades")
			require.Error(t, err)
			assert.Equal(t, tt.want, apperr.KindOf(err))

			var ae *apperr.Error
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, tt.msg, ae.Message)
			assert.True(t, IsStatus(err, tt.status))
		})
	}
}

func TestTransportFailureIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).ListDocuments(context.Background(), "games", backend.Query{})
	assert.Equal(t, apperr.Network, apperr.KindOf(err))
}

func TestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := New(srv.URL, nil).ListDocuments(ctx, "games", backend.Query{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequestShape(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"documents":[{"id":"r1","collection":"reviews","data":{"content":"hi"}}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/v1/", nil)
	c.SetToken("tok")
	q := backend.Where(backend.Equal("userId", "7"), backend.Equal("gameId", "hades")).OrderedDesc("timestamp")

	docs, err := c.ListDocuments(context.Background(), "reviews", q)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "hi", docs[0].Data["content"])

	require.NotNil(t, got)
	assert.Equal(t, "/api/v1/collections/reviews/documents", got.URL.Path)
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Equal(t, "7", got.URL.Query().Get("where[userId]"))
	assert.Equal(t, "hades", got.URL.Query().Get("where[gameId]"))
	assert.Equal(t, "timestamp", got.URL.Query().Get("order_desc"))
}

func TestEmptyIDNeverLeavesTheClient(t *testing.T) {
	c := New("http://127.0.0.1:0", nil)

	_, err := c.GetDocument(context.Background(), "games", "")
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
	_, err = c.UpdateDocument(context.Background(), "reviews", "", map[string]any{})
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(c.DeleteDocument(context.Background(), "reviews", "")))
}
