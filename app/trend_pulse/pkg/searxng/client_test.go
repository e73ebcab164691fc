package searxng

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/search"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "news", r.URL.Query().Get("categories"))
		assert.Equal(t, "cold chain", r.URL.Query().Get("q"))
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		_, _ = w.Write([]byte(`{"query":"cold chain","results":[
			{"title":"a","url":"https://a.example","content":"A"},
			{"title":"b","url":"https://b.example","content":"B"},
			{"title":"c","url":"https://c.example","content":"C"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, search.WithTimeout(5*time.Second))
	resp, err := c.Search(context.Background(), &search.Request{Query: "cold chain", Topic: search.TopicNews, MaxResults: 2})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "https://b.example", resp.Results[1].URL)
	assert.Equal(t, "B", resp.Results[1].Body())
}

func TestSearchDefaultsToGeneralCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "general", r.URL.Query().Get("categories"))
		assert.Equal(t, "custom-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, search.WithUserAgent("custom-agent")).
		Search(context.Background(), &search.Request{Query: "x"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestSearchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Search(context.Background(), &search.Request{Query: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "searxng api error (status 429)")
}

func TestSearchClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, search.WithTimeout(50*time.Millisecond)).
		Search(context.Background(), &search.Request{Query: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
