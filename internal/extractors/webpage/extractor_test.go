package webpage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
)

func TestExtractor_Kind(t *testing.T) {
	assert.Equal(t, domain.OriginWebPage, New().Kind())
}

func TestExtractor_Extract_HTMLPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Release Notes</title></head>` +
			`<body><h1>Changes</h1><p>Fixed the importer.</p>` +
			`<script>trackPageView();</script></body></html>`))
	}))
	defer srv.Close()

	extraction, err := New().Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NotNil(t, extraction)

	assert.Equal(t, "Release Notes", extraction.DisplayName)
	assert.Contains(t, extraction.Text, "Changes")
	assert.Contains(t, extraction.Text, "Fixed the importer.")
	assert.NotContains(t, extraction.Text, "<p>")
	assert.NotContains(t, extraction.Text, "trackPageView")
	assert.Equal(t, srv.URL, extraction.Attributes["url"])
}

func TestExtractor_Extract_PlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("just plain text"))
	}))
	defer srv.Close()

	location := srv.URL + "/notes.txt"
	extraction, err := New().Extract(context.Background(), location)
	require.NoError(t, err)

	assert.Equal(t, "just plain text", extraction.Text)

	// Without a title the display name falls back to host and path.
	parsed, err := url.Parse(location)
	require.NoError(t, err)
	assert.Equal(t, parsed.Host+parsed.Path, extraction.DisplayName)
}

func TestExtractor_Extract_UntitledPageFallsBackToHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<body><p>Untitled content</p></body>"))
	}))
	defer srv.Close()

	extraction, err := New().Extract(context.Background(), srv.URL+"/page")
	require.NoError(t, err)

	parsed, err := url.Parse(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, parsed.Host+"/page", extraction.DisplayName)
}

func TestExtractor_Extract_Failures(t *testing.T) {
	t.Run("rejects non-http locations", func(t *testing.T) {
		for _, location := range []string{"ftp://example.com/file", "/local/path.html", "not a url at all"} {
			extraction, err := New().Extract(context.Background(), location)
			assert.Nil(t, extraction)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrExtraction))
		}
	})

	t.Run("propagates HTTP error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := New().Extract(context.Background(), srv.URL)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrExtraction))
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("rejects unsupported content types", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.7"))
		}))
		defer srv.Close()

		_, err := New().Extract(context.Background(), srv.URL)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrExtraction))
		assert.Contains(t, err.Error(), "unsupported content type")
	})

	t.Run("empty page yields no content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body><script>only()</script></body></html>"))
		}))
		defer srv.Close()

		_, err := New().Extract(context.Background(), srv.URL)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrEmptyContent))
	})

	t.Run("unreachable host", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // close immediately so the port refuses connections

		_, err := New().Extract(context.Background(), srv.URL)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrExtraction))
	})
}
