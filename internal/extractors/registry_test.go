package extractors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/extractors/document"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/extractors/video"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/extractors/webpage"
)

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry(document.New(), webpage.New(), video.New(""))
	require.NotNil(t, registry)

	t.Run("resolves every registered kind", func(t *testing.T) {
		for _, kind := range []domain.OriginKind{domain.OriginDocument, domain.OriginWebPage, domain.OriginVideo} {
			extractor, err := registry.ForKind(kind)
			require.NoError(t, err)
			require.NotNil(t, extractor)
			assert.Equal(t, kind, extractor.Kind())
		}
	})

	t.Run("unknown kind is unsupported", func(t *testing.T) {
		extractor, err := registry.ForKind(domain.OriginKind("podcast"))
		assert.Nil(t, extractor)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUnsupportedType))
		assert.Contains(t, err.Error(), "podcast")
	})

	t.Run("empty registry resolves nothing", func(t *testing.T) {
		empty := NewRegistry()
		_, err := empty.ForKind(domain.OriginDocument)
		assert.True(t, errors.Is(err, domain.ErrUnsupportedType))
	})
}

func TestKindFor(t *testing.T) {
	tests := []struct {
		name     string
		location string
		expected domain.OriginKind
	}{
		{
			name:     "youtube watch URL is a video",
			location: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: domain.OriginVideo,
		},
		{
			name:     "short youtu.be URL is a video",
			location: "https://youtu.be/dQw4w9WgXcQ",
			expected: domain.OriginVideo,
		},
		{
			name:     "youtube shorts URL is a video",
			location: "https://www.youtube.com/shorts/dQw4w9WgXcQ",
			expected: domain.OriginVideo,
		},
		{
			name:     "https URL is a web page",
			location: "https://example.com/articles/42",
			expected: domain.OriginWebPage,
		},
		{
			name:     "http URL is a web page",
			location: "http://example.com",
			expected: domain.OriginWebPage,
		},
		{
			name:     "youtube home page without video ID is a web page",
			location: "https://www.youtube.com/",
			expected: domain.OriginWebPage,
		},
		{
			name:     "absolute file path is a document",
			location: "/home/user/notes.md",
			expected: domain.OriginDocument,
		},
		{
			name:     "bare file name is a document",
			location: "report.pdf",
			expected: domain.OriginDocument,
		},
		{
			name:     "windows path is a document",
			location: `C:\Users\user\report.docx`,
			expected: domain.OriginDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindFor(tt.location))
		})
	}
}
