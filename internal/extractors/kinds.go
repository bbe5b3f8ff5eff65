package extractors

import (
	"strings"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/extractors/video"
)

// KindFor guesses the origin kind from the location shape: YouTube links
// are videos, other URLs are web pages, everything else is a file path.
// Callers that know the kind should pass it explicitly instead.
func KindFor(location string) domain.OriginKind {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if _, err := video.ParseVideoID(location); err == nil {
			return domain.OriginVideo
		}
		return domain.OriginWebPage
	}
	return domain.OriginDocument
}
