// Package video extracts transcripts from YouTube videos. Video metadata
// (title, channel, duration) comes from the YouTube Data API when an API
// key is configured; the transcript itself comes from the public
// timed-text endpoint, which needs no credentials.
package video

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
)

const (
	timedTextURL   = "https://video.google.com/timedtext"
	requestTimeout = 30 * time.Second
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor fetches YouTube transcripts and metadata.
type Extractor struct {
	apiKey   string
	client   *http.Client
	language string
}

// Option configures the extractor.
type Option func(*Extractor)

// WithLanguage sets the transcript language code. Defaults to "en".
func WithLanguage(lang string) Option {
	return func(e *Extractor) {
		if lang != "" {
			e.language = lang
		}
	}
}

// New creates the video extractor. apiKey may be empty; metadata lookup
// is then skipped and the display name falls back to the video ID.
func New(apiKey string, opts ...Option) *Extractor {
	e := &Extractor{
		apiKey:   apiKey,
		client:   &http.Client{Timeout: requestTimeout},
		language: "en",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Kind returns the origin kind this extractor handles.
func (e *Extractor) Kind() domain.OriginKind {
	return domain.OriginVideo
}

// Extract resolves the video ID from location, fetches the transcript
// and, when possible, the video metadata. A video without a transcript
// track is an extraction failure; there is nothing to index.
func (e *Extractor) Extract(ctx context.Context, location string) (*driven.Extraction, error) {
	videoID, err := ParseVideoID(location)
	if err != nil {
		return nil, err
	}

	transcript, err := e.fetchTranscript(ctx, videoID)
	if err != nil {
		return nil, err
	}

	displayName := "YouTube video " + videoID
	attrs := map[string]string{"video_id": videoID, "url": location}

	if e.apiKey != "" {
		meta, err := e.fetchMetadata(ctx, videoID)
		if err != nil {
			return nil, err
		}
		displayName = meta.title
		attrs["channel"] = meta.channel
		attrs["duration"] = meta.duration
	}

	return &driven.Extraction{
		Text:        transcript,
		DisplayName: displayName,
		Attributes:  attrs,
	}, nil
}

// ParseVideoID extracts the 11-character video ID from the common
// YouTube URL shapes: watch, youtu.be, shorts and embed links.
func ParseVideoID(location string) (string, error) {
	parsed, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("%w: not a URL: %s", domain.ErrExtraction, location)
	}

	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	switch host {
	case "youtu.be":
		if id := strings.Trim(parsed.Path, "/"); id != "" {
			return id, nil
		}
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if id := parsed.Query().Get("v"); id != "" {
			return id, nil
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if strings.HasPrefix(parsed.Path, prefix) {
				if id := strings.Trim(strings.TrimPrefix(parsed.Path, prefix), "/"); id != "" {
					return id, nil
				}
			}
		}
	}

	return "", fmt.Errorf("%w: no video ID in %s", domain.ErrExtraction, location)
}

// timedText is the transcript document served by the timed-text endpoint.
type timedText struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

func (e *Extractor) fetchTranscript(ctx context.Context, videoID string) (string, error) {
	endpoint := fmt.Sprintf("%s?lang=%s&v=%s", timedTextURL, url.QueryEscape(e.language), url.QueryEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch transcript for %s: %v", domain.ErrExtraction, videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: transcript for %s: status %d", domain.ErrExtraction, videoID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read transcript for %s: %v", domain.ErrExtraction, videoID, err)
	}

	var doc timedText
	if len(body) == 0 || xml.Unmarshal(body, &doc) != nil || len(doc.Texts) == 0 {
		return "", fmt.Errorf("%w: video %s has no %s transcript track", domain.ErrExtraction, videoID, e.language)
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		// The endpoint double-escapes entities inside the XML text nodes.
		line := strings.TrimSpace(html.UnescapeString(t.Value))
		if line != "" {
			parts = append(parts, line)
		}
	}
	transcript := strings.Join(parts, " ")
	if transcript == "" {
		return "", fmt.Errorf("%w: video %s transcript is empty", domain.ErrEmptyContent, videoID)
	}

	return transcript, nil
}

type videoMetadata struct {
	title    string
	channel  string
	duration string
}

func (e *Extractor) fetchMetadata(ctx context.Context, videoID string) (*videoMetadata, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(e.apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: create youtube service: %v", domain.ErrExtraction, err)
	}

	resp, err := svc.Videos.List([]string{"snippet", "contentDetails"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: video metadata for %s: %v", domain.ErrExtraction, videoID, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: video %s not found", domain.ErrExtraction, videoID)
	}

	item := resp.Items[0]
	return &videoMetadata{
		title:    item.Snippet.Title,
		channel:  item.Snippet.ChannelTitle,
		duration: item.ContentDetails.Duration,
	}, nil
}
