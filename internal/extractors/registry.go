package extractors

import (
	"fmt"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry resolves extractors by origin kind. The mapping is built
// explicitly at construction; there is no reflective dispatch.
type Registry struct {
	byKind map[domain.OriginKind]driven.Extractor
}

// NewRegistry builds a registry over the given extractors, keyed by
// their declared kind. Registering two extractors for the same kind
// keeps the last one.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{
		byKind: make(map[domain.OriginKind]driven.Extractor, len(extractors)),
	}
	for _, e := range extractors {
		r.byKind[e.Kind()] = e
	}
	return r
}

// ForKind returns the extractor registered for kind.
func (r *Registry) ForKind(kind domain.OriginKind) (driven.Extractor, error) {
	e, ok := r.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no extractor for origin kind %q", domain.ErrUnsupportedType, kind)
	}
	return e, nil
}
