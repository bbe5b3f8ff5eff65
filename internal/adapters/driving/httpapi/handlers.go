package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driving"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/extractors"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/logger"
)

const (
	// maxUploadBytes caps document uploads.
	maxUploadBytes = 100 << 20

	// maxJSONBytes caps JSON request bodies.
	maxJSONBytes = 1 << 20

	// multipartMemory is how much of a parsed upload stays in memory.
	multipartMemory = 32 << 20
)

type sourcePayload struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	DisplayName string    `json:"display_name"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	ChunkCount  int       `json:"chunk_count"`
	TokenCount  int       `json:"token_count"`
	Attempts    int       `json:"attempts"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toSourcePayload(src *domain.Source) sourcePayload {
	return sourcePayload{
		ID:          src.ID,
		Kind:        src.Kind.String(),
		DisplayName: src.DisplayName,
		Location:    src.Location,
		Status:      src.Status.String(),
		Error:       src.Error,
		ChunkCount:  src.ChunkCount,
		TokenCount:  src.TokenCount,
		Attempts:    src.Attempts,
		CreatedAt:   src.CreatedAt,
		UpdatedAt:   src.UpdatedAt,
	}
}

type submitResponse struct {
	SourceID string `json:"source_id"`
	Status   string `json:"status"`
}

type createLinkRequest struct {
	URL  string `json:"url"`
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// handleCreateSource accepts a multipart document upload or a JSON link
// submission and responds 202 once the source is registered; ingestion
// continues in the background.
func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		s.createFromUpload(w, r)
		return
	}
	s.createFromLink(w, r)
}

func (s *Server) createFromUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart request: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		writeError(w, http.StatusBadRequest, "upload has no usable file name")
		return
	}

	stored, err := s.storeUpload(file, name)
	if err != nil {
		logger.Error("storing upload %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	src, err := s.ingestor.Submit(r.Context(), driving.SubmitRequest{
		Kind:        domain.OriginDocument,
		Location:    stored,
		DisplayName: r.FormValue("name"),
	})
	if err != nil {
		// The stored copy belongs to this submission only; nothing else
		// references it on a rejected submit.
		os.Remove(stored)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, submitResponse{SourceID: src.ID, Status: src.Status.String()})
}

// storeUpload copies an upload into the upload directory under a
// collision-free name. Document identity keys on content, so the same
// file stored twice still maps to one source.
func (s *Server) storeUpload(file io.Reader, name string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}

	dst := filepath.Join(s.uploadDir, uuid.NewString()[:8]+"_"+name)
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(dst)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", err
	}

	return dst, nil
}

func (s *Server) createFromLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	kind := domain.OriginKind(req.Kind)
	if req.Kind == "" {
		kind = extractors.KindFor(url)
	}
	if !kind.IsValid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown kind %q", req.Kind))
		return
	}
	if kind == domain.OriginDocument {
		writeError(w, http.StatusBadRequest, "documents must be uploaded as multipart/form-data")
		return
	}

	src, err := s.ingestor.Submit(r.Context(), driving.SubmitRequest{
		Kind:        kind,
		Location:    url,
		DisplayName: req.Name,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, submitResponse{SourceID: src.ID, Status: src.Status.String()})
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.sources.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	payloads := make([]sourcePayload, len(sources))
	for i := range sources {
		payloads[i] = toSourcePayload(&sources[i])
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sources": payloads,
		"count":   len(payloads),
	})
}

func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	src, err := s.sources.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSourcePayload(src))
}

type chunkPayload struct {
	Position   int    `json:"position"`
	Text       string `json:"text"`
	TokenCount int    `json:"token_count"`
}

func (s *Server) handleSourceChunks(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	chunks, err := s.sources.Chunks(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	payloads := make([]chunkPayload, len(chunks))
	for i := range chunks {
		payloads[i] = chunkPayload{
			Position:   chunks[i].Position,
			Text:       chunks[i].Text,
			TokenCount: chunks[i].TokenCount,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"source_id": id,
		"chunks":    payloads,
	})
}

// handleDeleteSource responds 404 for unknown sources even though the
// underlying delete is a no-op success, so clients can tell a removal
// from a typo.
func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := s.sources.Get(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.sources.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type queryRequest struct {
	Question  string   `json:"question"`
	TopK      int      `json:"top_k"`
	SourceIDs []string `json:"source_ids"`

	// MinScore is a pointer so an omitted field means the configured
	// default while an explicit 0 means no threshold.
	MinScore *float64 `json:"min_score"`
}

type citationPayload struct {
	Number      int     `json:"number"`
	SourceID    string  `json:"source_id"`
	DisplayName string  `json:"display_name"`
	Kind        string  `json:"kind"`
	Positions   []int   `json:"positions"`
	BestScore   float64 `json:"best_score"`
}

type queryResponse struct {
	Answer    string            `json:"answer"`
	Reasoning string            `json:"reasoning,omitempty"`
	Citations []citationPayload `json:"citations"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}

	opts := domain.QueryOptions{
		TopK:      req.TopK,
		SourceIDs: req.SourceIDs,
		MinScore:  -1,
	}
	if req.MinScore != nil {
		opts.MinScore = *req.MinScore
	}

	answer, err := s.answer.Answer(r.Context(), req.Question, opts)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	citations := make([]citationPayload, len(answer.Citations))
	for i, c := range answer.Citations {
		citations[i] = citationPayload{
			Number:      c.Number,
			SourceID:    c.SourceID,
			DisplayName: c.DisplayName,
			Kind:        c.Kind.String(),
			Positions:   c.Positions,
			BestScore:   c.BestScore,
		}
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Answer:    answer.Answer,
		Reasoning: answer.Reasoning,
		Citations: citations,
	})
}

type sweepResponse struct {
	Retried   []string `json:"retried"`
	Recovered int      `json:"recovered"`
	Skipped   int      `json:"skipped"`
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	report, err := s.ingestor.Sweep(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	retried := report.Retried
	if retried == nil {
		retried = []string{}
	}

	writeJSON(w, http.StatusOK, sweepResponse{
		Retried:   retried,
		Recovered: report.Recovered,
		Skipped:   report.Skipped,
	})
}

type componentPayload struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeError(w, http.StatusServiceUnavailable, "health checks not configured")
		return
	}

	report := s.health.Check(r.Context())

	components := make([]componentPayload, len(report.Components))
	for i, c := range report.Components {
		components[i] = componentPayload{Name: c.Name, OK: c.OK, Detail: c.Detail}
	}

	status := "ok"
	code := http.StatusOK
	if !report.OK {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status":     status,
		"components": components,
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// writeDomainError maps domain errors onto HTTP status codes. Anything
// unrecognised is a 500; configuration failures stay 500 too, with the
// operator-facing message passed through.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrIngestionInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrVectorIndexUnavailable),
		domain.IsTransient(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
