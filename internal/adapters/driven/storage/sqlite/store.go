package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.ragchat/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragchat", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SourceStore returns a SourceStore interface backed by this store.
func (s *Store) SourceStore() driven.SourceStore {
	return &sourceStore{store: s}
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Source Store ====================

// sourceStore implements driven.SourceStore.
type sourceStore struct {
	store *Store
}

var _ driven.SourceStore = (*sourceStore)(nil)

// Save stores or replaces a source record.
func (s *sourceStore) Save(ctx context.Context, source *domain.Source) error {
	if source == nil || source.ID == "" {
		return domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	if source.CreatedAt.IsZero() {
		source.CreatedAt = now
	}
	source.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sources
			(id, kind, display_name, location, content_hash, status, error,
			 chunk_count, token_count, attempts, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			display_name = excluded.display_name,
			location = excluded.location,
			content_hash = excluded.content_hash,
			status = excluded.status,
			error = excluded.error,
			chunk_count = excluded.chunk_count,
			token_count = excluded.token_count,
			attempts = excluded.attempts,
			updated_at = excluded.updated_at
	`, source.ID, string(source.Kind), source.DisplayName, source.Location,
		source.ContentHash, string(source.Status), nullString(source.Error),
		source.ChunkCount, source.TokenCount, source.Attempts,
		source.CreatedAt, source.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving source: %w", err)
	}
	return nil
}

// Get retrieves a source by ID.
func (s *sourceStore) Get(ctx context.Context, id string) (*domain.Source, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, kind, display_name, location, content_hash, status, error,
		       chunk_count, token_count, attempts, created_at, updated_at
		FROM sources WHERE id = ?
	`, id)

	return scanSource(row)
}

// GetByContentHash finds a source whose content hashed to contentHash and
// whose status matches. An empty hash never matches anything.
func (s *sourceStore) GetByContentHash(
	ctx context.Context,
	contentHash string,
	status domain.SourceStatus,
) (*domain.Source, error) {
	if contentHash == "" {
		return nil, domain.ErrNotFound
	}

	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, kind, display_name, location, content_hash, status, error,
		       chunk_count, token_count, attempts, created_at, updated_at
		FROM sources WHERE content_hash = ? AND status = ?
		ORDER BY updated_at DESC LIMIT 1
	`, contentHash, string(status))

	return scanSource(row)
}

// List returns all sources ordered by creation time.
func (s *sourceStore) List(ctx context.Context) ([]domain.Source, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, kind, display_name, location, content_hash, status, error,
		       chunk_count, token_count, attempts, created_at, updated_at
		FROM sources ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source //nolint:prealloc // size unknown from query
	for rows.Next() {
		source, err := scanSourceRows(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, *source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}

	return sources, nil
}

// UpdateStatus advances the lifecycle state, enforcing the transition
// order. The read-check-write runs inside a transaction so concurrent
// updates cannot interleave.
func (s *sourceStore) UpdateStatus(ctx context.Context, id string, status domain.SourceStatus, errMsg string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var current string
	row := tx.QueryRowContext(ctx, "SELECT status FROM sources WHERE id = ?", id)
	if err := row.Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("reading source status: %w", err)
	}

	if !domain.SourceStatus(current).CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current, status)
	}

	var errVal interface{}
	if status == domain.StatusFailed && errMsg != "" {
		errVal = errMsg
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE sources SET status = ?, error = ?, updated_at = ? WHERE id = ?
	`, string(status), errVal, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating source status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// UpdateResult records the outcome statistics of a successful run.
func (s *sourceStore) UpdateResult(ctx context.Context, id string, contentHash string, chunkCount, tokenCount int) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE sources SET content_hash = ?, chunk_count = ?, token_count = ?, updated_at = ?
		WHERE id = ?
	`, contentHash, chunkCount, tokenCount, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating source result: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementAttempts bumps the ingestion attempt counter.
func (s *sourceStore) IncrementAttempts(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE sources SET attempts = attempts + 1, updated_at = ? WHERE id = ?
	`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("incrementing attempts: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a source record.
func (s *sourceStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// SaveChunks replaces all cached chunks for a source in one transaction.
func (s *chunkStore) SaveChunks(ctx context.Context, sourceID string, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE source_id = ?", sourceID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, source_id, content, token_count, position)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ID, sourceID, chunk.Text,
			chunk.TokenCount, chunk.Position); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunks returns a source's cached chunks ordered by position.
func (s *chunkStore) GetChunks(ctx context.Context, sourceID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_id, content, token_count, position
		FROM chunks WHERE source_id = ?
		ORDER BY position
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		if err := rows.Scan(&chunk.ID, &chunk.SourceID, &chunk.Text,
			&chunk.TokenCount, &chunk.Position); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// DeleteChunks drops every cached chunk for a source.
func (s *chunkStore) DeleteChunks(ctx context.Context, sourceID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM chunks WHERE source_id = ?", sourceID)
	if err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// scanSource scans a single source row.
func scanSource(row *sql.Row) (*domain.Source, error) {
	var source domain.Source
	var kind, status string
	var errMsg sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&source.ID, &kind, &source.DisplayName, &source.Location,
		&source.ContentHash, &status, &errMsg,
		&source.ChunkCount, &source.TokenCount, &source.Attempts,
		&createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning source: %w", err)
	}

	source.Kind = domain.OriginKind(kind)
	source.Status = domain.SourceStatus(status)
	source.Error = errMsg.String
	if createdAt.Valid {
		source.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		source.UpdatedAt = updatedAt.Time
	}

	return &source, nil
}

// scanSourceRows scans a source from *sql.Rows.
func scanSourceRows(rows *sql.Rows) (*domain.Source, error) {
	var source domain.Source
	var kind, status string
	var errMsg sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := rows.Scan(&source.ID, &kind, &source.DisplayName, &source.Location,
		&source.ContentHash, &status, &errMsg,
		&source.ChunkCount, &source.TokenCount, &source.Attempts,
		&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning source: %w", err)
	}

	source.Kind = domain.OriginKind(kind)
	source.Status = domain.SourceStatus(status)
	source.Error = errMsg.String
	if createdAt.Valid {
		source.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		source.UpdatedAt = updatedAt.Time
	}

	return &source, nil
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
