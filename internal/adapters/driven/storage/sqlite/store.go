// Package sqlite provides the SQLite-backed metadata store: one table of
// document upload records and one table of query analytics. The embedding
// vectors themselves live in the flat-file vector store, not here.
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

	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
)

// Store is the SQLite-based metadata store.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.DocumentStore = (*Store)(nil)

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.docqa/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docqa", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// WAL mode for better concurrency between the API server and CLI.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

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

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

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
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveDocument stores or updates the metadata row for a document.
func (s *Store) SaveDocument(ctx context.Context, info domain.DocumentInfo) error {
	if info.UploadedAt.IsZero() {
		info.UploadedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (document_id, filename, file_size, pages, chunks, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			filename = excluded.filename,
			file_size = excluded.file_size,
			pages = excluded.pages,
			chunks = excluded.chunks,
			uploaded_at = excluded.uploaded_at
	`, info.DocumentID, info.Filename, info.FileSize, info.Pages, info.Chunks, info.UploadedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document's metadata by ID.
func (s *Store) GetDocument(ctx context.Context, documentID string) (*domain.DocumentInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT document_id, filename, file_size, pages, chunks, uploaded_at
		FROM documents WHERE document_id = ?
	`, documentID)

	info, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return info, nil
}

// ListDocuments returns all document metadata, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, filename, file_size, pages, chunks, uploaded_at
		FROM documents ORDER BY uploaded_at DESC, document_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var documents []domain.DocumentInfo
	for rows.Next() {
		info, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		documents = append(documents, *info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return documents, nil
}

// DeleteDocument removes a document's metadata row.
// Returns domain.ErrNotFound when no row exists.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LogQuery records one query for analytics.
func (s *Store) LogQuery(ctx context.Context, queryText string, responseTime time.Duration, chunksRetrieved int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO queries (query_text, response_time_ms, chunks_retrieved, created_at)
		VALUES (?, ?, ?, ?)
	`, queryText, float64(responseTime.Microseconds())/1000.0, chunksRetrieved, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("logging query: %w", err)
	}
	return nil
}

// Stats aggregates document totals and query analytics over the last 30 days.
func (s *Store) Stats(ctx context.Context) (*driven.UsageStats, error) {
	var stats driven.UsageStats

	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(file_size), 0), COALESCE(SUM(pages), 0), COALESCE(SUM(chunks), 0)
		FROM documents
	`)
	if err := row.Scan(&stats.TotalDocuments, &stats.TotalSizeBytes, &stats.TotalPages, &stats.TotalChunks); err != nil {
		return nil, fmt.Errorf("aggregating documents: %w", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -30)
	row = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(response_time_ms), 0)
		FROM queries WHERE created_at >= ?
	`, cutoff)
	if err := row.Scan(&stats.QueriesLast30Days, &stats.AvgResponseTimeMs); err != nil {
		return nil, fmt.Errorf("aggregating queries: %w", err)
	}

	return &stats, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.DocumentInfo, error) {
	var info domain.DocumentInfo
	var uploadedAt sql.NullTime
	if err := row.Scan(&info.DocumentID, &info.Filename, &info.FileSize,
		&info.Pages, &info.Chunks, &uploadedAt); err != nil {
		return nil, err
	}
	if uploadedAt.Valid {
		info.UploadedAt = uploadedAt.Time
	}
	return &info, nil
}
