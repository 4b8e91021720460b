/*
Package sqlite provides a SQLite-backed implementation of the document archive.

PURPOSE:
  Implements xbrl.DocumentStore using SQLite, plus a log of validation runs
  against archived documents. In production, the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  xbrl.DocumentStore: Rendered documents (both encodings + definition)

KEY TABLES:
  documents:   One row per rendered report
  validations: Validator output per document (cascades on delete)

INDEXES:
  - idx_documents_created_at: Newest-first listing
  - idx_validations_document: Validation history per document

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/xbrl.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  err = store.Save(ctx, xbrl.DocumentRecord{ID: id, XML: x, JSON: j})

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - xbrl/store.go: Interface definition
  - xbrl/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/xbrl-engine/xbrl"
)

// Store implements xbrl.DocumentStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		entity TEXT NOT NULL,
		taxonomy TEXT NOT NULL,
		definition_json TEXT NOT NULL,
		xml BLOB,
		json BLOB,
		contexts INTEGER NOT NULL DEFAULT 0,
		units INTEGER NOT NULL DEFAULT 0,
		facts INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_created_at
		ON documents(created_at);

	CREATE TABLE IF NOT EXISTS validations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		rows_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_validations_document
		ON validations(document_id, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DOCUMENT STORE
// =============================================================================

// Save inserts a document or replaces the one with the same ID.
func (s *Store) Save(ctx context.Context, rec xbrl.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO documents (id, kind, entity, taxonomy, definition_json, xml, json, contexts, units, facts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			entity = excluded.entity,
			taxonomy = excluded.taxonomy,
			definition_json = excluded.definition_json,
			xml = excluded.xml,
			json = excluded.json,
			contexts = excluded.contexts,
			units = excluded.units,
			facts = excluded.facts,
			created_at = excluded.created_at
	`

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Kind, rec.Entity, rec.Taxonomy, rec.Definition,
		rec.XML, rec.JSON, rec.Contexts, rec.Units, rec.Facts,
		formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// Get retrieves a document with both encodings.
func (s *Store) Get(ctx context.Context, id string) (*xbrl.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec xbrl.DocumentRecord
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind, entity, taxonomy, definition_json, xml, json, contexts, units, facts, created_at
		FROM documents WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.Kind, &rec.Entity, &rec.Taxonomy, &rec.Definition,
		&rec.XML, &rec.JSON, &rec.Contexts, &rec.Units, &rec.Facts, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, xbrl.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}

	rec.CreatedAt = parseTime(createdAt)
	return &rec, nil
}

// List returns document summaries, newest first.
func (s *Store) List(ctx context.Context) ([]xbrl.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, entity, taxonomy, definition_json, contexts, units, facts, created_at
		FROM documents ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []xbrl.DocumentRecord
	for rows.Next() {
		var rec xbrl.DocumentRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Entity, &rec.Taxonomy, &rec.Definition,
			&rec.Contexts, &rec.Units, &rec.Facts, &createdAt); err != nil {
			return nil, err
		}
		rec.CreatedAt = parseTime(createdAt)
		docs = append(docs, rec)
	}
	return docs, rows.Err()
}

// Delete removes a document and its validation history.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return xbrl.ErrDocumentNotFound
	}
	return nil
}

var _ xbrl.DocumentStore = (*Store)(nil)

// =============================================================================
// VALIDATION RUNS
// =============================================================================

// ValidationRecord is one validator response for a document.
type ValidationRecord struct {
	ID         int64
	DocumentID string
	Rows       []string
	CreatedAt  time.Time
}

// SaveValidation records validator output for an archived document.
func (s *Store) SaveValidation(ctx context.Context, v ValidationRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rowsJSON, err := json.Marshal(v.Rows)
	if err != nil {
		return 0, err
	}
	createdAt := v.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO validations (document_id, rows_json, created_at) VALUES (?, ?, ?)",
		v.DocumentID, string(rowsJSON), formatTime(createdAt),
	)
	if isForeignKeyError(err) {
		return 0, xbrl.ErrDocumentNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to save validation: %w", err)
	}
	return res.LastInsertId()
}

// GetValidations returns the validation history of a document, oldest first.
func (s *Store) GetValidations(ctx context.Context, documentID string) ([]ValidationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, document_id, rows_json, created_at FROM validations WHERE document_id = ? ORDER BY created_at, id",
		documentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ValidationRecord
	for rows.Next() {
		var v ValidationRecord
		var rowsJSON, createdAt string
		if err := rows.Scan(&v.ID, &v.DocumentID, &rowsJSON, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(rowsJSON), &v.Rows); err != nil {
			return nil, fmt.Errorf("validation %d: %w", v.ID, err)
		}
		v.CreatedAt = parseTime(createdAt)
		result = append(result, v)
	}
	return result, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"validations", "documents"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Timestamps sort lexically in this layout.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
