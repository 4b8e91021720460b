/*
store.go - Persistence interface for rendered documents

PURPOSE:
  Defines the interface between the API and the document archive. The
  engine itself never touches storage: a rendered document (both
  encodings plus the report definition that produced it) is handed to a
  DocumentStore after rendering succeeds.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite archive used by the server
  - xbrl/store/memory.go: In-memory archive for tests and the CLI

EXAMPLE:
  rec := xbrl.DocumentRecord{ID: id, Kind: "installation", XML: x, JSON: j}
  if err := store.Save(ctx, rec); err != nil {
      return err
  }
  got, err := store.Get(ctx, id)
  if errors.Is(err, xbrl.ErrDocumentNotFound) {
      // 404
  }

SEE ALSO:
  - api/handlers.go: Saves and serves archived documents
*/
package xbrl

import (
	"context"
	"time"
)

// =============================================================================
// DOCUMENT RECORD
// =============================================================================

// DocumentRecord is one archived rendering.
type DocumentRecord struct {
	ID       string
	Kind     string // report kind, e.g. "installation"
	Entity   string
	Taxonomy string

	// Definition is the report definition (JSON) the document was built from.
	Definition string
	XML        []byte
	JSON       []byte

	Contexts int
	Units    int
	Facts    int

	CreatedAt time.Time
}

// Summarize fills the count fields from an assembled instance.
func (r *DocumentRecord) Summarize(inst *Instance) {
	r.Contexts = len(inst.Contexts)
	r.Units = len(inst.Units)
	r.Facts = len(inst.Facts)
}

// =============================================================================
// DOCUMENT STORE
// =============================================================================

type DocumentStore interface {
	// Save persists a record. An existing record with the same ID is replaced.
	Save(ctx context.Context, rec DocumentRecord) error

	// Get returns a record or ErrDocumentNotFound.
	Get(ctx context.Context, id string) (*DocumentRecord, error)

	// List returns all records, newest first, without XML/JSON bodies.
	List(ctx context.Context) ([]DocumentRecord, error)

	// Delete removes a record or returns ErrDocumentNotFound.
	Delete(ctx context.Context, id string) error
}
