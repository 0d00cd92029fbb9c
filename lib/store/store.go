// Package store persists documents and their processing results in SQLite.
// Results are replaced wholesale on each run: reprocessing a document
// deletes its previous entities and keywords before inserting the new ones,
// while the processing log keeps one JSON snapshot per run.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/inovadocs/export-compliance/lib"
)

// ErrNotFound is returned when a document id has no row.
var ErrNotFound = errors.New("document not found")

// Document is the stored record for one uploaded file.
type Document struct {
	ID            string  `json:"id"`
	Filename      string  `json:"filename"`
	ContentType   string  `json:"content_type"`
	StoredPath    string  `json:"-"`
	DeclaredType  string  `json:"declared_type,omitempty"`
	DocType       string  `json:"doc_type"`
	Language      string  `json:"language"`
	OCRConfidence float64 `json:"ocr_confidence"`
	Text          string  `json:"-"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path with WAL mode
// enabled and the schema in place.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	content_type TEXT,
	stored_path TEXT,
	declared_type TEXT,
	doc_type TEXT,
	language TEXT,
	ocr_confidence REAL DEFAULT 0,
	text TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS entities (
	document_id TEXT NOT NULL,
	type TEXT NOT NULL,
	value TEXT NOT NULL,
	confidence REAL NOT NULL,
	page INTEGER NOT NULL,
	FOREIGN KEY(document_id) REFERENCES documents(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS keywords (
	document_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	text TEXT NOT NULL,
	score REAL NOT NULL,
	PRIMARY KEY(document_id, position),
	FOREIGN KEY(document_id) REFERENCES documents(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS processing_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	document_id TEXT NOT NULL,
	result_json TEXT NOT NULL,
	processed_at TEXT NOT NULL,
	FOREIGN KEY(document_id) REFERENCES documents(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// CreateDocument inserts a new document record.
func (s *Store) CreateDocument(ctx context.Context, d Document) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO documents (id, filename, content_type, stored_path, declared_type, doc_type, language, ocr_confidence, text, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Filename, d.ContentType, d.StoredPath, d.DeclaredType,
		d.DocType, d.Language, d.OCRConfidence, d.Text, now, now)
	return err
}

// GetDocument fetches one document by id.
func (s *Store) GetDocument(ctx context.Context, id string) (Document, error) {
	var d Document
	err := s.db.QueryRowContext(ctx, `
SELECT id, filename, content_type, stored_path, declared_type, doc_type, language, ocr_confidence, text, created_at, updated_at
FROM documents WHERE id = ?`, id).Scan(
		&d.ID, &d.Filename, &d.ContentType, &d.StoredPath, &d.DeclaredType,
		&d.DocType, &d.Language, &d.OCRConfidence, &d.Text, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return d, err
}

// SaveResult replaces the stored results of one document with a fresh run
// and appends a snapshot to the processing log. The document's derived
// fields (doc_type, language) are updated in the same transaction.
func (s *Store) SaveResult(ctx context.Context, docID string, result lib.ProcessingResult) error {
	snapshot, err := json.Marshal(result)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.ExecContext(ctx, `
UPDATE documents SET doc_type = ?, language = ?, updated_at = ? WHERE id = ?`,
		result.DocType, result.Language, now, docID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	if err := replaceEntities(ctx, tx, docID, result.Entities); err != nil {
		return err
	}
	if err := replaceKeywords(ctx, tx, docID, result.Keywords); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO processing_logs (document_id, result_json, processed_at) VALUES (?, ?, ?)`,
		docID, string(snapshot), now); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceEntities(ctx context.Context, tx *sql.Tx, docID string, entities []lib.ExtractedEntity) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM entities WHERE document_id = ?`, docID); err != nil {
		return err
	}
	if len(entities) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO entities (document_id, type, value, confidence, page) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range entities {
		if _, err := stmt.ExecContext(ctx, docID, string(e.Type), e.Value, e.Confidence, e.Page); err != nil {
			return err
		}
	}
	return nil
}

func replaceKeywords(ctx context.Context, tx *sql.Tx, docID string, kws []lib.Keyword) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM keywords WHERE document_id = ?`, docID); err != nil {
		return err
	}
	if len(kws) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO keywords (document_id, position, text, score) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, kw := range kws {
		if _, err := stmt.ExecContext(ctx, docID, i, kw.Text, kw.Score); err != nil {
			return err
		}
	}
	return nil
}

// ListEntities returns the stored entities of one document.
func (s *Store) ListEntities(ctx context.Context, docID string) ([]lib.ExtractedEntity, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT type, value, confidence, page FROM entities WHERE document_id = ? ORDER BY rowid`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []lib.ExtractedEntity
	for rows.Next() {
		var e lib.ExtractedEntity
		var kind string
		if err := rows.Scan(&kind, &e.Value, &e.Confidence, &e.Page); err != nil {
			return nil, err
		}
		e.Type = lib.EntityKind(kind)
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

// ListKeywords returns the stored keywords of one document in rank order.
func (s *Store) ListKeywords(ctx context.Context, docID string) ([]lib.Keyword, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT text, score FROM keywords WHERE document_id = ? ORDER BY position`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kws []lib.Keyword
	for rows.Next() {
		var kw lib.Keyword
		if err := rows.Scan(&kw.Text, &kw.Score); err != nil {
			return nil, err
		}
		kws = append(kws, kw)
	}
	return kws, rows.Err()
}

// LatestResult returns the most recent processing snapshot for a document.
// The second return value is false when the document was never processed.
func (s *Store) LatestResult(ctx context.Context, docID string) (lib.ProcessingResult, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `
SELECT result_json FROM processing_logs WHERE document_id = ? ORDER BY id DESC LIMIT 1`, docID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return lib.ProcessingResult{}, false, nil
	}
	if err != nil {
		return lib.ProcessingResult{}, false, err
	}

	var result lib.ProcessingResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return lib.ProcessingResult{}, false, err
	}
	return result, true, nil
}

// RunCount returns how many processing runs a document has accumulated.
func (s *Store) RunCount(ctx context.Context, docID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM processing_logs WHERE document_id = ?`, docID).Scan(&n)
	return n, err
}
