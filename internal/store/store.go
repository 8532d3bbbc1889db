// Package store persists extraction runs to SQLite so chunks can be
// queried across documents without re-running extraction.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdfsift/pdfsift/pkg/models"
	"github.com/pdfsift/pdfsift/pkg/utils"
)

type Store struct {
	db *sql.DB
}

type DocumentRecord struct {
	ID          int64
	Path        string
	Filename    string
	ContentHash string
	Status      string
	CreatedAt   string
	UpdatedAt   string
}

type ChunkRecord struct {
	ID          int64
	DocumentID  int64
	Section     string
	ChunkIndex  int
	Content     string
	ContentHash string
	Metadata    map[string]string
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// SaveRun records a document and its chunks, replacing any chunks from a
// previous run over the same path.
func (s *Store) SaveRun(ctx context.Context, pdfPath string, chunks []models.Chunk) (int64, error) {
	fileHash, err := utils.FileHash(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("failed to hash document: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (path, filename, content_hash)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_hash = excluded.content_hash,
			updated_at = datetime('now')`,
		pdfPath, filepath.Base(pdfPath), fileHash)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert document: %w", err)
	}

	// Upserts of existing rows don't report an insert id, so look it up.
	var docID int64
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE path = ?`, pdfPath).Scan(&docID); err != nil {
		return 0, fmt.Errorf("failed to resolve document id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM chunks WHERE document_id = ?`, docID); err != nil {
		return 0, fmt.Errorf("failed to clear previous chunks: %w", err)
	}

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (document_id, section, chunk_index, content, content_hash, metadata)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer insert.Close()

	for _, chunk := range chunks {
		metadata, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return 0, fmt.Errorf("failed to encode chunk metadata: %w", err)
		}
		_, err = insert.ExecContext(ctx,
			docID,
			chunk.Metadata["section"],
			chunk.ChunkIndex,
			chunk.Text,
			utils.ContentHash(chunk.Text),
			string(metadata))
		if err != nil {
			return 0, fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	return docID, nil
}

func (s *Store) Document(ctx context.Context, path string) (*DocumentRecord, error) {
	var doc DocumentRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, path, filename, content_hash, status, created_at, updated_at
		FROM documents WHERE path = ?`, path).
		Scan(&doc.ID, &doc.Path, &doc.Filename, &doc.ContentHash, &doc.Status, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) ChunksForDocument(ctx context.Context, docID int64) ([]ChunkRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, section, chunk_index, content, content_hash, metadata
		FROM chunks WHERE document_id = ?
		ORDER BY id`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []ChunkRecord
	for rows.Next() {
		var rec ChunkRecord
		var metadata string
		if err := rows.Scan(&rec.ID, &rec.DocumentID, &rec.Section, &rec.ChunkIndex,
			&rec.Content, &rec.ContentHash, &metadata); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(metadata), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode chunk metadata: %w", err)
		}
		chunks = append(chunks, rec)
	}

	return chunks, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
