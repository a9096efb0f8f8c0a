// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"docuscrub/internal/document"
)

// DocumentRecord is a stored document's metadata.
type DocumentRecord struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	Status           string    `json:"status"`
	PageCount        int       `json:"page_count"`
	FileSize         int       `json:"file_size"`
	ProcessingTimeMs float64   `json:"processing_time_ms"`
	FindingCount     int       `json:"finding_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// SaveResult stores a processing result with the original document bytes.
// The result's findings are written in the same transaction, so a document
// row never exists without its findings.
func (s *SQLiteStorage) SaveResult(ctx context.Context, id string, result *document.Result, pdfData []byte) error {
	if id == "" {
		return fmt.Errorf("id must not be empty")
	}
	if result == nil {
		return fmt.Errorf("result must not be nil")
	}
	if pdfData == nil {
		pdfData = []byte{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, filename, status, page_count, file_size, processing_time_ms, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, result.Filename, result.Status, result.PageCount, result.FileSize, result.ProcessingTimeMs, pdfData)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	if err := s.saveFindingsTx(ctx, tx, id, result.Findings); err != nil {
		return err
	}

	return tx.Commit()
}

// SaveRedacted stores the redacted bytes for an existing document.
func (s *SQLiteStorage) SaveRedacted(ctx context.Context, id string, redacted []byte) error {
	res, err := s.db.ExecContext(ctx, `UPDATE documents SET redacted = ? WHERE id = ?`, redacted, id)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetDocument returns a stored document's metadata.
func (s *SQLiteStorage) GetDocument(ctx context.Context, id string) (*DocumentRecord, error) {
	var rec DocumentRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT d.id, d.filename, d.status, d.page_count, d.file_size, d.processing_time_ms, d.created_at,
		       (SELECT COUNT(*) FROM findings f WHERE f.document_id = d.id)
		FROM documents d WHERE d.id = ?
	`, id).Scan(&rec.ID, &rec.Filename, &rec.Status, &rec.PageCount, &rec.FileSize,
		&rec.ProcessingTimeMs, &rec.CreatedAt, &rec.FindingCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return &rec, nil
}

// GetDocumentData returns the original bytes of a stored document.
func (s *SQLiteStorage) GetDocumentData(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM documents WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document data: %w", err)
	}
	return data, nil
}

// GetRedacted returns the redacted bytes of a stored document. ErrNotFound
// covers both a missing document and one that has not been redacted yet.
func (s *SQLiteStorage) GetRedacted(ctx context.Context, id string) ([]byte, error) {
	var redacted []byte
	err := s.db.QueryRowContext(ctx, `SELECT redacted FROM documents WHERE id = ?`, id).Scan(&redacted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query redacted data: %w", err)
	}
	if redacted == nil {
		return nil, fmt.Errorf("document %s has no redacted version: %w", id, ErrNotFound)
	}
	return redacted, nil
}

// ListDocuments returns stored documents newest first.
func (s *SQLiteStorage) ListDocuments(ctx context.Context, limit, offset int) ([]DocumentRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.filename, d.status, d.page_count, d.file_size, d.processing_time_ms, d.created_at,
		       (SELECT COUNT(*) FROM findings f WHERE f.document_id = d.id)
		FROM documents d
		ORDER BY d.created_at DESC, d.id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []DocumentRecord
	for rows.Next() {
		var rec DocumentRecord
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.Status, &rec.PageCount, &rec.FileSize,
			&rec.ProcessingTimeMs, &rec.CreatedAt, &rec.FindingCount); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteDocument removes a document and its findings.
func (s *SQLiteStorage) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}
