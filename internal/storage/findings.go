// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"docuscrub/internal/detector"
)

// FindingRecord is a stored finding with its owning document.
type FindingRecord struct {
	ID         int64                `json:"id"`
	DocumentID string               `json:"document_id"`
	Kind       detector.FindingKind `json:"-"`
	Type       string               `json:"type"`
	Value      string               `json:"value"`
	PageNumber int                  `json:"page_number"`
	Start      int                  `json:"start_pos"`
	End        int                  `json:"end_pos"`
	Confidence float64              `json:"confidence"`
	Context    string               `json:"context"`
	Label      string               `json:"redaction_label"`
}

// FindingFilter narrows a findings query. Zero values mean "no filter";
// Limit 0 selects the default page size and a negative Limit disables
// pagination.
type FindingFilter struct {
	DocumentID string
	Type       string
	Page       int
	Limit      int
	Offset     int
}

func (s *SQLiteStorage) saveFindingsTx(ctx context.Context, tx *sql.Tx, documentID string, findings []detector.PageFinding) error {
	if len(findings) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO findings (document_id, type, value, page_number, start_pos, end_pos, confidence, context, redaction_label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range findings {
		_, err = stmt.ExecContext(ctx,
			documentID,
			f.Kind.String(),
			f.Value,
			f.PageNumber,
			f.Start,
			f.End,
			f.Confidence,
			f.Context,
			f.RedactionLabel,
		)
		if err != nil {
			return fmt.Errorf("failed to insert finding: %w", err)
		}
	}
	return nil
}

// GetFindings returns findings matching the filter plus the total match
// count before pagination.
func (s *SQLiteStorage) GetFindings(ctx context.Context, filter FindingFilter) ([]FindingRecord, int, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.DocumentID != "" {
		conds = append(conds, "document_id = ?")
		args = append(args, filter.DocumentID)
	}
	if filter.Type != "" {
		if _, ok := detector.ParseKind(filter.Type); !ok {
			return nil, 0, fmt.Errorf("unknown finding type %q", filter.Type)
		}
		conds = append(conds, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.Page > 0 {
		conds = append(conds, "page_number = ?")
		args = append(args, filter.Page)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM findings"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count findings: %w", err)
	}

	// SQLite treats LIMIT -1 as unlimited.
	limit := filter.Limit
	if limit == 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, document_id, type, value, page_number, start_pos, end_pos, confidence, context, redaction_label
		FROM findings` + where + `
		ORDER BY document_id, page_number, start_pos, id
		LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query findings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []FindingRecord
	for rows.Next() {
		var rec FindingRecord
		if err := rows.Scan(&rec.ID, &rec.DocumentID, &rec.Type, &rec.Value, &rec.PageNumber,
			&rec.Start, &rec.End, &rec.Confidence, &rec.Context, &rec.Label); err != nil {
			return nil, 0, fmt.Errorf("failed to scan finding: %w", err)
		}
		if kind, ok := detector.ParseKind(rec.Type); ok {
			rec.Kind = kind
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

// GetDocumentFindings returns every finding of one document as page-stamped
// detector findings, ready for redaction.
func (s *SQLiteStorage) GetDocumentFindings(ctx context.Context, documentID string) ([]detector.PageFinding, error) {
	records, _, err := s.GetFindings(ctx, FindingFilter{DocumentID: documentID, Limit: -1})
	if err != nil {
		return nil, err
	}

	findings := make([]detector.PageFinding, 0, len(records))
	for _, rec := range records {
		findings = append(findings, detector.PageFinding{
			Finding: detector.Finding{
				Kind:           rec.Kind,
				Value:          rec.Value,
				Start:          rec.Start,
				End:            rec.End,
				Confidence:     rec.Confidence,
				Context:        rec.Context,
				RedactionLabel: rec.Label,
			},
			PageNumber: rec.PageNumber,
		})
	}
	return findings, nil
}
