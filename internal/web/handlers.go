// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docuscrub/internal/document"
	"docuscrub/internal/redact"
	"docuscrub/internal/storage"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only PDF files are supported"})
		return
	}
	if fileHeader.Size > int64(s.cfg.MaxFileSizeBytes()) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file exceeds %d MB limit", s.cfg.Limits.MaxFileSizeMB),
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read upload"})
		return
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read upload"})
		return
	}

	result, err := s.processor.Process(data, filepath.Base(fileHeader.Filename))
	if err != nil {
		s.writeProcessError(c, err)
		return
	}

	id := uuid.NewString()
	if err := s.store.SaveResult(c.Request.Context(), id, result, data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store result"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       id,
		"filename": result.Filename,
		"status":   result.Status,
		"summary":  result.Summary(),
		"findings": result.Findings,
	})
}

func (s *Server) handleListDocuments(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	docs, err := s.store.ListDocuments(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list documents"})
		return
	}
	if docs == nil {
		docs = []storage.DocumentRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs, "limit": limit, "offset": offset})
}

func (s *Server) handleGetDocument(c *gin.Context) {
	rec, err := s.store.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleDeleteDocument(c *gin.Context) {
	if err := s.store.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// handleRedacted serves the irreversibly redacted document, producing and
// caching it on first request.
func (s *Server) handleRedacted(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	redacted, err := s.store.GetRedacted(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		rec, err := s.store.GetDocument(ctx, id)
		if err != nil {
			s.writeStoreError(c, err)
			return
		}

		data, err := s.store.GetDocumentData(ctx, id)
		if err != nil {
			s.writeStoreError(c, err)
			return
		}
		findings, err := s.store.GetDocumentFindings(ctx, id)
		if err != nil {
			s.writeStoreError(c, err)
			return
		}

		redacted, err = s.redactor.Redact(data, findings)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("redaction failed: %v", err)})
			return
		}
		if err := s.store.SaveRedacted(ctx, id, redacted); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store redacted document"})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", redactedName(rec.Filename)))
		c.Data(http.StatusOK, "application/pdf", redacted)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load redacted document"})
		return
	}

	rec, err := s.store.GetDocument(ctx, id)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", redactedName(rec.Filename)))
	c.Data(http.StatusOK, "application/pdf", redacted)
}

func (s *Server) handlePreview(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	page := intQuery(c, "page", 1)
	zoom, err := strconv.ParseFloat(c.DefaultQuery("zoom", "0"), 64)
	if err != nil || zoom < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zoom"})
		return
	}
	if zoom == 0 {
		zoom = s.cfg.Redaction.PreviewZoom
	}

	data, err := s.store.GetDocumentData(ctx, id)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	findings, err := s.store.GetDocumentFindings(ctx, id)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}

	png, err := s.redactor.Preview(data, findings, page, zoom)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("preview failed: %v", err)})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) handleStatistics(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	// Confirm the document exists so stats for an unknown id are a 404
	// rather than an empty report.
	if _, err := s.store.GetDocument(ctx, id); err != nil {
		s.writeStoreError(c, err)
		return
	}

	findings, err := s.store.GetDocumentFindings(ctx, id)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, redact.Statistics(findings))
}

func (s *Server) handleFindings(c *gin.Context) {
	filter := storage.FindingFilter{
		DocumentID: c.Query("document_id"),
		Type:       c.Query("type"),
		Page:       intQuery(c, "page", 0),
		Limit:      intQuery(c, "limit", 100),
		Offset:     intQuery(c, "offset", 0),
	}

	records, total, err := s.store.GetFindings(c.Request.Context(), filter)
	if err != nil {
		if strings.Contains(err.Error(), "unknown finding type") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query findings"})
		return
	}
	if records == nil {
		records = []storage.FindingRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"findings": records,
		"total":    total,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})
}

func (s *Server) writeProcessError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, document.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, document.ErrEncrypted), errors.Is(err, document.ErrCorrupt):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) writeStoreError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func redactedName(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + "_redacted" + ext
}
