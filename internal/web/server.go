// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package web exposes document scanning, redaction and result queries over
// an HTTP API.
package web

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"docuscrub/internal/config"
	"docuscrub/internal/document"
	"docuscrub/internal/observability"
	"docuscrub/internal/redact"
	"docuscrub/internal/storage"
)

// Server wires the processing pipeline and storage behind REST endpoints.
type Server struct {
	cfg       *config.Config
	processor *document.Processor
	redactor  *redact.Redactor
	store     *storage.SQLiteStorage
	observer  *observability.StandardObserver
}

// NewServer creates a Server over an existing storage instance.
func NewServer(cfg *config.Config, store *storage.SQLiteStorage, observer *observability.StandardObserver) *Server {
	if observer == nil {
		observer = observability.NewStandardObserver(observability.ObservabilityMetrics, nil)
	}
	return &Server{
		cfg:       cfg,
		processor: document.NewProcessor(cfg.MaxFileSizeBytes(), observer).WithRedactionLabel(cfg.Redaction.Label),
		redactor:  redact.NewRedactor(observer).WithBorderExpand(cfg.Redaction.BorderExpand),
		store:     store,
		observer:  observer,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.handleHealth)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/documents", s.handleUpload)
		v1.GET("/documents", s.handleListDocuments)
		v1.GET("/documents/:id", s.handleGetDocument)
		v1.DELETE("/documents/:id", s.handleDeleteDocument)
		v1.GET("/documents/:id/redacted", s.handleRedacted)
		v1.GET("/documents/:id/preview", s.handlePreview)
		v1.GET("/documents/:id/statistics", s.handleStatistics)
		v1.GET("/findings", s.handleFindings)
	}

	return router
}

// Run serves the API until the listener fails.
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	return s.Router().Run(addr)
}
