// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"docuscrub/internal/config"
	"docuscrub/internal/document"
	"docuscrub/internal/formatters"
	jsonformatter "docuscrub/internal/formatters/json"
	textformatter "docuscrub/internal/formatters/text"
	"docuscrub/internal/observability"
	"docuscrub/internal/redact"
	"docuscrub/internal/storage"
	"docuscrub/internal/version"
	"docuscrub/internal/web"
)

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string) *config.Config {
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
	}
	return cfg
}

func main() {
	filePath := flag.String("file", "", "Path of the PDF to scan")
	outputFormat := flag.String("format", "", "Output format: text, json")
	showValue := flag.Bool("show-value", false, "Display detected values instead of the redaction label")
	verbose := flag.Bool("verbose", false, "Show detailed finding context")
	debug := flag.Bool("debug", false, "Enable debug observability output")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	configFile := flag.String("config", "", "Path to configuration file")

	redactOut := flag.String("redact", "", "Write an irreversibly redacted copy to this path")
	previewPage := flag.Int("preview", 0, "Render a redaction preview of this page")
	previewOut := flag.String("preview-output", "", "Path for the preview PNG (default <file>_preview.png)")
	zoom := flag.Float64("zoom", 0, "Preview zoom factor")
	showStats := flag.Bool("stats", false, "Print redaction statistics as JSON")

	serve := flag.Bool("serve", false, "Run the HTTP API server")
	port := flag.Int("port", 0, "HTTP server port")
	dbPath := flag.String("db", "", "Path to the results database")

	showVersion := flag.Bool("version", false, "Print version information")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	cfg := loadConfiguration(*configFile)
	if *outputFormat != "" {
		cfg.Defaults.Format = *outputFormat
	}
	if *noColor {
		cfg.Defaults.NoColor = true
	}
	if *debug {
		cfg.Defaults.Debug = true
	}
	if *verbose {
		cfg.Defaults.Verbose = true
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}
	if *zoom > 0 {
		cfg.Redaction.PreviewZoom = *zoom
	}

	level := observability.ObservabilityMetrics
	if cfg.Defaults.Debug {
		level = observability.ObservabilityDebug
	}
	observer := observability.NewStandardObserver(level, os.Stderr)
	if cfg.Defaults.Debug {
		observer.DebugObserver = observability.NewDebugObserver(os.Stderr)
	}

	formatters.Register(textformatter.NewFormatter())
	formatters.Register(jsonformatter.NewFormatter())

	if *serve {
		if err := runServer(cfg, observer); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required (or use -serve)")
		flag.Usage()
		os.Exit(2)
	}

	if err := runScan(cfg, observer, scanOptions{
		filePath:    *filePath,
		showValue:   *showValue,
		redactOut:   *redactOut,
		previewPage: *previewPage,
		previewOut:  *previewOut,
		showStats:   *showStats,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type scanOptions struct {
	filePath    string
	showValue   bool
	redactOut   string
	previewPage int
	previewOut  string
	showStats   bool
}

func runScan(cfg *config.Config, observer *observability.StandardObserver, opts scanOptions) error {
	data, err := os.ReadFile(filepath.Clean(opts.filePath))
	if err != nil {
		return fmt.Errorf("reading %s: %w", opts.filePath, err)
	}

	processor := document.NewProcessor(cfg.MaxFileSizeBytes(), observer).
		WithRedactionLabel(cfg.Redaction.Label)

	var finishStep func(success bool, details string)
	if observer.DebugObserver != nil {
		finishStep = observer.DebugObserver.StartStep("cli", "scan", filepath.Base(opts.filePath))
	}
	result, err := processor.Process(data, filepath.Base(opts.filePath))
	if finishStep != nil {
		if err != nil {
			finishStep(false, err.Error())
		} else {
			finishStep(true, fmt.Sprintf("%d findings", len(result.Findings)))
		}
	}
	if err != nil {
		return err
	}

	// Colors only make sense on a terminal.
	noColor := cfg.Defaults.NoColor || !term.IsTerminal(int(os.Stdout.Fd()))

	output, err := formatters.Export(cfg.Defaults.Format, result, formatters.FormatterOptions{
		Verbose:   cfg.Defaults.Verbose,
		NoColor:   noColor,
		ShowValue: opts.showValue,
	})
	if err != nil {
		return err
	}
	fmt.Println(output)

	redactor := redact.NewRedactor(observer).WithBorderExpand(cfg.Redaction.BorderExpand)

	if opts.redactOut != "" {
		redacted, err := redactor.Redact(data, result.Findings)
		if err != nil {
			return fmt.Errorf("redacting %s: %w", opts.filePath, err)
		}
		if err := os.WriteFile(opts.redactOut, redacted, 0o600); err != nil {
			return fmt.Errorf("writing redacted file: %w", err)
		}
		fmt.Printf("Redacted document written to %s\n", opts.redactOut)
	}

	if opts.previewPage > 0 {
		png, err := redactor.Preview(data, result.Findings, opts.previewPage, cfg.Redaction.PreviewZoom)
		if err != nil {
			return fmt.Errorf("rendering preview: %w", err)
		}
		out := opts.previewOut
		if out == "" {
			base := strings.TrimSuffix(opts.filePath, filepath.Ext(opts.filePath))
			out = fmt.Sprintf("%s_preview_p%d.png", base, opts.previewPage)
		}
		if err := os.WriteFile(out, png, 0o600); err != nil {
			return fmt.Errorf("writing preview: %w", err)
		}
		fmt.Printf("Preview written to %s\n", out)
	}

	if opts.showStats {
		stats := redact.Statistics(result.Findings)
		encoded, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding statistics: %w", err)
		}
		fmt.Println(string(encoded))
	}

	return nil
}

func runServer(cfg *config.Config, observer *observability.StandardObserver) error {
	store, err := storage.NewSQLiteStorage(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	server := web.NewServer(cfg, store, observer)
	fmt.Printf("Listening on %s:%d\n", cfg.Server.Host, cfg.Server.Port)
	return server.Run()
}
