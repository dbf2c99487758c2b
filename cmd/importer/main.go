// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

// Command importer bulk-loads talks from a CSV file into a running
// Talkboard server through its JSON API.
//
// Usage:
//
//	importer -file talks.csv -url http://localhost:8080
//
// The CSV must carry the header title,duration,views,date,topic,speaker.
// Multiple topics in one row are separated with ";". Bad rows are reported
// and skipped; the exit code is non-zero when any row failed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talkboard/talkboard/internal/importer"
	"github.com/talkboard/talkboard/internal/logging"
)

func main() {
	var (
		file     = flag.String("file", "", "path to the CSV file to import (required)")
		url      = flag.String("url", "http://localhost:8080", "base URL of the Talkboard server")
		timeout  = flag.Duration("timeout", 10*time.Second, "per-request timeout")
		logLevel = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	logging.Init(logging.Config{Level: *logLevel, Format: "console"})

	if *file == "" {
		fmt.Fprintln(os.Stderr, "missing required flag: -file")
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(*file, *url, *timeout))
}

func run(path, url string, timeout time.Duration) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := os.Open(path)
	if err != nil {
		logging.Error().Err(err).Msg("open csv file")
		return 1
	}
	defer f.Close()

	cfg := importer.DefaultClientConfig(url)
	cfg.Timeout = timeout
	imp := importer.New(importer.NewClient(cfg))

	stats, err := imp.Run(ctx, f)
	if err != nil {
		logging.Error().Err(err).Msg("import aborted")
		return 1
	}

	for _, rowErr := range stats.Errors {
		fmt.Fprintln(os.Stderr, rowErr.Error())
	}
	fmt.Printf("imported %d of %d rows (%d failed)\n", stats.Imported, stats.Rows, stats.Failed)

	if stats.Failed > 0 {
		return 1
	}
	return 0
}
