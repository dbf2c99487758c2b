// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/talkboard/talkboard/internal/config"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(&config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "talkboard.db"),
	})
	if err != nil {
		t.Fatalf("create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close test database: %v", err)
		}
	})
	return db
}

func TestNew_CreatesSchemaAndPings(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != 1 {
		t.Errorf("schema version = %d, want 1", version)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// New already migrated once; a second run must be a no-op.
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != 1 {
		t.Errorf("schema version = %d, want 1", version)
	}
}

func TestSeedSampleData(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.SeedSampleData(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	talks, err := db.ListTalks(ctx, TalkFilter{})
	if err != nil {
		t.Fatalf("list talks: %v", err)
	}
	if len(talks) == 0 {
		t.Fatal("seed inserted no talks")
	}
	before := len(talks)

	// Seeding a non-empty database must not duplicate anything.
	if err := db.SeedSampleData(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	talks, err = db.ListTalks(ctx, TalkFilter{})
	if err != nil {
		t.Fatalf("list talks: %v", err)
	}
	if len(talks) != before {
		t.Errorf("second seed changed talk count from %d to %d", before, len(talks))
	}
}
