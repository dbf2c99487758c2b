// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package importer

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkboard/talkboard/internal/api"
	"github.com/talkboard/talkboard/internal/config"
	"github.com/talkboard/talkboard/internal/database"
)

// newImportTarget spins a real server backed by a throwaway database.
func newImportTarget(t *testing.T) (*database.DB, *Importer) {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "talkboard.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.ServerConfig{CORSOrigins: []string{"*"}}
	srv := httptest.NewServer(api.NewRouter(cfg, api.NewHandler(db), nil))
	t.Cleanup(srv.Close)

	return db, New(NewClient(DefaultClientConfig(srv.URL)))
}

const validCSV = `title,duration,views,date,topic,speaker
Do schools kill creativity?,1164,77000000,2006-06-27,education;creativity,Ken Robinson
Your body language may shape who you are,1262,70000000,2012-06-28,psychology,Amy Cuddy
The power of vulnerability,1219,60000000,2010-06-28,psychology,Brene Brown
`

func TestRun_ImportsAllRows(t *testing.T) {
	db, imp := newImportTarget(t)

	stats, err := imp.Run(context.Background(), strings.NewReader(validCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 3, stats.Imported)
	assert.Equal(t, 0, stats.Failed)
	assert.Empty(t, stats.Errors)

	ctx := context.Background()
	talks, err := db.ListTalks(ctx, database.TalkFilter{})
	require.NoError(t, err)
	require.Len(t, talks, 3)

	// Speakers and topics are deduplicated, not duplicated per row.
	speakers, err := db.ListSpeakers(ctx)
	require.NoError(t, err)
	assert.Len(t, speakers, 3)
	topics, err := db.ListTopics(ctx)
	require.NoError(t, err)
	assert.Len(t, topics, 3)

	// The two-topic row carries both labels.
	robinson, err := db.GetSpeakerByName(ctx, "Ken Robinson")
	require.NoError(t, err)
	hisTalks, err := db.ListTalks(ctx, database.TalkFilter{SpeakerID: robinson.ID})
	require.NoError(t, err)
	require.Len(t, hisTalks, 1)
	assert.Len(t, hisTalks[0].Topics, 2)
	assert.Equal(t, int64(77000000), hisTalks[0].Views)
	assert.Equal(t, "2006-06-27", hisTalks[0].PublishedAt)
}

func TestRun_BadRowsAreSkipped(t *testing.T) {
	db, imp := newImportTarget(t)

	csv := `title,duration,views,date,topic,speaker
Good talk,600,100,2020-01-01,tech,Good Speaker
,600,100,2020-01-01,tech,No Title
Bad duration,abc,100,2020-01-01,tech,Good Speaker
Bad date,600,100,01/02/2020,tech,Good Speaker
Another good talk,300,,,,Good Speaker
`
	stats, err := imp.Run(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Rows)
	assert.Equal(t, 2, stats.Imported)
	assert.Equal(t, 3, stats.Failed)
	require.Len(t, stats.Errors, 3)

	// Line numbers point at the file, header included.
	assert.Equal(t, 3, stats.Errors[0].Line)
	assert.Contains(t, stats.Errors[0].Message, "title")
	assert.Equal(t, 4, stats.Errors[1].Line)
	assert.Contains(t, stats.Errors[1].Message, "duration")
	assert.Equal(t, 5, stats.Errors[2].Line)
	assert.Contains(t, stats.Errors[2].Message, "date")

	talks, err := db.ListTalks(context.Background(), database.TalkFilter{})
	require.NoError(t, err)
	assert.Len(t, talks, 2)
}

func TestRun_BadHeader(t *testing.T) {
	_, imp := newImportTarget(t)

	tests := []struct {
		name string
		csv  string
	}{
		{"empty file", ""},
		{"wrong columns", "name,length,speaker\nx,1,y\n"},
		{"reordered", "speaker,title,duration,views,date,topic\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := imp.Run(context.Background(), strings.NewReader(tt.csv))
			assert.Error(t, err)
		})
	}
}

func TestRun_ServerUnreachable(t *testing.T) {
	cfg := DefaultClientConfig("http://127.0.0.1:1")
	cfg.Timeout = time.Second
	imp := New(NewClient(cfg))

	_, err := imp.Run(context.Background(), strings.NewReader(validCSV))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not reachable")
}

func TestParseRow(t *testing.T) {
	tests := []struct {
		name    string
		record  []string
		wantErr string
	}{
		{
			name:   "full row",
			record: []string{"Title", "600", "1000", "2020-05-01", "a;b;c", "Speaker"},
		},
		{
			name:   "optional fields empty",
			record: []string{"Title", "600", "", "", "", "Speaker"},
		},
		{
			name:    "missing speaker",
			record:  []string{"Title", "600", "", "", "", " "},
			wantErr: "speaker",
		},
		{
			name:    "negative views",
			record:  []string{"Title", "600", "-5", "", "", "Speaker"},
			wantErr: "views",
		},
		{
			name:    "short record",
			record:  []string{"Title", "600"},
			wantErr: "columns",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := parseRow(tt.record)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Title", row.Title)
		})
	}
}

func TestRun_LineNumbersSpanQuotedFields(t *testing.T) {
	_, imp := newImportTarget(t)

	// The first data row's quoted title spans two file lines, so the
	// rejected rows sit on file lines 4 and 5, not 3 and 4.
	csv := "title,duration,views,date,topic,speaker\n" +
		"\"A talk\nacross two lines\",600,100,2020-01-01,tech,Good Speaker\n" +
		",600,100,2020-01-01,tech,No Title\n" +
		"too,few,columns\n"

	stats, err := imp.Run(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 1, stats.Imported)
	require.Len(t, stats.Errors, 2)
	assert.Equal(t, 4, stats.Errors[0].Line)
	assert.Contains(t, stats.Errors[0].Message, "title")
	assert.Equal(t, 5, stats.Errors[1].Line)
}
