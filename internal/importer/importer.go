// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

// Package importer loads talks into a running Talkboard server from a CSV
// file. Rows are pushed through the JSON API one at a time; a bad row is
// recorded and skipped, the rest of the file still imports.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/talkboard/talkboard/internal/logging"
)

// expectedHeader is the required first row of the CSV file.
var expectedHeader = []string{"title", "duration", "views", "date", "topic", "speaker"}

// topicSeparator splits multiple topics inside the topic column.
const topicSeparator = ";"

// RowError records one rejected CSV row.
type RowError struct {
	// Line is the 1-based line number in the file, header included.
	Line    int
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Stats summarizes an import run.
type Stats struct {
	Rows     int
	Imported int
	Failed   int
	Errors   []RowError
}

// Importer streams a CSV file into a Talkboard server.
type Importer struct {
	client *Client

	// Name caches avoid re-posting speakers and topics that repeat
	// across rows.
	speakerIDs map[string]int64
	topicIDs   map[string]int64
}

// New creates an importer around the given client.
func New(client *Client) *Importer {
	return &Importer{
		client:     client,
		speakerIDs: make(map[string]int64),
		topicIDs:   make(map[string]int64),
	}
}

// Run reads CSV rows from r and imports them. It returns the per-row
// outcome; the error return is reserved for failures that abort the whole
// run, such as a malformed header or an unreachable server.
func (imp *Importer) Run(ctx context.Context, r io.Reader) (*Stats, error) {
	if err := imp.client.Health(ctx); err != nil {
		return nil, fmt.Errorf("server not reachable: %w", err)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	stats := &Stats{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		stats.Rows++
		if err != nil {
			stats.fail(recordLine(reader, record, err), err.Error())
			continue
		}

		line, _ := reader.FieldPos(0)
		if err := imp.importRow(ctx, record); err != nil {
			stats.fail(line, err.Error())
			logging.Warn().Int("line", line).Err(err).Msg("row skipped")
			continue
		}
		stats.Imported++
	}

	logging.Info().
		Int("rows", stats.Rows).
		Int("imported", stats.Imported).
		Int("failed", stats.Failed).
		Msg("import finished")
	return stats, nil
}

// recordLine resolves the file line of the record most recently read. A
// running counter would drift once a quoted field spans lines, so the
// position comes from the reader itself.
func recordLine(reader *csv.Reader, record []string, err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.StartLine
	}
	if len(record) > 0 {
		line, _ := reader.FieldPos(0)
		return line
	}
	return 0
}

func (s *Stats) fail(line int, msg string) {
	s.Failed++
	s.Errors = append(s.Errors, RowError{Line: line, Message: msg})
}

func checkHeader(header []string) error {
	if len(header) != len(expectedHeader) {
		return fmt.Errorf("bad header: expected %d columns, got %d", len(expectedHeader), len(header))
	}
	for i, want := range expectedHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return fmt.Errorf("bad header: column %d is %q, expected %q", i+1, header[i], want)
		}
	}
	return nil
}

// row is one parsed CSV record.
type row struct {
	Title    string
	Duration int64
	Views    int64
	Date     string
	Topics   []string
	Speaker  string
}

func parseRow(record []string) (*row, error) {
	if len(record) != len(expectedHeader) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(expectedHeader), len(record))
	}

	r := &row{
		Title:   strings.TrimSpace(record[0]),
		Date:    strings.TrimSpace(record[3]),
		Speaker: strings.TrimSpace(record[5]),
	}
	if r.Title == "" {
		return nil, fmt.Errorf("title must not be empty")
	}
	if r.Speaker == "" {
		return nil, fmt.Errorf("speaker must not be empty")
	}

	duration, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
	if err != nil || duration <= 0 {
		return nil, fmt.Errorf("duration must be a positive integer, got %q", record[1])
	}
	r.Duration = duration

	viewsRaw := strings.TrimSpace(record[2])
	if viewsRaw != "" {
		views, err := strconv.ParseInt(viewsRaw, 10, 64)
		if err != nil || views < 0 {
			return nil, fmt.Errorf("views must be a non-negative integer, got %q", record[2])
		}
		r.Views = views
	}

	if r.Date != "" {
		if _, err := time.Parse("2006-01-02", r.Date); err != nil {
			return nil, fmt.Errorf("date must be YYYY-MM-DD, got %q", r.Date)
		}
	}

	for _, topic := range strings.Split(record[4], topicSeparator) {
		topic = strings.TrimSpace(topic)
		if topic != "" {
			r.Topics = append(r.Topics, topic)
		}
	}
	return r, nil
}

func (imp *Importer) importRow(ctx context.Context, record []string) error {
	parsed, err := parseRow(record)
	if err != nil {
		return err
	}

	speakerID, err := imp.speakerID(ctx, parsed.Speaker)
	if err != nil {
		return fmt.Errorf("speaker %q: %w", parsed.Speaker, err)
	}

	topicIDs := make([]int64, 0, len(parsed.Topics))
	for _, name := range parsed.Topics {
		id, err := imp.topicID(ctx, name)
		if err != nil {
			return fmt.Errorf("topic %q: %w", name, err)
		}
		topicIDs = append(topicIDs, id)
	}

	_, err = imp.client.CreateTalk(ctx, TalkPayload{
		Title:           parsed.Title,
		DurationSeconds: parsed.Duration,
		Views:           parsed.Views,
		PublishedAt:     parsed.Date,
		SpeakerID:       speakerID,
		TopicIDs:        topicIDs,
	})
	return err
}

func (imp *Importer) speakerID(ctx context.Context, name string) (int64, error) {
	if id, ok := imp.speakerIDs[name]; ok {
		return id, nil
	}
	speaker, err := imp.client.EnsureSpeaker(ctx, name)
	if err != nil {
		return 0, err
	}
	imp.speakerIDs[name] = speaker.ID
	return speaker.ID, nil
}

func (imp *Importer) topicID(ctx context.Context, name string) (int64, error) {
	if id, ok := imp.topicIDs[name]; ok {
		return id, nil
	}
	topic, err := imp.client.EnsureTopic(ctx, name)
	if err != nil {
		return 0, err
	}
	imp.topicIDs[name] = topic.ID
	return topic.ID, nil
}
