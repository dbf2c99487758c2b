// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package database

import (
	"context"
	"fmt"

	"github.com/talkboard/talkboard/internal/logging"
)

// seedTalk describes one sample talk for SeedSampleData.
type seedTalk struct {
	title    string
	duration int64
	views    int64
	date     string
	speaker  string
	topics   []string
	review   string
}

// sampleTalks is a small deterministic dataset for demos and development.
var sampleTalks = []seedTalk{
	{
		title: "The laws that sex workers really want", duration: 1070,
		views: 1811102, date: "2016-05-19", speaker: "Juno Mac",
		topics: []string{"activism"},
		review: "Clear-eyed and persuasive.",
	},
	{
		title: "Science in service to the public good", duration: 873,
		views: 872015, date: "2017-04-25", speaker: "Siddhartha Roy",
		topics: []string{"activism", "science"},
		review: "Made me rethink who science is for.",
	},
	{
		title: "Do schools kill creativity?", duration: 1164,
		views: 66301043, date: "2006-06-27", speaker: "Ken Robinson",
		topics: []string{"education", "creativity"},
	},
	{
		title: "Your body language may shape who you are", duration: 1262,
		views: 58045102, date: "2012-10-01", speaker: "Amy Cuddy",
		topics: []string{"psychology"},
	},
	{
		title: "The power of vulnerability", duration: 1219,
		views: 49304883, date: "2010-12-23", speaker: "Brené Brown",
		topics: []string{"psychology", "creativity"},
	},
}

// SeedSampleData populates an empty database with the sample dataset. It is
// a no-op when any talk already exists, so it is safe to leave enabled
// across restarts.
func (db *DB) SeedSampleData(ctx context.Context) error {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM talks`).Scan(&count); err != nil {
		return fmt.Errorf("count talks: %w", err)
	}
	if count > 0 {
		logging.Debug().Int("talks", count).Msg("database not empty, skipping seed")
		return nil
	}

	for _, st := range sampleTalks {
		speaker, _, err := db.CreateSpeaker(ctx, st.speaker, "")
		if err != nil {
			return fmt.Errorf("seed speaker %q: %w", st.speaker, err)
		}

		topicIDs := make([]int64, 0, len(st.topics))
		for _, name := range st.topics {
			topic, _, err := db.CreateTopic(ctx, name)
			if err != nil {
				return fmt.Errorf("seed topic %q: %w", name, err)
			}
			topicIDs = append(topicIDs, topic.ID)
		}

		talk, err := db.CreateTalk(ctx, CreateTalkParams{
			Title:           st.title,
			DurationSeconds: st.duration,
			Views:           st.views,
			PublishedAt:     st.date,
			SpeakerID:       speaker.ID,
			TopicIDs:        topicIDs,
		})
		if err != nil {
			return fmt.Errorf("seed talk %q: %w", st.title, err)
		}

		if st.review != "" {
			if _, err := db.CreateReview(ctx, talk.ID, st.review, nil); err != nil {
				return fmt.Errorf("seed review for %q: %w", st.title, err)
			}
		}
	}

	logging.Info().Int("talks", len(sampleTalks)).Msg("seeded sample data")
	return nil
}
