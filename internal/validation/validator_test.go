// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type talkForm struct {
	Title       string `validate:"required,max=300"`
	Duration    int64  `validate:"required,gt=0"`
	PublishedAt string `validate:"omitempty,talkdate"`
	Rating      *int   `validate:"omitempty,min=1,max=5"`
}

func TestValidateStruct_Valid(t *testing.T) {
	rating := 4
	tests := []struct {
		name string
		form talkForm
	}{
		{"all fields", talkForm{Title: "A talk", Duration: 60, PublishedAt: "2016-05-19", Rating: &rating}},
		{"optional fields empty", talkForm{Title: "A talk", Duration: 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ValidateStruct(&tt.form))
		})
	}
}

func TestValidateStruct_TalkDate(t *testing.T) {
	tests := []struct {
		date string
		ok   bool
	}{
		{"2016-05-19", true},
		{"1999-12-31", true},
		{"19-05-2016", false},
		{"2016/05/19", false},
		{"2016-13-01", false},
		{"2016-02-30", false},
		{"yesterday", false},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			form := talkForm{Title: "x", Duration: 1, PublishedAt: tt.date}
			verr := ValidateStruct(&form)
			if tt.ok {
				assert.Nil(t, verr)
				return
			}
			require.NotNil(t, verr)
			assert.Contains(t, verr.Error(), "YYYY-MM-DD")
		})
	}
}

func TestValidateStruct_Messages(t *testing.T) {
	form := talkForm{Title: strings.Repeat("x", 301), Duration: 0}
	verr := ValidateStruct(&form)
	require.NotNil(t, verr)
	require.Len(t, verr.Errors(), 2)

	assert.Contains(t, verr.Error(), "Title must be at most 300")
	assert.Contains(t, verr.Error(), "Duration is required")
}

func TestToAPIError(t *testing.T) {
	// Single failure carries field and tag in the details.
	verr := ValidateStruct(&talkForm{Duration: 10})
	require.NotNil(t, verr)

	apiErr := verr.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "Title is required", apiErr.Message)
	assert.Equal(t, "Title", apiErr.Details["field"])
	assert.Equal(t, "required", apiErr.Details["tag"])

	// Multiple failures list every field.
	verr = ValidateStruct(&talkForm{})
	require.NotNil(t, verr)

	apiErr = verr.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	require.True(t, ok)
	assert.Len(t, fields, 2)
}

func TestValidateStruct_RatingBounds(t *testing.T) {
	for rating, ok := range map[int]bool{1: true, 5: true, 6: false} {
		r := rating
		form := talkForm{Title: "x", Duration: 1, Rating: &r}
		verr := ValidateStruct(&form)
		if ok {
			assert.Nil(t, verr, "rating %d", rating)
		} else {
			assert.NotNil(t, verr, "rating %d", rating)
		}
	}
}
