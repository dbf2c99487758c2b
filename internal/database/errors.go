// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

package database

import (
	"errors"
	"strings"
)

// Sentinel errors returned by the store. Callers match them with errors.Is
// and map them to transport-level failures (404, 400, inline form errors).
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidReference indicates a referenced foreign key (a talk's
	// speaker, a review's talk, a talk's topic) does not resolve.
	ErrInvalidReference = errors.New("referenced record does not exist")

	// ErrDuplicateName indicates a rename collides with an existing
	// speaker or topic name. Creates never return it; CreateSpeaker and
	// CreateTopic resolve name collisions to the existing record.
	ErrDuplicateName = errors.New("name already in use")
)

// isUniqueConstraintError reports whether err is a SQLite UNIQUE violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyError reports whether err is a SQLite FOREIGN KEY violation.
// The store pre-checks references inside transactions for precise errors;
// this catches races between the check and the write.
func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
