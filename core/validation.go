// Copyright 2025 Kotae Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"time"
)

// ValidateSupportRecord validates a SupportRecord according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - URL must not be empty
//
// NOT validated here:
//   - Vector length (the store enforces its configured dimension on upsert)
//   - Id, TitleHash, Seq (populated on ingestion)
func ValidateSupportRecord(record *SupportRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidSupportRecord)
	}

	if record.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSupportRecord, ErrEmptyTitle)
	}

	if record.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSupportRecord, ErrEmptyURL)
	}

	return nil
}

// ValidateTurn validates a conversation Turn according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - Role must be valid (User or Assistant)
//   - Timestamp must not be in the future
func ValidateTurn(turn *Turn) error {
	if turn == nil {
		return fmt.Errorf("%w: turn is nil", ErrInvalidTurn)
	}

	if turn.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTurn, ErrEmptyContent)
	}

	if err := ValidateRole(turn.Role); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTurn, err)
	}

	if !IsValidTimestamp(turn.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidTurn, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateRole validates that a Role has a valid value.
func ValidateRole(role Role) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: value %d", ErrInvalidRole, role)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
