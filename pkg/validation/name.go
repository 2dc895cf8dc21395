// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation for player-facing identifiers.
//
// This package contains validators for user-provided inputs that end up in
// broadcast payloads and registry lookups. The rules are deliberately
// narrow: display names and room codes are the only free-form strings the
// game accepts from clients.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// namePattern matches valid player display names.
// Allows: letters, digits, spaces, hyphens, underscores.
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)

// codePattern matches room codes: six uppercase alphanumerics, with up to
// two extra digits from the timestamp fallback on generator exhaustion.
var codePattern = regexp.MustCompile(`^[A-Z0-9]{6,8}$`)

// Display name length bounds.
const (
	MinNameLength = 2
	MaxNameLength = 20
)

// ValidatePlayerName checks a display name against the game's rules:
// 2-20 characters after trimming, letters/digits/spaces/hyphens/underscores
// only. Returns a human-readable error suitable for direct display.
func ValidatePlayerName(name string) error {
	trimmed := strings.TrimSpace(name)

	if len(trimmed) < MinNameLength {
		return fmt.Errorf("name must be at least %d characters", MinNameLength)
	}
	if len(trimmed) > MaxNameLength {
		return fmt.Errorf("name must be %d characters or less", MaxNameLength)
	}
	if !namePattern.MatchString(trimmed) {
		return fmt.Errorf("name can only contain letters, numbers, spaces, hyphens, and underscores")
	}
	return nil
}

// SanitizePlayerName trims and validates a display name, returning the
// trimmed form.
func SanitizePlayerName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if err := ValidatePlayerName(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

// DefaultPlayerName returns the fallback name for the player at the given
// zero-based join position.
func DefaultPlayerName(index int) string {
	return fmt.Sprintf("Player %d", index+1)
}

// NormalizeRoomCode uppercases and trims a room code without validating it;
// lookup decides whether the room exists.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateRoomCode checks the shape of a room code (6 uppercase
// alphanumerics, or up to 8 for timestamp-suffixed fallback codes).
func ValidateRoomCode(code string) error {
	if !codePattern.MatchString(code) {
		return fmt.Errorf("invalid room code format: %q", code)
	}
	return nil
}
