package model

import (
	"fmt"
	"strings"
)

// TrackType is the career track a plan prepares for.
type TrackType string

const (
	TrackHigherStudies TrackType = "higher-studies"
	TrackPlacement     TrackType = "placement"
)

// Valid reports whether t is a known track.
func (t TrackType) Valid() bool {
	return t == TrackHigherStudies || t == TrackPlacement
}

// ParseTrackType normalizes and validates s.
func ParseTrackType(s string) (TrackType, error) {
	t := TrackType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: trackType must be %q or %q", ErrValidation, TrackHigherStudies, TrackPlacement)
	}
	return t, nil
}

// Difficulty is the plan difficulty chosen at generation time.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty normalizes and validates s.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: difficulty must be one of easy, medium, hard", ErrValidation)
	}
	return d, nil
}
