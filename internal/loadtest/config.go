// Package loadtest drives a running server through the plan lifecycle and
// checks the XP, progress and reward bookkeeping it reports back.
package loadtest

import (
	"runtime"
	"time"

	"github.com/okian/careertrack/internal/domain/model"
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL    string           // Base URL of the service
	Students   int              // Number of students, one plan each
	Weeks      int              // Milestones per plan
	TasksPer   int              // Tasks per milestone
	Workers    int              // Number of concurrent workers
	Timeout    time.Duration    // HTTP request timeout
	Secret     string           // JWT secret; empty sends X-Student-ID instead
	Difficulty model.Difficulty // Plan difficulty
	Cleanup    bool             // Delete plans after verification
	Verbose    bool             // Log every completion
}

// DefaultConfig returns settings suitable for a local server.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:9080",
		Students:   10,
		Weeks:      4,
		TasksPer:   3,
		Workers:    runtime.NumCPU() * 2,
		Timeout:    30 * time.Second,
		Difficulty: model.DifficultyMedium,
		Cleanup:    true,
	}
}

// Stats holds run statistics.
type Stats struct {
	PlansCreated    int
	TasksSubmitted  int
	TasksCompleted  int
	TasksDuplicate  int
	TasksFailed     int
	PlansVerified   int
	RewardsUnlocked int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
