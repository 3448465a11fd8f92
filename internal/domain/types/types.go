// Package types contains the read and write shapes shared by the service
// and the HTTP layer.
package types

import (
	"github.com/okian/careertrack/internal/domain/model"
	"github.com/okian/careertrack/internal/domain/planner"
	"github.com/okian/careertrack/internal/domain/rewards"
)

// PlanDetail is the full view of one plan.
type PlanDetail struct {
	Plan       model.CareerPlan     `json:"plan"`
	Tasks      []model.CareerTask   `json:"tasks"`
	Rewards    []model.CareerReward `json:"rewards"`
	RadarData  []model.RadarPoint   `json:"radarData"`
	NextReward *rewards.Tier        `json:"next_reward"`
}

// Completion is the outcome of completing a task. AlreadyCompleted is set
// when the task was done before the call; Plan is then the unchanged plan.
type Completion struct {
	NewRewards       []model.CareerReward `json:"newRewards"`
	Plan             model.CareerPlan     `json:"plan"`
	XPAwarded        int                  `json:"xp_awarded"`
	AlreadyCompleted bool                 `json:"already_completed"`
}

// Generated wraps generator output returned to the client.
type Generated struct {
	Milestones []planner.Milestone `json:"milestones"`
}

// Stats is a snapshot of service counters since start.
type Stats struct {
	PlansCreated         int64 `json:"plans_created"`
	PlansDeleted         int64 `json:"plans_deleted"`
	PlansGenerated       int64 `json:"plans_generated"`
	TasksCompleted       int64 `json:"tasks_completed"`
	DuplicateCompletions int64 `json:"duplicate_completions"`
	XPAwarded            int64 `json:"xp_awarded"`
	RewardsUnlocked      int64 `json:"rewards_unlocked"`
	UptimeSeconds        int64 `json:"uptime_seconds"`
	GeneratorEnabled     bool  `json:"generator_enabled"`
}
