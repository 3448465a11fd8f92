// Package repository persists career plans, tasks and rewards through GORM.
package repository

import (
	"context"
	"time"

	"github.com/okian/careertrack/internal/domain/model"
	"github.com/okian/careertrack/internal/domain/rewards"
	"github.com/okian/careertrack/internal/domain/types"
)

// CompleteRequest carries one task completion together with the policy
// inputs the transaction needs.
type CompleteRequest struct {
	StudentID string
	PlanID    string
	TaskID    string
	At        time.Time
	Location  *time.Location
	Ladder    rewards.Ladder
}

// Store provides read/write access to career plans.
type Store interface {
	// ListPlans returns the student's plans, newest first.
	ListPlans(ctx context.Context, studentID string) ([]model.CareerPlan, error)

	// GetPlan returns one plan. Returns model.ErrNotFound if it is unknown.
	GetPlan(ctx context.Context, planID string) (model.CareerPlan, error)

	// PlanTasks returns the plan's tasks ordered by week, then generator order.
	PlanTasks(ctx context.Context, planID string) ([]model.CareerTask, error)

	// PlanRewards returns the plan's unlocked rewards ordered by threshold.
	PlanRewards(ctx context.Context, planID string) ([]model.CareerReward, error)

	// CreatePlan inserts a plan and its tasks atomically.
	CreatePlan(ctx context.Context, plan *model.CareerPlan, tasks []model.CareerTask) error

	// DeletePlan removes a plan with its tasks and rewards atomically.
	DeletePlan(ctx context.Context, studentID, planID string) error

	// CompleteTask marks a task done and updates XP, progress, streak and
	// rewards in one transaction. A task that was already done yields
	// model.ErrAlreadyCompleted together with the unchanged plan.
	CompleteTask(ctx context.Context, req CompleteRequest) (types.Completion, error)

	// Ping checks database connectivity.
	Ping(ctx context.Context) error

	// Close releases the connection pool.
	Close() error
}
