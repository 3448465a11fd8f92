// Package service provides the career-plan service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/okian/careertrack/internal/adapters/repository"
	"github.com/okian/careertrack/internal/domain/model"
	"github.com/okian/careertrack/internal/domain/planner"
	"github.com/okian/careertrack/internal/domain/radar"
	"github.com/okian/careertrack/internal/domain/rewards"
	"github.com/okian/careertrack/internal/domain/types"
	"github.com/okian/careertrack/internal/domain/xp"
	"github.com/okian/careertrack/pkg/logger"
	"github.com/okian/careertrack/pkg/metrics"
)

// ErrNoStore is returned by Start when no store was configured.
var ErrNoStore = errors.New("service has no store")

// Generator drafts milestones for a target.
type Generator interface {
	Generate(ctx context.Context, in planner.GenerateInput) ([]planner.Milestone, error)
}

// Service implements the API dependencies for career plans.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	generator Generator
	ladder    rewards.Ladder
	calc      *xp.Calculator

	// Configuration
	loc *time.Location
	now func() time.Time

	// State
	started   bool
	startedAt time.Time

	plansCreated    atomic.Int64
	plansDeleted    atomic.Int64
	plansGenerated  atomic.Int64
	tasksCompleted  atomic.Int64
	duplicates      atomic.Int64
	xpAwarded       atomic.Int64
	rewardsUnlocked atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the plan store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithGenerator enables plan generation.
func WithGenerator(g Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.generator = g
		}
	}
}

// WithLadder replaces the reward ladder.
func WithLadder(l rewards.Ladder) Option {
	return func(s *Service) {
		if len(l) > 0 {
			s.ladder = rewards.New(l...)
		}
	}
}

// WithCalculator sets the XP calculator used when expanding milestones.
func WithCalculator(c *xp.Calculator) Option {
	return func(s *Service) {
		if c != nil {
			s.calc = c
		}
	}
}

// WithLocation sets the zone whose calendar days drive streaks.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		ladder: rewards.DefaultLadder(),
		calc:   xp.NewCalculator(),
		loc:    time.UTC,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start checks the store and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return ErrNoStore
	}
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "career plan service started",
		logger.String("timezone", s.loc.String()),
		logger.Int("reward_tiers", len(s.ladder)),
		logger.Bool("generator", s.generator != nil),
	)
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "career plan service stopped")
}

func requireStudent(studentID string) error {
	if strings.TrimSpace(studentID) == "" {
		return fmt.Errorf("%w: missing student id", model.ErrUnauthorized)
	}
	return nil
}

// ListPlans returns the student's plans, newest first.
func (s *Service) ListPlans(ctx context.Context, studentID string) ([]model.CareerPlan, error) {
	if err := requireStudent(studentID); err != nil {
		return nil, err
	}
	return s.store.ListPlans(ctx, studentID)
}

// ownedPlan loads planID and checks that studentID owns it.
func (s *Service) ownedPlan(ctx context.Context, studentID, planID string) (model.CareerPlan, error) {
	if err := requireStudent(studentID); err != nil {
		return model.CareerPlan{}, err
	}
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return model.CareerPlan{}, err
	}
	if !plan.OwnedBy(studentID) {
		return model.CareerPlan{}, fmt.Errorf("plan %s: %w", planID, model.ErrUnauthorized)
	}
	return plan, nil
}

// PlanDetail bundles a plan with its tasks, rewards and radar data.
func (s *Service) PlanDetail(ctx context.Context, studentID, planID string) (types.PlanDetail, error) {
	plan, err := s.ownedPlan(ctx, studentID, planID)
	if err != nil {
		return types.PlanDetail{}, err
	}
	tasks, err := s.store.PlanTasks(ctx, planID)
	if err != nil {
		return types.PlanDetail{}, err
	}
	rs, err := s.store.PlanRewards(ctx, planID)
	if err != nil {
		return types.PlanDetail{}, err
	}

	d := types.PlanDetail{
		Plan:      plan,
		Tasks:     tasks,
		Rewards:   rs,
		RadarData: radar.Aggregate(tasks),
	}
	if next, ok := s.ladder.Next(plan.TotalXP); ok {
		d.NextReward = &next
	}
	return d, nil
}

// CompleteTask marks taskID done. Completing a task twice succeeds with
// AlreadyCompleted set and awards nothing.
func (s *Service) CompleteTask(ctx context.Context, studentID, planID, taskID string) (types.Completion, error) {
	if err := requireStudent(studentID); err != nil {
		return types.Completion{}, err
	}
	if strings.TrimSpace(planID) == "" || strings.TrimSpace(taskID) == "" {
		return types.Completion{}, fmt.Errorf("%w: planId and taskId are required", model.ErrValidation)
	}

	start := time.Now()
	c, err := s.store.CompleteTask(ctx, repository.CompleteRequest{
		StudentID: studentID,
		PlanID:    planID,
		TaskID:    taskID,
		At:        s.now(),
		Location:  s.loc,
		Ladder:    s.ladder,
	})
	metrics.RecordCompletionLatency(float64(time.Since(start).Microseconds()) / 1000)

	switch {
	case errors.Is(err, model.ErrAlreadyCompleted):
		s.duplicates.Add(1)
		metrics.RecordDuplicateCompletion()
		s.logger.Debug(ctx, "task already completed",
			logger.String("plan_id", planID),
			logger.String("task_id", taskID))
		c.AlreadyCompleted = true
		c.XPAwarded = 0
		if c.NewRewards == nil {
			c.NewRewards = []model.CareerReward{}
		}
		return c, nil
	case err != nil:
		return types.Completion{}, err
	}

	s.tasksCompleted.Add(1)
	s.xpAwarded.Add(int64(c.XPAwarded))
	s.rewardsUnlocked.Add(int64(len(c.NewRewards)))
	metrics.RecordTaskCompleted(c.XPAwarded)
	for _, r := range c.NewRewards {
		metrics.RecordRewardUnlocked(r.BadgeName)
	}

	s.logger.Info(ctx, "task completed",
		logger.String("plan_id", planID),
		logger.String("task_id", taskID),
		logger.Int("xp", c.XPAwarded),
		logger.Int("total_xp", c.Plan.TotalXP),
		logger.Int("progress", c.Plan.Progress),
		logger.Int("streak", c.Plan.CurrentStreak),
		logger.Int("new_rewards", len(c.NewRewards)),
	)
	return c, nil
}

// AddPlan validates in, expands its milestones and stores the plan.
func (s *Service) AddPlan(ctx context.Context, studentID string, in planner.AddPlanInput) (model.CareerPlan, error) {
	if err := requireStudent(studentID); err != nil {
		return model.CareerPlan{}, err
	}
	if err := planner.Validate(&in); err != nil {
		return model.CareerPlan{}, err
	}

	source, err := json.Marshal(in.Milestones)
	if err != nil {
		return model.CareerPlan{}, fmt.Errorf("encode milestones: %w", err)
	}

	plan := model.CareerPlan{
		ID:               uuid.NewString(),
		StudentID:        studentID,
		TargetID:         in.TargetID,
		TargetName:       in.TargetName,
		TrackType:        in.TrackType,
		Difficulty:       in.Difficulty,
		SourceMilestones: datatypes.JSON(source),
	}
	tasks := planner.Expand(plan.ID, in, s.calc)
	if err := s.store.CreatePlan(ctx, &plan, tasks); err != nil {
		return model.CareerPlan{}, err
	}

	s.plansCreated.Add(1)
	metrics.RecordPlanCreated()
	s.logger.Info(ctx, "plan added",
		logger.String("plan_id", plan.ID),
		logger.String("target", plan.TargetName),
		logger.Int("tasks", len(tasks)),
		logger.Int("available_xp", planner.TotalXP(tasks)),
	)
	return plan, nil
}

// DeletePlan removes a plan with its tasks and rewards.
func (s *Service) DeletePlan(ctx context.Context, studentID, planID string) error {
	if err := requireStudent(studentID); err != nil {
		return err
	}
	if err := s.store.DeletePlan(ctx, studentID, planID); err != nil {
		return err
	}
	s.plansDeleted.Add(1)
	metrics.RecordPlanDeleted()
	s.logger.Info(ctx, "plan deleted", logger.String("plan_id", planID))
	return nil
}

// GeneratePlan drafts milestones for in without storing anything.
func (s *Service) GeneratePlan(ctx context.Context, studentID string, in planner.GenerateInput) (types.Generated, error) {
	if err := requireStudent(studentID); err != nil {
		return types.Generated{}, err
	}
	if s.generator == nil {
		return types.Generated{}, fmt.Errorf("%w: plan generation is not configured", model.ErrUnavailable)
	}
	if err := planner.ValidateGenerate(&in); err != nil {
		return types.Generated{}, err
	}

	ms, err := s.generator.Generate(ctx, in)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return types.Generated{}, err
		}
		return types.Generated{}, fmt.Errorf("%w: generate plan: %w", model.ErrUnavailable, err)
	}

	s.plansGenerated.Add(1)
	metrics.RecordPlanGenerated()
	return types.Generated{Milestones: ms}, nil
}

// Ping checks the store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := types.Stats{
		PlansCreated:         s.plansCreated.Load(),
		PlansDeleted:         s.plansDeleted.Load(),
		PlansGenerated:       s.plansGenerated.Load(),
		TasksCompleted:       s.tasksCompleted.Load(),
		DuplicateCompletions: s.duplicates.Load(),
		XPAwarded:            s.xpAwarded.Load(),
		RewardsUnlocked:      s.rewardsUnlocked.Load(),
		GeneratorEnabled:     s.generator != nil,
	}
	if s.started {
		st.UptimeSeconds = int64(s.now().Sub(s.startedAt).Seconds())
	}
	return st
}
