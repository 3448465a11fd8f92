package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/okian/careertrack/internal/domain/model"
	"github.com/okian/careertrack/internal/domain/progress"
	"github.com/okian/careertrack/internal/domain/streak"
	"github.com/okian/careertrack/internal/domain/types"
	"github.com/okian/careertrack/pkg/logger"
	"github.com/okian/careertrack/pkg/metrics"
)

// GormStore is the Store backed by PostgreSQL or SQLite.
type GormStore struct {
	db     *gorm.DB
	log    logger.Logger
	driver string
}

var _ Store = (*GormStore)(nil)

// Driver returns the database driver name.
func (s *GormStore) Driver() string { return s.driver }

func (s *GormStore) ListPlans(ctx context.Context, studentID string) ([]model.CareerPlan, error) {
	plans := []model.CareerPlan{}
	err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Order("id").
		Find(&plans).Error
	if err != nil {
		metrics.RecordStoreError("list_plans")
		return nil, translate("list plans", err)
	}
	return plans, nil
}

func (s *GormStore) GetPlan(ctx context.Context, planID string) (model.CareerPlan, error) {
	var plan model.CareerPlan
	if err := s.db.WithContext(ctx).Take(&plan, "id = ?", planID).Error; err != nil {
		return model.CareerPlan{}, translate("get plan", err)
	}
	return plan, nil
}

func (s *GormStore) PlanTasks(ctx context.Context, planID string) ([]model.CareerTask, error) {
	tasks := []model.CareerTask{}
	err := s.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("week_number").
		Order("position").
		Find(&tasks).Error
	if err != nil {
		metrics.RecordStoreError("plan_tasks")
		return nil, translate("plan tasks", err)
	}
	return tasks, nil
}

func (s *GormStore) PlanRewards(ctx context.Context, planID string) ([]model.CareerReward, error) {
	rs := []model.CareerReward{}
	err := s.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("xp_threshold").
		Find(&rs).Error
	if err != nil {
		metrics.RecordStoreError("plan_rewards")
		return nil, translate("plan rewards", err)
	}
	return rs, nil
}

func (s *GormStore) CreatePlan(ctx context.Context, plan *model.CareerPlan, tasks []model.CareerTask) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(plan).Error; err != nil {
			return err
		}
		if len(tasks) == 0 {
			return nil
		}
		for i := range tasks {
			tasks[i].PlanID = plan.ID
			if tasks[i].ID == "" {
				tasks[i].ID = uuid.NewString()
			}
		}
		return tx.CreateInBatches(tasks, 200).Error
	})
	if err != nil {
		metrics.RecordStoreError("create_plan")
		return translate("create plan", err)
	}
	return nil
}

func (s *GormStore) DeletePlan(ctx context.Context, studentID, planID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan model.CareerPlan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Take(&plan, "id = ?", planID).Error; err != nil {
			return err
		}
		if !plan.OwnedBy(studentID) {
			return fmt.Errorf("delete plan %s: %w", planID, model.ErrUnauthorized)
		}
		if err := tx.Where("plan_id = ?", planID).Delete(&model.CareerReward{}).Error; err != nil {
			return err
		}
		if err := tx.Where("plan_id = ?", planID).Delete(&model.CareerTask{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.CareerPlan{}, "id = ?", planID).Error
	})
	if err != nil {
		metrics.RecordStoreError("delete_plan")
		return translate("delete plan", err)
	}
	return nil
}

func (s *GormStore) CompleteTask(ctx context.Context, req CompleteRequest) (types.Completion, error) {
	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}
	now := req.At.UTC()
	out := types.Completion{NewRewards: []model.CareerReward{}}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The plan row lock serializes completions of the same plan.
		var plan model.CareerPlan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Take(&plan, "id = ?", req.PlanID).Error; err != nil {
			return err
		}
		if !plan.OwnedBy(req.StudentID) {
			return fmt.Errorf("complete task in plan %s: %w", req.PlanID, model.ErrUnauthorized)
		}
		out.Plan = plan

		res := tx.Model(&model.CareerTask{}).
			Where("id = ? AND plan_id = ? AND is_completed = ?", req.TaskID, req.PlanID, false).
			Updates(map[string]any{"is_completed": true, "completed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&model.CareerTask{}).
				Where("id = ? AND plan_id = ?", req.TaskID, req.PlanID).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("task %s in plan %s: %w", req.TaskID, req.PlanID, model.ErrNotFound)
			}
			out.AlreadyCompleted = true
			return model.ErrAlreadyCompleted
		}

		var task model.CareerTask
		if err := tx.Take(&task, "id = ?", req.TaskID).Error; err != nil {
			return err
		}

		var total, done int64
		if err := tx.Model(&model.CareerTask{}).Where("plan_id = ?", plan.ID).Count(&total).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.CareerTask{}).
			Where("plan_id = ? AND is_completed = ?", plan.ID, true).
			Count(&done).Error; err != nil {
			return err
		}

		plan.TotalXP += task.XPReward
		plan.Progress = progress.Percent(done, total)
		plan.CurrentStreak = streak.Advance(plan.CurrentStreak, plan.LastCompletedAt, now, loc)
		plan.LongestStreak = streak.Longest(plan.LongestStreak, plan.CurrentStreak)
		plan.LastCompletedAt = &now

		if err := tx.Model(&plan).Updates(map[string]any{
			"total_xp":          plan.TotalXP,
			"progress":          plan.Progress,
			"current_streak":    plan.CurrentStreak,
			"longest_streak":    plan.LongestStreak,
			"last_completed_at": now,
		}).Error; err != nil {
			return err
		}

		unlocked, err := s.unlockRewards(tx, plan, req, now)
		if err != nil {
			return err
		}
		out.NewRewards = unlocked
		out.Plan = plan
		out.XPAwarded = task.XPReward
		return nil
	})

	switch {
	case err == nil:
		return out, nil
	case out.AlreadyCompleted:
		return out, model.ErrAlreadyCompleted
	default:
		metrics.RecordStoreError("complete_task")
		return types.Completion{}, translate("complete task", err)
	}
}

// unlockRewards inserts a reward row for every reached tier the plan does
// not hold yet. The unique (plan_id, xp_threshold) index makes a racing
// insert a no-op, so only rows this call created are returned.
func (s *GormStore) unlockRewards(tx *gorm.DB, plan model.CareerPlan, req CompleteRequest, now time.Time) ([]model.CareerReward, error) {
	var held []int
	if err := tx.Model(&model.CareerReward{}).Where("plan_id = ?", plan.ID).Pluck("xp_threshold", &held).Error; err != nil {
		return nil, err
	}
	have := make(map[int]bool, len(held))
	for _, th := range held {
		have[th] = true
	}

	unlocked := []model.CareerReward{}
	for _, tier := range req.Ladder.Missing(plan.TotalXP, have) {
		r := model.CareerReward{
			ID:          uuid.NewString(),
			PlanID:      plan.ID,
			BadgeName:   tier.Name,
			BadgeIcon:   tier.Icon,
			XPThreshold: tier.Threshold,
			UnlockedAt:  now,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&r)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			unlocked = append(unlocked, r)
		}
	}
	return unlocked, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return translate("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return translate("ping", err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Truncate removes every row from the plan tables. Used by tests that share
// one database across cases.
func (s *GormStore) Truncate(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&model.CareerReward{}, &model.CareerTask{}, &model.CareerPlan{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translate("truncate", err)
}
