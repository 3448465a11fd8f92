package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// DateLayout is the wire and storage format of CareerTask.ScheduledDate.
const DateLayout = "2006-01-02"

// CareerTask is one row of a plan: a morning/evening pair sharing a single
// completion flag. A nil ScheduledDate means the row is only week-grouped.
type CareerTask struct {
	ID            string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PlanID        string     `gorm:"column:plan_id;type:varchar(36);not null;index:idx_task_plan_order,priority:1" json:"plan_id"`
	WeekNumber    int        `gorm:"column:week_number;not null;index:idx_task_plan_order,priority:2" json:"week_number"`
	Position      int        `gorm:"column:position;not null;index:idx_task_plan_order,priority:3" json:"-"`
	ScheduledDate *string    `gorm:"column:scheduled_date;type:varchar(10)" json:"scheduled_date"`
	SkillFocus    string     `gorm:"column:skill_focus;not null" json:"skill_focus"`
	MorningTask   string     `gorm:"column:morning_task" json:"morning_task"`
	EveningTask   string     `gorm:"column:evening_task" json:"evening_task"`
	XPReward      int        `gorm:"column:xp_reward;not null" json:"xp_reward"`
	IsCompleted   bool       `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	CompletedAt   *time.Time `gorm:"column:completed_at" json:"completed_at"`

	// SingleTask is true when morning and evening text are the same task.
	SingleTask bool `gorm:"-" json:"single_task"`
}

// IsSingle reports whether the row holds one task rather than two.
func (t *CareerTask) IsSingle() bool {
	m, e := strings.TrimSpace(t.MorningTask), strings.TrimSpace(t.EveningTask)
	return m == e || m == "" || e == ""
}

// AfterFind fills the derived fields.
func (t *CareerTask) AfterFind(_ *gorm.DB) error {
	t.SingleTask = t.IsSingle()
	return nil
}
