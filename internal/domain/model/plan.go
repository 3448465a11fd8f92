// Package model contains the persisted career-plan records and the enums
// they carry. The structs double as GORM models.
package model

import (
	"time"

	"gorm.io/datatypes"
)

// CareerPlan is a student's plan toward one exam or company target.
// Progress, TotalXP and the streak fields are maintained by the store on
// every task completion.
type CareerPlan struct {
	ID              string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	StudentID       string     `gorm:"column:student_id;type:varchar(128);index;not null" json:"student_id"`
	TargetID        string     `gorm:"column:target_id;not null" json:"target_id"`
	TargetName      string     `gorm:"column:target_name;not null" json:"target_name"`
	TrackType       TrackType  `gorm:"column:track_type;type:varchar(32);not null" json:"track_type"`
	Difficulty      Difficulty `gorm:"column:difficulty;type:varchar(16);not null" json:"difficulty"`
	TotalXP         int        `gorm:"column:total_xp;not null;default:0" json:"total_xp"`
	CurrentStreak   int        `gorm:"column:current_streak;not null;default:0" json:"current_streak"`
	LongestStreak   int        `gorm:"column:longest_streak;not null;default:0" json:"longest_streak"`
	Progress        int        `gorm:"column:progress;not null;default:0" json:"progress"`
	LastCompletedAt *time.Time `gorm:"column:last_completed_at" json:"last_completed_at"`

	// SourceMilestones keeps the generator output the tasks were expanded from.
	SourceMilestones datatypes.JSON `gorm:"column:source_milestones" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	Tasks   []CareerTask   `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"-"`
	Rewards []CareerReward `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"-"`
}

// OwnedBy reports whether studentID owns the plan.
func (p *CareerPlan) OwnedBy(studentID string) bool {
	return p.StudentID == studentID
}
