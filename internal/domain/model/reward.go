package model

import "time"

// CareerReward records the moment a plan's XP first crossed a ladder tier.
// At most one row exists per (plan, threshold).
type CareerReward struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PlanID      string    `gorm:"column:plan_id;type:varchar(36);not null;uniqueIndex:idx_reward_plan_threshold,priority:1" json:"plan_id"`
	BadgeName   string    `gorm:"column:badge_name;not null" json:"badge_name"`
	BadgeIcon   string    `gorm:"column:badge_icon" json:"badge_icon"`
	XPThreshold int       `gorm:"column:xp_threshold;not null;uniqueIndex:idx_reward_plan_threshold,priority:2" json:"xp_threshold"`
	UnlockedAt  time.Time `gorm:"column:unlocked_at;not null" json:"unlocked_at"`
}

// RadarPoint is the completion rate of one skill focus. It is derived at
// read time and never stored.
type RadarPoint struct {
	Skill          string `json:"skill"`
	CompletionRate int    `json:"completion_rate"`
}
