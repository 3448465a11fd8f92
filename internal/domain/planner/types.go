// Package planner turns generator milestones into persisted task rows and
// validates the add-plan payload.
package planner

import "github.com/okian/careertrack/internal/domain/model"

// MilestoneTask is one generated day (or slot) inside a milestone.
type MilestoneTask struct {
	Date    string `json:"date,omitempty"`
	Morning string `json:"morning"`
	Evening string `json:"evening"`
	XP      int    `json:"xp,omitempty"`
}

// Milestone is one generated weekly unit of study.
type Milestone struct {
	Week       int             `json:"week"`
	Title      string          `json:"title,omitempty"`
	SkillFocus string          `json:"skill_focus"`
	Tasks      []MilestoneTask `json:"tasks,omitempty"`
}

// AddPlanInput is the payload that converts a generated plan into records.
type AddPlanInput struct {
	TargetID   string           `json:"targetId"`
	TargetName string           `json:"targetName"`
	TrackType  model.TrackType  `json:"trackType"`
	Milestones []Milestone      `json:"milestones"`
	Difficulty model.Difficulty `json:"difficulty"`
}

// GenerateInput describes the plan a student asks the generator for.
type GenerateInput struct {
	TargetName string           `json:"targetName"`
	TrackType  model.TrackType  `json:"trackType"`
	Difficulty model.Difficulty `json:"difficulty"`
	Weeks      int              `json:"weeks"`
	Skills     []string         `json:"skills,omitempty"`
}
