package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/careertrack/internal/domain/model"
)

// Validate normalizes in place and reports the first semantic violation
// wrapped in model.ErrValidation.
func Validate(in *AddPlanInput) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", model.ErrValidation, fmt.Sprintf(format, args...))
	}

	in.TargetID = strings.TrimSpace(in.TargetID)
	in.TargetName = strings.TrimSpace(in.TargetName)
	if in.TargetID == "" {
		return invalid("targetId is required")
	}
	if in.TargetName == "" {
		return invalid("targetName is required")
	}

	track, err := model.ParseTrackType(string(in.TrackType))
	if err != nil {
		return err
	}
	in.TrackType = track

	diff, err := model.ParseDifficulty(string(in.Difficulty))
	if err != nil {
		return err
	}
	in.Difficulty = diff

	if len(in.Milestones) == 0 {
		return invalid("milestones must not be empty")
	}
	for i := range in.Milestones {
		if err := validateMilestone(i, &in.Milestones[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateMilestone(i int, m *Milestone) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: milestones[%d]: %s", model.ErrValidation, i, fmt.Sprintf(format, args...))
	}

	m.Title = strings.TrimSpace(m.Title)
	m.SkillFocus = strings.TrimSpace(m.SkillFocus)
	if m.Week < 1 {
		return invalid("week must be >= 1")
	}
	if m.SkillFocus == "" {
		return invalid("skill_focus is required")
	}
	if len(m.Tasks) == 0 && m.Title == "" {
		return invalid("a milestone without tasks needs a title")
	}
	for j := range m.Tasks {
		t := &m.Tasks[j]
		t.Morning = strings.TrimSpace(t.Morning)
		t.Evening = strings.TrimSpace(t.Evening)
		t.Date = strings.TrimSpace(t.Date)
		if t.Morning == "" && t.Evening == "" {
			return invalid("tasks[%d]: morning or evening text is required", j)
		}
		if t.XP < 0 {
			return invalid("tasks[%d]: xp must be >= 0", j)
		}
		if t.Date != "" {
			if _, err := time.Parse(model.DateLayout, t.Date); err != nil {
				return invalid("tasks[%d]: date must be YYYY-MM-DD", j)
			}
		}
	}
	return nil
}

// ValidateGenerate normalizes a generate request.
func ValidateGenerate(in *GenerateInput) error {
	in.TargetName = strings.TrimSpace(in.TargetName)
	if in.TargetName == "" {
		return fmt.Errorf("%w: targetName is required", model.ErrValidation)
	}
	track, err := model.ParseTrackType(string(in.TrackType))
	if err != nil {
		return err
	}
	in.TrackType = track
	diff, err := model.ParseDifficulty(string(in.Difficulty))
	if err != nil {
		return err
	}
	in.Difficulty = diff
	if in.Weeks < 1 || in.Weeks > maxGenerateWeeks {
		return fmt.Errorf("%w: weeks must be between 1 and %d", model.ErrValidation, maxGenerateWeeks)
	}
	return nil
}

const maxGenerateWeeks = 52
