package loadtest

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/okian/careertrack/internal/domain/model"
	"github.com/okian/careertrack/internal/domain/planner"
)

var skills = []string{"DSA", "System Design", "SQL", "Aptitude", "Communication"}

// buildPlan returns an add-plan payload with weeks milestones of tasksPer
// tasks each. Skills rotate so the radar has several axes.
func buildPlan(cfg Config, student string) planner.AddPlanInput {
	in := planner.AddPlanInput{
		TargetID:   uuid.NewString(),
		TargetName: "Load test target for " + student,
		TrackType:  model.TrackPlacement,
		Difficulty: cfg.Difficulty,
	}
	for w := 1; w <= cfg.Weeks; w++ {
		m := planner.Milestone{
			Week:       w,
			Title:      fmt.Sprintf("Week %d", w),
			SkillFocus: skills[(w-1)%len(skills)],
		}
		for t := 1; t <= cfg.TasksPer; t++ {
			m.Tasks = append(m.Tasks, planner.MilestoneTask{
				Morning: fmt.Sprintf("Week %d task %d reading", w, t),
				Evening: fmt.Sprintf("Week %d task %d practice", w, t),
			})
		}
		in.Milestones = append(in.Milestones, m)
	}
	return in
}
