package planner

import (
	"github.com/google/uuid"

	"github.com/okian/careertrack/internal/domain/model"
	"github.com/okian/careertrack/internal/domain/xp"
)

// Expand converts validated milestones into task rows for planID, one row
// per milestone task in input order. A milestone without tasks becomes a
// single row carrying its title.
func Expand(planID string, in AddPlanInput, calc *xp.Calculator) []model.CareerTask {
	var tasks []model.CareerTask
	pos := 0
	add := func(m Milestone, t MilestoneTask) {
		row := model.CareerTask{
			ID:          uuid.NewString(),
			PlanID:      planID,
			WeekNumber:  m.Week,
			Position:    pos,
			SkillFocus:  m.SkillFocus,
			MorningTask: t.Morning,
			EveningTask: t.Evening,
			XPReward:    calc.TaskXP(t.XP, in.Difficulty),
		}
		if t.Date != "" {
			d := t.Date
			row.ScheduledDate = &d
		}
		row.SingleTask = row.IsSingle()
		tasks = append(tasks, row)
		pos++
	}

	for _, m := range in.Milestones {
		if len(m.Tasks) == 0 {
			add(m, MilestoneTask{Morning: m.Title, Evening: m.Title})
			continue
		}
		for _, t := range m.Tasks {
			add(m, t)
		}
	}
	return tasks
}

// TotalXP sums the XP rewards of tasks.
func TotalXP(tasks []model.CareerTask) int {
	total := 0
	for _, t := range tasks {
		total += t.XPReward
	}
	return total
}
