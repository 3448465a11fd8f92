// Package radar aggregates task completion per skill focus.
package radar

import (
	"github.com/okian/careertrack/internal/domain/model"
	"github.com/okian/careertrack/internal/domain/progress"
)

// Aggregate groups tasks by SkillFocus in first-seen order and returns the
// rounded completion rate of each group.
func Aggregate(tasks []model.CareerTask) []model.RadarPoint {
	type counts struct{ done, total int64 }

	var order []string
	groups := make(map[string]*counts)
	for _, t := range tasks {
		c, ok := groups[t.SkillFocus]
		if !ok {
			c = &counts{}
			groups[t.SkillFocus] = c
			order = append(order, t.SkillFocus)
		}
		c.total++
		if t.IsCompleted {
			c.done++
		}
	}

	out := make([]model.RadarPoint, 0, len(order))
	for _, skill := range order {
		c := groups[skill]
		out = append(out, model.RadarPoint{
			Skill:          skill,
			CompletionRate: progress.Percent(c.done, c.total),
		})
	}
	return out
}
