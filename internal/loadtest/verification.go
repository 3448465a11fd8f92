package loadtest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/careertrack/internal/domain/rewards"
	"github.com/okian/careertrack/internal/domain/types"
)

// verifyPlans re-reads every plan and checks that the server's totals agree
// with its own task rows and the badge ladder.
func verifyPlans(ctx context.Context, runs []*planRun, stats *Stats) error {
	expectedTasks := 0
	for _, r := range runs {
		expectedTasks += len(r.tasks)
	}
	if stats.TasksFailed > 0 {
		return fmt.Errorf("%d completions failed", stats.TasksFailed)
	}
	if stats.TasksCompleted != expectedTasks {
		return fmt.Errorf("expected %d XP-awarding completions, got %d", expectedTasks, stats.TasksCompleted)
	}
	if stats.TasksDuplicate != expectedTasks {
		return fmt.Errorf("expected %d duplicate completions, got %d", expectedTasks, stats.TasksDuplicate)
	}

	ladder := rewards.DefaultLadder()
	for _, r := range runs {
		var d types.PlanDetail
		if _, err := r.c.do(ctx, http.MethodGet, "/plans/"+r.plan.ID, nil, &d); err != nil {
			return err
		}
		if err := verifyDetail(d, ladder); err != nil {
			return fmt.Errorf("plan %s: %w", r.plan.ID, err)
		}
		stats.PlansVerified++
	}
	return nil
}

func verifyDetail(d types.PlanDetail, ladder rewards.Ladder) error {
	sum := 0
	for _, t := range d.Tasks {
		if !t.IsCompleted {
			return fmt.Errorf("task %s is not completed", t.ID)
		}
		sum += t.XPReward
	}
	if d.Plan.TotalXP != sum {
		return fmt.Errorf("total_xp %d does not match task XP sum %d", d.Plan.TotalXP, sum)
	}
	if d.Plan.Progress != 100 {
		return fmt.Errorf("progress is %d, expected 100", d.Plan.Progress)
	}
	if d.Plan.CurrentStreak < 1 || d.Plan.LongestStreak < d.Plan.CurrentStreak {
		return fmt.Errorf("streak %d/%d is inconsistent", d.Plan.CurrentStreak, d.Plan.LongestStreak)
	}

	reached := ladder.Reached(d.Plan.TotalXP)
	if len(d.Rewards) != len(reached) {
		return fmt.Errorf("%d rewards unlocked, ladder expects %d", len(d.Rewards), len(reached))
	}
	have := make(map[int]bool, len(d.Rewards))
	for _, rw := range d.Rewards {
		if have[rw.XPThreshold] {
			return fmt.Errorf("reward %q unlocked twice", rw.BadgeName)
		}
		have[rw.XPThreshold] = true
	}
	for _, tier := range reached {
		if !have[tier.Threshold] {
			return fmt.Errorf("missing reward %q", tier.Name)
		}
	}
	return nil
}
