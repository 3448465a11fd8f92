package loadtest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/careertrack/internal/domain/model"
	"github.com/okian/careertrack/internal/domain/types"
	"github.com/okian/careertrack/pkg/logger"
)

// planRun is one student's plan under test.
type planRun struct {
	c     *client
	plan  model.CareerPlan
	tasks []model.CareerTask
}

type completion struct {
	run  *planRun
	task model.CareerTask
}

// Run executes the complete load test against cfg.BaseURL.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	log := logger.Get().Named("loadtest")
	stats := &Stats{StartTime: time.Now()}

	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	log.Info(ctx, "starting load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("students", cfg.Students),
		logger.Int("weeks", cfg.Weeks),
		logger.Int("tasksPerWeek", cfg.TasksPer),
		logger.Int("workers", cfg.Workers))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, cfg); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Create one plan per student
	runs, err := createPlans(ctx, cfg)
	stats.PlansCreated = len(runs)
	if err != nil {
		return stats, fmt.Errorf("plan creation failed: %w", err)
	}

	// Step 3: Complete every task twice, concurrently
	submitCompletions(ctx, cfg, runs, stats, log)

	// Step 4: Verify bookkeeping
	if err := verifyPlans(ctx, runs, stats); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}

	// Step 5: Delete plans
	if cfg.Cleanup {
		for _, r := range runs {
			if _, err := r.c.do(ctx, http.MethodDelete, "/plans/"+r.plan.ID, nil, nil); err != nil {
				log.Warn(ctx, "failed to delete plan", logger.String("plan", r.plan.ID), logger.Error(err))
			}
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

// checkServiceHealth verifies the service is running and its database is up.
func checkServiceHealth(ctx context.Context, cfg Config) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := (&http.Client{Timeout: cfg.Timeout}).Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

func createPlans(ctx context.Context, cfg Config) ([]*planRun, error) {
	runs := make([]*planRun, 0, cfg.Students)
	for i := 0; i < cfg.Students; i++ {
		student := fmt.Sprintf("loadtest-student-%d-%d", time.Now().UnixNano(), i)
		c, err := newClient(cfg, student)
		if err != nil {
			return runs, err
		}

		r := &planRun{c: c}
		if _, err := c.do(ctx, http.MethodPost, "/plans/add", buildPlan(cfg, student), &r.plan); err != nil {
			return runs, err
		}
		var detail types.PlanDetail
		if _, err := c.do(ctx, http.MethodGet, "/plans/"+r.plan.ID, nil, &detail); err != nil {
			return runs, err
		}
		r.tasks = detail.Tasks
		runs = append(runs, r)
	}
	return runs, nil
}

// submitCompletions sends every task twice through a worker pool. Exactly
// one of each pair must award XP.
func submitCompletions(ctx context.Context, cfg Config, runs []*planRun, stats *Stats, log logger.Logger) {
	var (
		submitted  int64
		successful int64
		duplicate  int64
		failed     int64
		unlocked   int64
	)

	jobs := make(chan completion, cfg.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					return
				}
				var c types.Completion
				_, err := j.run.c.do(ctx, http.MethodPost, "/plans/complete-task",
					map[string]string{"taskId": j.task.ID, "planId": j.run.plan.ID}, &c)

				atomic.AddInt64(&submitted, 1)
				switch {
				case err != nil:
					atomic.AddInt64(&failed, 1)
					log.Warn(ctx, "completion failed", logger.String("task", j.task.ID), logger.Error(err))
				case c.AlreadyCompleted:
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&successful, 1)
					atomic.AddInt64(&unlocked, int64(len(c.NewRewards)))
					if cfg.Verbose {
						log.Info(ctx, "task completed",
							logger.String("task", j.task.ID),
							logger.Int("xp", c.XPAwarded),
							logger.Int("progress", c.Plan.Progress))
					}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, r := range runs {
			for _, t := range r.tasks {
				for k := 0; k < 2; k++ {
					select {
					case <-ctx.Done():
						return
					case jobs <- completion{run: r, task: t}:
					}
				}
			}
		}
	}()

	wg.Wait()

	stats.TasksSubmitted = int(atomic.LoadInt64(&submitted))
	stats.TasksCompleted = int(atomic.LoadInt64(&successful))
	stats.TasksDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.TasksFailed = int(atomic.LoadInt64(&failed))
	stats.RewardsUnlocked = int(atomic.LoadInt64(&unlocked))
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.TasksSubmitted) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("plansCreated", stats.PlansCreated),
		logger.Int("tasksSubmitted", stats.TasksSubmitted),
		logger.Int("tasksCompleted", stats.TasksCompleted),
		logger.Int("tasksDuplicate", stats.TasksDuplicate),
		logger.Int("tasksFailed", stats.TasksFailed),
		logger.Int("plansVerified", stats.PlansVerified),
		logger.Int("rewardsUnlocked", stats.RewardsUnlocked),
		logger.Duration("duration", stats.Duration),
		logger.Float64("completionsPerSecond", perSecond))
}
