package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/okian/careertrack/internal/adapters/repository"
	service "github.com/okian/careertrack/internal/app"
	"github.com/okian/careertrack/internal/domain/model"
	"github.com/okian/careertrack/internal/domain/planner"
	"github.com/okian/careertrack/internal/domain/xp"
	. "github.com/smartystreets/goconvey/convey"
)

// clock is a settable time source.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newIntegrationService(t *testing.T, c *clock) *service.Service {
	t.Helper()
	ctx := context.Background()
	store, err := repository.Open(ctx,
		repository.WithDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())),
	)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc := service.New(
		service.WithStore(store),
		service.WithClock(c.Now),
		service.WithCalculator(xp.NewCalculator(xp.WithBaseXP(100))),
	)
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func twoTaskPlan() planner.AddPlanInput {
	return planner.AddPlanInput{
		TargetID:   "gate-2027",
		TargetName: "GATE 2027",
		TrackType:  model.TrackHigherStudies,
		Difficulty: model.DifficultyMedium,
		Milestones: []planner.Milestone{
			{Week: 1, SkillFocus: "DSA", Tasks: []planner.MilestoneTask{{Morning: "Graphs", Evening: "BFS"}}},
			{Week: 2, SkillFocus: "OS", Tasks: []planner.MilestoneTask{{Morning: "Paging", Evening: "Paging"}}},
		},
	}
}

func TestServiceIntegration(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new medium plan with two 100 XP tasks", t, func() {
		c := &clock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
		svc := newIntegrationService(t, c)
		plan, err := svc.AddPlan(ctx, "stu-1", twoTaskPlan())
		So(err, ShouldBeNil)

		d, err := svc.PlanDetail(ctx, "stu-1", plan.ID)
		So(err, ShouldBeNil)
		So(len(d.Tasks), ShouldEqual, 2)
		So(d.Tasks[0].XPReward, ShouldEqual, 100)
		So(d.Tasks[1].SingleTask, ShouldBeTrue)

		Convey("When both tasks are completed", func() {
			c1, err := svc.CompleteTask(ctx, "stu-1", plan.ID, d.Tasks[0].ID)
			So(err, ShouldBeNil)
			c.now = c.now.AddDate(0, 0, 1)
			c2, err := svc.CompleteTask(ctx, "stu-1", plan.ID, d.Tasks[1].ID)
			So(err, ShouldBeNil)

			Convey("Then XP and progress follow and no reward is due", func() {
				So(c1.Plan.TotalXP, ShouldEqual, 100)
				So(c1.Plan.Progress, ShouldEqual, 50)
				So(c2.Plan.TotalXP, ShouldEqual, 200)
				So(c2.Plan.Progress, ShouldEqual, 100)
				So(c2.Plan.CurrentStreak, ShouldEqual, 2)
				So(len(c2.NewRewards), ShouldEqual, 0)
			})

			Convey("Then the detail view reflects the writes", func() {
				after, err := svc.PlanDetail(ctx, "stu-1", plan.ID)
				So(err, ShouldBeNil)
				So(after.Plan.TotalXP, ShouldEqual, 200)
				So(after.RadarData, ShouldResemble, []model.RadarPoint{
					{Skill: "DSA", CompletionRate: 100},
					{Skill: "OS", CompletionRate: 100},
				})
				So(after.NextReward.Threshold, ShouldEqual, 500)
			})

			Convey("Then a repeated completion is a successful no-op", func() {
				again, err := svc.CompleteTask(ctx, "stu-1", plan.ID, d.Tasks[0].ID)
				So(err, ShouldBeNil)
				So(again.AlreadyCompleted, ShouldBeTrue)
				So(again.Plan.TotalXP, ShouldEqual, 200)
			})
		})

		Convey("When the plan is deleted", func() {
			So(svc.DeletePlan(ctx, "stu-1", plan.ID), ShouldBeNil)

			Convey("Then it is gone from the list and detail", func() {
				plans, err := svc.ListPlans(ctx, "stu-1")
				So(err, ShouldBeNil)
				So(len(plans), ShouldEqual, 0)
				_, err = svc.PlanDetail(ctx, "stu-1", plan.ID)
				So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a plan at 400 XP", t, func() {
		c := &clock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
		svc := newIntegrationService(t, c)
		in := twoTaskPlan()
		in.Milestones[0].Tasks[0].XP = 400
		in.Milestones[1].Tasks[0].XP = 200
		plan, err := svc.AddPlan(ctx, "stu-1", in)
		So(err, ShouldBeNil)
		d, _ := svc.PlanDetail(ctx, "stu-1", plan.ID)
		_, err = svc.CompleteTask(ctx, "stu-1", plan.ID, d.Tasks[0].ID)
		So(err, ShouldBeNil)

		Convey("When a 200 XP task is completed", func() {
			res, err := svc.CompleteTask(ctx, "stu-1", plan.ID, d.Tasks[1].ID)

			Convey("Then exactly Beginner Achiever is unlocked", func() {
				So(err, ShouldBeNil)
				So(res.Plan.TotalXP, ShouldEqual, 600)
				So(len(res.NewRewards), ShouldEqual, 1)
				So(res.NewRewards[0].BadgeName, ShouldEqual, "Beginner Achiever")
				after, _ := svc.PlanDetail(ctx, "stu-1", plan.ID)
				So(len(after.Rewards), ShouldEqual, 1)
				So(after.NextReward.Threshold, ShouldEqual, 1500)
			})
		})
	})
}
