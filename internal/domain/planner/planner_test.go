package planner_test

import (
	"errors"
	"testing"

	"github.com/okian/careertrack/internal/domain/model"
	"github.com/okian/careertrack/internal/domain/planner"
	"github.com/okian/careertrack/internal/domain/xp"
	. "github.com/smartystreets/goconvey/convey"
)

func validInput() planner.AddPlanInput {
	return planner.AddPlanInput{
		TargetID:   " gate-cse ",
		TargetName: "GATE CSE",
		TrackType:  "Higher-Studies",
		Difficulty: "hard",
		Milestones: []planner.Milestone{
			{
				Week:       1,
				SkillFocus: " DSA ",
				Tasks: []planner.MilestoneTask{
					{Date: "2026-01-05", Morning: "Arrays", Evening: "Two pointers"},
					{Morning: "Revise", Evening: "Revise", XP: 40},
				},
			},
			{Week: 2, Title: "Mock test", SkillFocus: "Aptitude"},
		},
	}
}

func TestValidate(t *testing.T) {
	Convey("Given a well formed add-plan input", t, func() {
		in := validInput()

		Convey("When it is validated", func() {
			err := planner.Validate(&in)

			Convey("Then it passes and is normalized", func() {
				So(err, ShouldBeNil)
				So(in.TargetID, ShouldEqual, "gate-cse")
				So(in.TrackType, ShouldEqual, model.TrackHigherStudies)
				So(in.Milestones[0].SkillFocus, ShouldEqual, "DSA")
			})
		})

		Convey("When milestones are empty", func() {
			in.Milestones = nil
			err := planner.Validate(&in)

			Convey("Then a validation error is returned", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "milestones")
			})
		})

		Convey("When the track type is unknown", func() {
			in.TrackType = "phd"
			So(errors.Is(planner.Validate(&in), model.ErrValidation), ShouldBeTrue)
		})

		Convey("When a task date is malformed", func() {
			in.Milestones[0].Tasks[0].Date = "05/01/2026"
			err := planner.Validate(&in)
			So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "milestones[0]: tasks[0]")
		})

		Convey("When a task has no text", func() {
			in.Milestones[0].Tasks[1] = planner.MilestoneTask{Morning: "  "}
			So(errors.Is(planner.Validate(&in), model.ErrValidation), ShouldBeTrue)
		})

		Convey("When a title-only milestone has no title", func() {
			in.Milestones[1].Title = ""
			So(errors.Is(planner.Validate(&in), model.ErrValidation), ShouldBeTrue)
		})

		Convey("When the skill focus is blank", func() {
			in.Milestones[1].SkillFocus = " "
			err := planner.Validate(&in)
			So(err.Error(), ShouldContainSubstring, "skill_focus")
		})
	})
}

func TestSchema(t *testing.T) {
	Convey("Given raw add-plan bodies", t, func() {
		Convey("Then a complete body satisfies the schema", func() {
			body := `{"targetId":"t1","targetName":"TCS","trackType":"placement","difficulty":"easy",
				"milestones":[{"week":1,"skill_focus":"DSA","tasks":[{"morning":"a","evening":"b"}]}]}`
			So(planner.ValidateAddPlanJSON([]byte(body)), ShouldBeNil)
		})

		Convey("Then a bad enum is rejected", func() {
			body := `{"targetId":"t1","targetName":"TCS","trackType":"placement","difficulty":"insane",
				"milestones":[{"week":1,"skill_focus":"DSA"}]}`
			So(errors.Is(planner.ValidateAddPlanJSON([]byte(body)), model.ErrValidation), ShouldBeTrue)
		})

		Convey("Then unknown fields are rejected", func() {
			body := `{"targetId":"t1","targetName":"TCS","trackType":"placement","difficulty":"easy",
				"milestones":[{"week":1,"skill_focus":"DSA"}],"owner":"x"}`
			So(errors.Is(planner.ValidateAddPlanJSON([]byte(body)), model.ErrValidation), ShouldBeTrue)
		})

		Convey("Then malformed JSON is a validation error", func() {
			So(errors.Is(planner.ValidateAddPlanJSON([]byte(`{`)), model.ErrValidation), ShouldBeTrue)
		})
	})
}

func TestExpand(t *testing.T) {
	Convey("Given a validated input", t, func() {
		in := validInput()
		So(planner.Validate(&in), ShouldBeNil)
		calc := xp.NewCalculator()

		Convey("When it is expanded", func() {
			tasks := planner.Expand("plan-1", in, calc)

			Convey("Then one row is produced per task and per title-only milestone", func() {
				So(len(tasks), ShouldEqual, 3)
				for i, task := range tasks {
					So(task.PlanID, ShouldEqual, "plan-1")
					So(task.Position, ShouldEqual, i)
					So(task.ID, ShouldNotBeEmpty)
					So(task.IsCompleted, ShouldBeFalse)
				}
			})

			Convey("Then XP comes from the task or the difficulty", func() {
				So(tasks[0].XPReward, ShouldEqual, 150)
				So(tasks[1].XPReward, ShouldEqual, 40)
				So(planner.TotalXP(tasks), ShouldEqual, 340)
			})

			Convey("Then dates are kept or left null", func() {
				So(*tasks[0].ScheduledDate, ShouldEqual, "2026-01-05")
				So(tasks[1].ScheduledDate, ShouldBeNil)
			})

			Convey("Then a title-only milestone becomes a single task", func() {
				So(tasks[2].MorningTask, ShouldEqual, "Mock test")
				So(tasks[2].EveningTask, ShouldEqual, "Mock test")
				So(tasks[2].SingleTask, ShouldBeTrue)
				So(tasks[2].WeekNumber, ShouldEqual, 2)
				So(tasks[0].SingleTask, ShouldBeFalse)
			})
		})
	})
}

func TestValidateGenerate(t *testing.T) {
	Convey("Given a generate request", t, func() {
		in := planner.GenerateInput{TargetName: "Infosys", TrackType: "placement", Difficulty: "Medium", Weeks: 6}

		Convey("Then a sane request passes", func() {
			So(planner.ValidateGenerate(&in), ShouldBeNil)
			So(in.Difficulty, ShouldEqual, model.DifficultyMedium)
		})

		Convey("Then the week count is bounded", func() {
			in.Weeks = 0
			So(errors.Is(planner.ValidateGenerate(&in), model.ErrValidation), ShouldBeTrue)
			in.Weeks = 60
			So(errors.Is(planner.ValidateGenerate(&in), model.ErrValidation), ShouldBeTrue)
		})
	})
}
