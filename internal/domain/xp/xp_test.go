package xp_test

import (
	"testing"

	"github.com/okian/careertrack/internal/domain/model"
	"github.com/okian/careertrack/internal/domain/xp"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCalculator(t *testing.T) {
	Convey("Given a calculator with defaults", t, func() {
		c := xp.NewCalculator()

		Convey("Then difficulty scales the base XP", func() {
			So(c.ForDifficulty(model.DifficultyEasy), ShouldEqual, 50)
			So(c.ForDifficulty(model.DifficultyMedium), ShouldEqual, 100)
			So(c.ForDifficulty(model.DifficultyHard), ShouldEqual, 150)
		})

		Convey("Then an explicit XP wins over the difficulty default", func() {
			So(c.TaskXP(40, model.DifficultyHard), ShouldEqual, 40)
			So(c.TaskXP(0, model.DifficultyHard), ShouldEqual, 150)
		})
	})

	Convey("Given a calculator from configuration", t, func() {
		c := xp.NewCalculator(
			xp.WithBaseXP(80),
			xp.WithDifficultyWeights(map[string]float64{"easy": 0.25, "hard": 2, "medium": -1}),
			xp.WithDefaultWeight(1.1),
		)

		Convey("Then configured weights apply and invalid ones fall back", func() {
			So(c.ForDifficulty(model.DifficultyEasy), ShouldEqual, 20)
			So(c.ForDifficulty(model.DifficultyHard), ShouldEqual, 160)
			So(c.ForDifficulty(model.DifficultyMedium), ShouldEqual, 88)
		})
	})

	Convey("Given a tiny base", t, func() {
		c := xp.NewCalculator(xp.WithBaseXP(1), xp.WithDifficultyWeights(map[string]float64{"easy": 0.1}))

		Convey("Then XP never drops below 1", func() {
			So(c.ForDifficulty(model.DifficultyEasy), ShouldEqual, 1)
		})
	})
}
