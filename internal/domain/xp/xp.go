// Package xp derives task XP rewards from plan difficulty.
package xp

import (
	"math"

	"github.com/okian/careertrack/internal/domain/model"
)

// Default XP configuration constants.
const (
	defaultBaseXP = 100
	defaultWeight = 1.0
	minTaskXP     = 1
)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithBaseXP sets the XP of a task with weight 1.0.
func WithBaseXP(base int) Option {
	return func(c *Calculator) {
		if base > 0 {
			c.baseXP = base
		}
	}
}

// WithDifficultyWeights sets difficulty weights from a configuration map.
// Non-positive weights are ignored.
func WithDifficultyWeights(weights map[string]float64) Option {
	return func(c *Calculator) {
		c.weights = make(map[model.Difficulty]float64, len(weights))
		for name, w := range weights {
			if w > 0 {
				c.weights[model.Difficulty(name)] = w
			}
		}
	}
}

// WithDefaultWeight sets the weight used for difficulties missing from the map.
func WithDefaultWeight(w float64) Option {
	return func(c *Calculator) {
		if w > 0 {
			c.defaultWeight = w
		}
	}
}

// Calculator computes task XP.
type Calculator struct {
	baseXP        int
	weights       map[model.Difficulty]float64
	defaultWeight float64
}

// NewCalculator creates a Calculator. Without options easy, medium and hard
// are weighted 0.5, 1.0 and 1.5.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		baseXP: defaultBaseXP,
		weights: map[model.Difficulty]float64{
			model.DifficultyEasy:   0.5,
			model.DifficultyMedium: 1.0,
			model.DifficultyHard:   1.5,
		},
		defaultWeight: defaultWeight,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ForDifficulty returns round(base * weight(d)), at least 1.
func (c *Calculator) ForDifficulty(d model.Difficulty) int {
	w, ok := c.weights[d]
	if !ok {
		w = c.defaultWeight
	}
	return max(minTaskXP, int(math.Round(float64(c.baseXP)*w)))
}

// TaskXP returns explicit when positive, otherwise the difficulty default.
func (c *Calculator) TaskXP(explicit int, d model.Difficulty) int {
	if explicit > 0 {
		return explicit
	}
	return c.ForDifficulty(d)
}
