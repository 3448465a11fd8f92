package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/okian/careertrack/internal/domain/planner"
	"github.com/okian/careertrack/pkg/logger"
)

const (
	planSchemaName     = "career-plan-milestones"
	defaultMaxTokens   = 8192
	defaultTemperature = 0.4
)

const systemPrompt = `You are a career preparation coach for university students.
Produce a week-by-week study plan as JSON. Each week is a milestone with a
single skill_focus and a list of daily tasks. Each task has a short morning
activity and a short evening activity; use the same text for both when the
day holds one task. Leave date empty and xp as 0 unless told otherwise.`

// Generator drafts milestone lists for a target.
type Generator struct {
	provider Provider
	timeout  time.Duration
	log      logger.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithTimeout bounds each Generate call.
func WithTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithGeneratorLogger sets the generator logger.
func WithGeneratorLogger(l logger.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGenerator creates a Generator on top of p.
func NewGenerator(p Provider, opts ...GeneratorOption) *Generator {
	g := &Generator{provider: p, timeout: 60 * time.Second, log: logger.Get().Named("generator")}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate asks the model for a plan matching in. The milestones are
// validated the same way an add-plan request is; nothing is persisted.
func (g *Generator) Generate(ctx context.Context, in planner.GenerateInput) ([]planner.Milestone, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.provider.Generate(ctx, Request{
		System:   systemPrompt,
		Messages: []Message{{Role: RoleUser, Content: userPrompt(in)}},
		Schema: &Schema{
			Name:        planSchemaName,
			Description: "Weekly milestones of a career preparation plan",
			Definition:  planner.MilestonesSchema(),
		},
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Milestones []planner.Milestone `json:"milestones"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: err}
	}

	check := planner.AddPlanInput{
		TargetID:   "generated",
		TargetName: in.TargetName,
		TrackType:  in.TrackType,
		Difficulty: in.Difficulty,
		Milestones: out.Milestones,
	}
	if err := planner.Validate(&check); err != nil {
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: err}
	}

	g.log.Info(ctx, "plan generated",
		logger.String("target", in.TargetName),
		logger.Int("milestones", len(check.Milestones)))
	return check.Milestones, nil
}

func userPrompt(in planner.GenerateInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target: %s\n", in.TargetName)
	fmt.Fprintf(&b, "Track: %s\n", in.TrackType)
	fmt.Fprintf(&b, "Difficulty: %s\n", in.Difficulty)
	fmt.Fprintf(&b, "Weeks: %d (one milestone per week, numbered from 1)\n", in.Weeks)
	if len(in.Skills) > 0 {
		fmt.Fprintf(&b, "Cover these skills: %s\n", strings.Join(in.Skills, ", "))
	}
	return b.String()
}

// SamplePlanResponse answers any request with a fixed two-week plan. The
// mock provider serves it so the generate endpoint works offline.
func SamplePlanResponse(Request) MockResponse {
	return MockResponse{
		Content: json.RawMessage(`{"milestones":[
{"week":1,"title":"Foundations","skill_focus":"DSA","tasks":[
 {"date":"","morning":"Arrays and strings drills","evening":"Solve 3 easy problems","xp":0},
 {"date":"","morning":"Hashing basics","evening":"Hashing basics","xp":0}]},
{"week":2,"title":"Databases","skill_focus":"SQL","tasks":[
 {"date":"","morning":"Joins and grouping","evening":"Practice 10 queries","xp":0}]}]}`),
		Usage: Usage{InputTokens: 0, OutputTokens: 0},
	}
}
