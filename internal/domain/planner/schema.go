package planner

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/okian/careertrack/internal/domain/model"
)

const addPlanSchemaURL = "schema://careertrack/add-plan.json"

func taskSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"date":    map[string]any{"type": "string"},
			"morning": map[string]any{"type": "string"},
			"evening": map[string]any{"type": "string"},
			"xp":      map[string]any{"type": "integer", "minimum": 0},
		},
	}
}

func milestoneSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"week", "skill_focus"},
		"properties": map[string]any{
			"week":        map[string]any{"type": "integer", "minimum": 1},
			"title":       map[string]any{"type": "string"},
			"skill_focus": map[string]any{"type": "string", "minLength": 1},
			"tasks":       map[string]any{"type": "array", "items": taskSchema()},
		},
	}
}

// AddPlanSchema is the JSON Schema of the add-plan request body.
func AddPlanSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"targetId", "targetName", "trackType", "milestones", "difficulty"},
		"properties": map[string]any{
			"targetId":   map[string]any{"type": "string", "minLength": 1},
			"targetName": map[string]any{"type": "string", "minLength": 1},
			"trackType":  map[string]any{"enum": []any{string(model.TrackHigherStudies), string(model.TrackPlacement)}},
			"difficulty": map[string]any{"enum": []any{string(model.DifficultyEasy), string(model.DifficultyMedium), string(model.DifficultyHard)}},
			"milestones": map[string]any{"type": "array", "minItems": 1, "items": milestoneSchema()},
		},
	}
}

// MilestonesSchema is the strict schema the generator must answer with:
// every property required and no extras, as structured-output APIs demand.
func MilestonesSchema() map[string]any {
	strictTask := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"date", "morning", "evening", "xp"},
		"properties": map[string]any{
			"date":    map[string]any{"type": "string", "description": "YYYY-MM-DD or empty"},
			"morning": map[string]any{"type": "string"},
			"evening": map[string]any{"type": "string"},
			"xp":      map[string]any{"type": "integer", "description": "0 lets the server derive XP"},
		},
	}
	strictMilestone := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"week", "title", "skill_focus", "tasks"},
		"properties": map[string]any{
			"week":        map[string]any{"type": "integer"},
			"title":       map[string]any{"type": "string"},
			"skill_focus": map[string]any{"type": "string"},
			"tasks":       map[string]any{"type": "array", "items": strictTask},
		},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"milestones"},
		"properties": map[string]any{
			"milestones": map[string]any{"type": "array", "items": strictMilestone},
		},
	}
}

var (
	compileOnce   sync.Once
	addPlanSchema *jsonschema.Schema
	compileErr    error
)

func compiledAddPlan() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := normalize(AddPlanSchema())
		if err != nil {
			compileErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(addPlanSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		addPlanSchema, compileErr = c.Compile(addPlanSchemaURL)
	})
	return addPlanSchema, compileErr
}

// normalize round-trips a Go literal through JSON so the compiler sees
// plain JSON values.
func normalize(def map[string]any) (any, error) {
	b, err := json.Marshal(def)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ValidateAddPlanJSON checks a raw add-plan body against AddPlanSchema.
func ValidateAddPlanJSON(raw []byte) error {
	sch, err := compiledAddPlan()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: malformed JSON: %v", model.ErrValidation, err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	return nil
}
