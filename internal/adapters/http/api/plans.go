package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/careertrack/internal/domain/model"
	"github.com/okian/careertrack/internal/domain/planner"
	"github.com/okian/careertrack/internal/domain/types"
	"github.com/okian/careertrack/pkg/logger"
)

// PlanReader serves the read routes.
type PlanReader interface {
	ListPlans(ctx context.Context, studentID string) ([]model.CareerPlan, error)
	PlanDetail(ctx context.Context, studentID, planID string) (types.PlanDetail, error)
}

// PlanWriter serves the mutating routes.
type PlanWriter interface {
	AddPlan(ctx context.Context, studentID string, in planner.AddPlanInput) (model.CareerPlan, error)
	DeletePlan(ctx context.Context, studentID, planID string) error
	CompleteTask(ctx context.Context, studentID, planID, taskID string) (types.Completion, error)
}

// PlanGenerator drafts milestones.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, studentID string, in planner.GenerateInput) (types.Generated, error)
}

// PlansHandler handles the /plans routes.
type PlansHandler struct {
	reader    PlanReader
	writer    PlanWriter
	generator PlanGenerator
	log       logger.Logger
}

// NewPlansHandler creates a plans handler.
func NewPlansHandler(r PlanReader, w PlanWriter, g PlanGenerator, log logger.Logger) *PlansHandler {
	return &PlansHandler{reader: r, writer: w, generator: g, log: log}
}

// HandleList handles GET /plans/list.
func (h *PlansHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_plans"
	plans, err := h.reader.ListPlans(r.Context(), StudentFrom(r.Context()))
	if err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	writeData(w, http.StatusOK, plans)
}

// HandleDetail handles GET /plans/{id}.
func (h *PlansHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	const op = "api.plan_detail"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, h.log, NewKind(op, ErrBadRequest))
		return
	}
	d, err := h.reader.PlanDetail(r.Context(), StudentFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	writeData(w, http.StatusOK, d)
}

// HandleDelete handles DELETE /plans/{id}.
func (h *PlansHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_plan"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, h.log, NewKind(op, ErrBadRequest))
		return
	}
	if err := h.writer.DeletePlan(r.Context(), StudentFrom(r.Context()), id); err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

type completeRequest struct {
	TaskID string `json:"taskId"`
	PlanID string `json:"planId"`
}

// HandleComplete handles POST /plans/complete-task.
func (h *PlansHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	const op = "api.complete_task"
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	var req completeRequest
	if err := decodeStrict(body, &req); err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	c, err := h.writer.CompleteTask(r.Context(), StudentFrom(r.Context()), req.PlanID, req.TaskID)
	if err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	writeData(w, http.StatusOK, c)
}

// HandleAdd handles POST /plans/add.
func (h *PlansHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_plan"
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	if err := planner.ValidateAddPlanJSON(body); err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	var in planner.AddPlanInput
	if err := decodeStrict(body, &in); err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	plan, err := h.writer.AddPlan(r.Context(), StudentFrom(r.Context()), in)
	if err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	writeData(w, http.StatusCreated, plan)
}

// HandleGenerate handles POST /plans/generate.
func (h *PlansHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "api.generate_plan"
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	var in planner.GenerateInput
	if err := decodeStrict(body, &in); err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	g, err := h.generator.GeneratePlan(r.Context(), StudentFrom(r.Context()), in)
	if err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	writeData(w, http.StatusOK, g)
}
