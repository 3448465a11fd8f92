package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/careertrack/internal/adapters/http/api"
	"github.com/okian/careertrack/internal/domain/model"
	"github.com/okian/careertrack/internal/domain/planner"
	"github.com/okian/careertrack/internal/domain/types"
	"github.com/okian/careertrack/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

// fakeDeps records calls and answers with canned values.
type fakeDeps struct {
	plans      []model.CareerPlan
	detail     types.PlanDetail
	completion types.Completion
	generated  types.Generated
	err        error
	pingErr    error

	lastStudent string
	lastPlan    string
	lastTask    string
	lastAdd     planner.AddPlanInput
	lastGen     planner.GenerateInput
}

func (f *fakeDeps) ListPlans(_ context.Context, studentID string) ([]model.CareerPlan, error) {
	f.lastStudent = studentID
	return f.plans, f.err
}

func (f *fakeDeps) PlanDetail(_ context.Context, studentID, planID string) (types.PlanDetail, error) {
	f.lastStudent, f.lastPlan = studentID, planID
	return f.detail, f.err
}

func (f *fakeDeps) AddPlan(_ context.Context, studentID string, in planner.AddPlanInput) (model.CareerPlan, error) {
	f.lastStudent, f.lastAdd = studentID, in
	if f.err != nil {
		return model.CareerPlan{}, f.err
	}
	return model.CareerPlan{ID: "p-new", StudentID: studentID, TargetName: in.TargetName}, nil
}

func (f *fakeDeps) DeletePlan(_ context.Context, studentID, planID string) error {
	f.lastStudent, f.lastPlan = studentID, planID
	return f.err
}

func (f *fakeDeps) CompleteTask(_ context.Context, studentID, planID, taskID string) (types.Completion, error) {
	f.lastStudent, f.lastPlan, f.lastTask = studentID, planID, taskID
	return f.completion, f.err
}

func (f *fakeDeps) GeneratePlan(_ context.Context, studentID string, in planner.GenerateInput) (types.Generated, error) {
	f.lastStudent, f.lastGen = studentID, in
	return f.generated, f.err
}

func (f *fakeDeps) Ping(context.Context) error { return f.pingErr }

func (f *fakeDeps) GetStats() types.Stats { return types.Stats{PlansCreated: 2} }

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func newTestHandler(deps *fakeDeps, opts ...api.Option) http.Handler {
	mux := http.NewServeMux()
	srv := api.NewServer(deps, opts...)
	srv.Register(context.Background(), mux)
	return srv.Wrap(mux)
}

func do(h http.Handler, method, path, body string, header map[string]string) (*httptest.ResponseRecorder, response) {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	var resp response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

const validAddPlan = `{
  "targetId": "t1",
  "targetName": "MIT MS CS",
  "trackType": "higher-studies",
  "difficulty": "medium",
  "milestones": [
    {"week": 1, "skill_focus": "DSA", "tasks": [{"date": "2026-10-17", "morning": "Arrays", "evening": "Review"}]}
  ]
}`

func TestPlanRoutes(t *testing.T) {
	Convey("Given the API with header auth", t, func() {
		deps := &fakeDeps{}
		h := newTestHandler(deps)
		student := map[string]string{api.StudentHeader: "s1"}

		Convey("When listing plans", func() {
			deps.plans = []model.CareerPlan{{ID: "p1", StudentID: "s1"}}
			w, resp := do(h, http.MethodGet, "/plans/list", "", student)

			Convey("Then the envelope carries the plans for the caller", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(resp.Success, ShouldBeTrue)
				var plans []model.CareerPlan
				So(json.Unmarshal(resp.Data, &plans), ShouldBeNil)
				So(plans, ShouldHaveLength, 1)
				So(deps.lastStudent, ShouldEqual, "s1")
				So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
			})
		})

		Convey("When the caller is missing", func() {
			w, resp := do(h, http.MethodGet, "/plans/list", "", nil)

			Convey("Then the request is rejected with 401", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
				So(resp.Success, ShouldBeFalse)
				So(resp.Code, ShouldEqual, "unauthenticated")
			})
		})

		Convey("When reading a plan owned by someone else", func() {
			deps.err = model.ErrUnauthorized
			w, resp := do(h, http.MethodGet, "/plans/p1", "", student)

			Convey("Then the answer is 403", func() {
				So(w.Code, ShouldEqual, http.StatusForbidden)
				So(resp.Code, ShouldEqual, "forbidden")
				So(deps.lastPlan, ShouldEqual, "p1")
			})
		})

		Convey("When reading a missing plan", func() {
			deps.err = model.ErrNotFound
			w, _ := do(h, http.MethodGet, "/plans/nope", "", student)

			Convey("Then the answer is 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When deleting a plan", func() {
			w, resp := do(h, http.MethodDelete, "/plans/p9", "", student)

			Convey("Then success is reported without data", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(resp.Success, ShouldBeTrue)
				So(deps.lastPlan, ShouldEqual, "p9")
			})
		})

		Convey("When completing a task", func() {
			deps.completion = types.Completion{
				Plan:      model.CareerPlan{ID: "p1", TotalXP: 150, Progress: 50},
				XPAwarded: 150,
			}
			w, resp := do(h, http.MethodPost, "/plans/complete-task", `{"taskId":"t1","planId":"p1"}`, student)

			Convey("Then the updated plan is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var c types.Completion
				So(json.Unmarshal(resp.Data, &c), ShouldBeNil)
				So(c.Plan.TotalXP, ShouldEqual, 150)
				So(c.XPAwarded, ShouldEqual, 150)
				So(deps.lastTask, ShouldEqual, "t1")
				So(deps.lastPlan, ShouldEqual, "p1")
			})
		})

		Convey("When completing an already completed task", func() {
			deps.completion = types.Completion{Plan: model.CareerPlan{ID: "p1", TotalXP: 150}, AlreadyCompleted: true}
			w, resp := do(h, http.MethodPost, "/plans/complete-task", `{"taskId":"t1","planId":"p1"}`, student)

			Convey("Then it still succeeds with no XP", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var c types.Completion
				So(json.Unmarshal(resp.Data, &c), ShouldBeNil)
				So(c.AlreadyCompleted, ShouldBeTrue)
				So(c.XPAwarded, ShouldEqual, 0)
			})
		})

		Convey("When the completion body has unknown fields", func() {
			w, resp := do(h, http.MethodPost, "/plans/complete-task", `{"taskId":"t1","planId":"p1","xp":9000}`, student)

			Convey("Then the request is a 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(resp.Code, ShouldEqual, "bad_request")
			})
		})

		Convey("When adding a valid plan", func() {
			w, resp := do(h, http.MethodPost, "/plans/add", validAddPlan, student)

			Convey("Then the plan is created", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(resp.Success, ShouldBeTrue)
				So(deps.lastAdd.TargetName, ShouldEqual, "MIT MS CS")
				So(deps.lastAdd.Milestones, ShouldHaveLength, 1)
			})
		})

		Convey("When adding a plan that violates the schema", func() {
			body := strings.Replace(validAddPlan, `"medium"`, `"insane"`, 1)
			w, _ := do(h, http.MethodPost, "/plans/add", body, student)

			Convey("Then it is rejected before reaching the service", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(deps.lastAdd.TargetName, ShouldBeEmpty)
			})
		})

		Convey("When the body exceeds the size limit", func() {
			body := `{"targetId":"` + strings.Repeat("x", 2<<20) + `"}`
			w, resp := do(h, http.MethodPost, "/plans/add", body, student)

			Convey("Then the answer is 413", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
				So(resp.Code, ShouldEqual, "too_large")
			})
		})

		Convey("When the generator is unavailable", func() {
			deps.err = model.ErrUnavailable
			w, _ := do(h, http.MethodPost, "/plans/generate",
				`{"targetName":"Google SWE","trackType":"placement","difficulty":"easy","weeks":4}`, student)

			Convey("Then the answer is 503", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(deps.lastGen.Weeks, ShouldEqual, 4)
			})
		})

		Convey("When the service fails unexpectedly", func() {
			deps.err = errors.New("connection reset by peer")
			w, resp := do(h, http.MethodGet, "/plans/list", "", student)

			Convey("Then the cause is not leaked", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(resp.Error, ShouldNotContainSubstring, "connection reset")
			})
		})
	})
}

func TestTokenAuth(t *testing.T) {
	Convey("Given the API with bearer tokens", t, func() {
		deps := &fakeDeps{}
		auth := api.NewAuthenticator("s3cret", false)
		h := newTestHandler(deps, api.WithAuthenticator(auth))

		Convey("When a valid token is presented", func() {
			token, err := auth.Issue("student-42", time.Hour)
			So(err, ShouldBeNil)
			w, _ := do(h, http.MethodGet, "/plans/list", "", map[string]string{"Authorization": "Bearer " + token})

			Convey("Then the student id comes from the token", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastStudent, ShouldEqual, "student-42")
			})
		})

		Convey("When the header id is sent without a token", func() {
			w, _ := do(h, http.MethodGet, "/plans/list", "", map[string]string{api.StudentHeader: "s1"})

			Convey("Then it is not trusted", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
			})
		})

		Convey("When the token is signed with another secret", func() {
			other, err := api.NewAuthenticator("other", false).Issue("student-42", time.Hour)
			So(err, ShouldBeNil)
			w, _ := do(h, http.MethodGet, "/plans/list", "", map[string]string{"Authorization": "Bearer " + other})

			Convey("Then the request is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
			})
		})

		Convey("When the token has expired", func() {
			expired, err := auth.Issue("student-42", -time.Minute)
			So(err, ShouldBeNil)
			w, _ := do(h, http.MethodGet, "/plans/list", "", map[string]string{"Authorization": "Bearer " + expired})

			Convey("Then the request is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
			})
		})
	})
}

func TestOperationalRoutes(t *testing.T) {
	Convey("Given the API", t, func() {
		deps := &fakeDeps{}
		h := newTestHandler(deps)

		Convey("When the database answers", func() {
			w, _ := do(h, http.MethodGet, "/healthz", "", nil)

			Convey("Then health is ok", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"db":"up"`)
			})
		})

		Convey("When the database is down", func() {
			deps.pingErr = errors.New("dial tcp: refused")
			w, _ := do(h, http.MethodGet, "/healthz", "", nil)

			Convey("Then health is degraded", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		Convey("When reading stats", func() {
			w, _ := do(h, http.MethodGet, "/stats", "", nil)

			Convey("Then counters are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"plans_created":2`)
			})
		})

		Convey("When scraping metrics", func() {
			w, _ := do(h, http.MethodGet, "/metrics", "", nil)

			Convey("Then the exposition format is served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "careertrack_")
			})
		})

		Convey("When a browser sends a preflight from an allowed origin", func() {
			r := httptest.NewRequest(http.MethodOptions, "/plans/list", nil)
			r.Header.Set("Origin", "http://localhost:3000")
			r.Header.Set("Access-Control-Request-Method", http.MethodGet)
			w := httptest.NewRecorder()
			mux := http.NewServeMux()
			srv := api.NewServer(deps, api.WithCORSOrigins([]string{"http://localhost:3000"}))
			srv.Register(context.Background(), mux)
			srv.Wrap(mux).ServeHTTP(w, r)

			Convey("Then CORS headers are returned", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "http://localhost:3000")
			})
		})
	})
}
