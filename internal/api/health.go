package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hidvid/traderpark/backend/internal/scheduler"
)

// recentJobResults is how many past runs /health shows per job
const recentJobResults = 5

// JobReporter exposes scheduler state for the health endpoint.
// *scheduler.Scheduler satisfies it.
type JobReporter interface {
	GetAllJobs() []string
	GetJobStats() map[string]scheduler.JobStats
	GetJobHistory(jobName string) (*scheduler.JobHistory, error)
	NextRun(jobName string) (time.Time, error)
}

var _ JobReporter = (*scheduler.Scheduler)(nil)

// HealthResponse is the /health body
type HealthResponse struct {
	Status  string      `json:"status"`
	Service string      `json:"service"`
	Jobs    []JobHealth `json:"jobs,omitempty"`
}

// JobHealth is one scheduled job's stats plus its next tick and latest runs
type JobHealth struct {
	scheduler.JobStats
	NextRun *time.Time            `json:"next_run,omitempty"`
	Recent  []scheduler.JobResult `json:"recent"`
}

// healthCheckHandler returns server health status and, when a scheduler
// runs, per-job stats (e.g. kiwoom_token_warmup).
func healthCheckHandler(jobs JobReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:  "ok",
			Service: "traderpark-api",
		}
		if jobs != nil {
			resp.Jobs = jobHealth(jobs)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func jobHealth(jobs JobReporter) []JobHealth {
	stats := jobs.GetJobStats()
	names := jobs.GetAllJobs()

	out := make([]JobHealth, 0, len(names))
	for _, name := range names {
		st, ok := stats[name]
		if !ok {
			continue
		}
		h := JobHealth{JobStats: st, Recent: []scheduler.JobResult{}}

		// 스케줄러 시작 전에는 Next가 zero
		if next, err := jobs.NextRun(name); err == nil && !next.IsZero() {
			h.NextRun = &next
		}
		if history, err := jobs.GetJobHistory(name); err == nil {
			h.Recent = history.GetLatestResults(recentJobResults)
		}

		out = append(out, h)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
