package handler

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	cronrunner "stocktracker/internal/cron"
	"stocktracker/internal/repository"
	"stocktracker/internal/session"
)

const defaultFetchLogLimit = 50

// OpsHandler exposes the operator surface: scheduled-job status, the
// fetch audit trail, and the current gateway session state.
type OpsHandler struct {
	Repo    repository.Repository
	Runner  *cronrunner.Runner
	Session *session.Session
}

func (h *OpsHandler) Register(r *gin.Engine) {
	r.GET("/jobs", h.jobs)
	r.GET("/fetch-logs", h.fetchLogs)
	r.GET("/session", h.sessionState)
}

func (h *OpsHandler) jobs(c *gin.Context) {
	if h.Runner == nil {
		Ok(c, []cronrunner.JobStatus{}, nil)
		return
	}
	jobs := h.Runner.Jobs()
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	Ok(c, jobs, map[string]any{"count": len(jobs)})
}

func (h *OpsHandler) fetchLogs(c *gin.Context) {
	limit := defaultFetchLogLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			Error(c, http.StatusBadRequest, "limit must be a positive integer", nil)
			return
		}
		limit = n
	}

	logs, err := h.Repo.ListFetchLogs(c.Request.Context(), limit)
	if err != nil {
		Error(c, http.StatusInternalServerError, "failed to list fetch logs", nil)
		return
	}
	Ok(c, logs, map[string]any{"count": len(logs), "limit": limit})
}

func (h *OpsHandler) sessionState(c *gin.Context) {
	if h.Session == nil {
		Error(c, http.StatusServiceUnavailable, "session not configured", nil)
		return
	}
	Ok(c, gin.H{"state": h.Session.State().String()}, nil)
}
