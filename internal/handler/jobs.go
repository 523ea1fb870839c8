package handler

import (
	"net/http"

	"github.com/osse101/MarketCrafter_Go/internal/logger"
	"github.com/osse101/MarketCrafter_Go/internal/planner"
)

// HandleListJobs returns the crafting jobs and their configured levels.
func HandleListJobs(svc planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs := svc.Jobs(r.Context())
		logger.FromContext(r.Context()).Debug(LogMsgJobsListed, "count", len(jobs))
		respondJSON(w, http.StatusOK, jobs)
	}
}

// HandleSetJobLevel stores a job level and discovers every recipe of that
// job up to the level. Level 0 stores the level without discovery.
func HandleSetJobLevel(svc planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		jobID, ok := parseIDParam(w, r, "job")
		if !ok {
			return
		}

		var req SetJobLevelRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Set job level"); err != nil {
			return
		}

		discovered, err := svc.SetJobLevel(r.Context(), jobID, *req.Level)
		if err != nil {
			log.Warn("Failed to set job level", "job_id", jobID, "level", *req.Level, "error", err)
			respondServiceError(w, err)
			return
		}

		log.Info(LogMsgJobLevelSet, "job_id", jobID, "level", *req.Level, "discovered", discovered)
		respondJSON(w, http.StatusOK, SetJobLevelResponse{
			JobID:      jobID,
			Level:      *req.Level,
			Discovered: discovered,
		})
	}
}
