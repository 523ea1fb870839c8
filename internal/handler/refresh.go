package handler

import (
	"net/http"
	"time"

	"github.com/osse101/MarketCrafter_Go/internal/logger"
	"github.com/osse101/MarketCrafter_Go/internal/planner"
)

// AutoRefresher toggles periodic listing refreshes; worker.RefreshWorker
// implements it.
type AutoRefresher interface {
	SetEnabled(enabled bool)
	Enabled() bool
	Interval() time.Duration
}

// HandleRefresh re-requests fresh listings for every known item.
func HandleRefresh(svc planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		if err := svc.Refresh(r.Context()); err != nil {
			log.Error(ErrMsgRefreshFailed, "error", err)
			respondServiceError(w, err)
			return
		}

		log.Info(LogMsgRefreshRequested)
		respondJSON(w, http.StatusAccepted, SuccessResponse{Message: "Refresh queued"})
	}
}

// HandleSetAutoRefresh turns periodic listing refreshes on or off.
func HandleSetAutoRefresh(refresher AutoRefresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AutoRefreshRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Set auto refresh"); err != nil {
			return
		}

		refresher.SetEnabled(*req.Enabled)
		logger.FromContext(r.Context()).Info(LogMsgAutoRefreshToggle, "enabled", *req.Enabled)

		respondJSON(w, http.StatusOK, AutoRefreshResponse{
			Enabled:  refresher.Enabled(),
			Interval: refresher.Interval().String(),
		})
	}
}
