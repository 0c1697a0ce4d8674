package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/pkg/logger"
	"github.com/okian/scoreboard/pkg/metrics"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	ListTop(ctx context.Context) ([]model.ScoreRecord, error)
	Submit(ctx context.Context, name string, score float64) (model.ScoreRecord, error)
}

// LeaderboardHandler handles /api/leaderboard requests.
type LeaderboardHandler struct {
	deps   LeaderboardDependencies
	logger logger.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, log logger.Logger) *LeaderboardHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &LeaderboardHandler{deps: deps, logger: log}
}

// HandleLeaderboard dispatches on the request method.
func (h *LeaderboardHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.HandleGetLeaderboard(w, r)
	case http.MethodPost:
		h.HandlePostScore(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

// HandleGetLeaderboard handles GET /api/leaderboard.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	records, err := h.deps.ListTop(ctx)
	if err != nil {
		h.logger.Error(ctx, "fetching leaderboard failed",
			logger.String("requestId", RequestIDFromContext(ctx)),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	writeJSON(w, http.StatusOK, scoreList(records))
}

// HandlePostScore handles POST /api/leaderboard.
func (h *LeaderboardHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sub, err := decodeScoreRequest(w, r)
	if err != nil {
		metrics.RecordValidationFailure()
		h.logger.Debug(ctx, "rejected score submission",
			logger.String("requestId", RequestIDFromContext(ctx)),
			logger.Error(err),
		)
		writeError(w, http.StatusBadRequest, msgInvalidSubmit)
		return
	}

	rec, err := h.deps.Submit(ctx, sub.Name, sub.Score)
	if err != nil {
		level := h.logger.Error
		if errors.Is(err, context.Canceled) {
			level = h.logger.Warn
		}
		level(ctx, "saving score failed",
			logger.String("requestId", RequestIDFromContext(ctx)),
			logger.String("name", sub.Name),
			logger.Float64("score", sub.Score),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, msgSaveFailed)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
