package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	queries "github.com/taskvault/taskvault/internal/insights/application/queries"
	"github.com/taskvault/taskvault/internal/shared/infrastructure/cache"
)

// StatsHandler handles the statistics endpoints. Responses are cached per
// user with a short TTL; any cache failure falls through to recomputation.
type StatsHandler struct {
	summary           *queries.TaskSummaryHandler
	pendingBreakdown  *queries.PendingBreakdownHandler
	priorityBreakdown *queries.PriorityBreakdownHandler
	cache             cache.Cache
	cacheTTL          time.Duration
	logger            *slog.Logger
}

// StatsHandlerConfig holds dependencies for the statistics handler.
type StatsHandlerConfig struct {
	Summary           *queries.TaskSummaryHandler
	PendingBreakdown  *queries.PendingBreakdownHandler
	PriorityBreakdown *queries.PriorityBreakdownHandler
	Cache             cache.Cache
	CacheTTL          time.Duration
	Logger            *slog.Logger
}

// NewStatsHandler creates a new statistics handler.
func NewStatsHandler(cfg StatsHandlerConfig) *StatsHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNoop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	return &StatsHandler{
		summary:           cfg.Summary,
		pendingBreakdown:  cfg.PendingBreakdown,
		priorityBreakdown: cfg.PriorityBreakdown,
		cache:             cfg.Cache,
		cacheTTL:          cfg.CacheTTL,
		logger:            cfg.Logger,
	}
}

// Summary handles GET /api/tasks/statistics.
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "summary", func(userID uuid.UUID) (any, error) {
		return h.summary.Handle(r.Context(), queries.TaskSummaryQuery{UserID: userID})
	})
}

// PendingBreakdown handles GET /api/tasks/pending-tasks.
func (h *StatsHandler) PendingBreakdown(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "pending", func(userID uuid.UUID) (any, error) {
		return h.pendingBreakdown.Handle(r.Context(), queries.PendingBreakdownQuery{UserID: userID})
	})
}

// PriorityBreakdown handles GET /api/tasks/priority-pending-tasks.
func (h *StatsHandler) PriorityBreakdown(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "priority", func(userID uuid.UUID) (any, error) {
		return h.priorityBreakdown.Handle(r.Context(), queries.PriorityBreakdownQuery{UserID: userID})
	})
}

func (h *StatsHandler) serve(w http.ResponseWriter, r *http.Request, kind string, compute func(userID uuid.UUID) (any, error)) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing authentication")
		return
	}

	key := statsKeyPrefix(userID) + kind
	if cached, err := h.cache.Get(r.Context(), key); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(cached)
		return
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		h.logger.Warn("statistics cache read failed", "error", err)
	}

	result, err := compute(userID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		h.logger.Error("failed to marshal statistics", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.cache.Set(r.Context(), key, payload, h.cacheTTL); err != nil {
		h.logger.Warn("statistics cache write failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func statsKeyPrefix(userID uuid.UUID) string {
	return "stats:" + userID.String() + ":"
}
