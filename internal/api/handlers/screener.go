package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/internal/dashboard"
	"github.com/investimentigrugno/screener/internal/presentation"
	"github.com/investimentigrugno/screener/internal/selection"
	"github.com/investimentigrugno/screener/pkg/logger"
)

// RunHistory reads persisted refresh runs
type RunHistory interface {
	GetRunHistory(ctx context.Context, limit int) ([]contracts.RunSummary, error)
	GetRun(ctx context.Context, runID string) (*contracts.RunSummary, error)
	GetLatestPicks(ctx context.Context, limit int) ([]contracts.Pick, error)
}

// ScreenerHandler handles screener API endpoints
// ⭐ SSOT: screener API handlers live in this struct only
type ScreenerHandler struct {
	orchestrator *dashboard.Orchestrator
	runs         RunHistory // optional
	validate     *validator.Validate
	logger       *logger.Logger
}

// NewScreenerHandler creates a new screener handler. runs may be nil.
func NewScreenerHandler(orchestrator *dashboard.Orchestrator, runs RunHistory, log *logger.Logger) *ScreenerHandler {
	return &ScreenerHandler{
		orchestrator: orchestrator,
		runs:         runs,
		validate:     validator.New(),
		logger:       log,
	}
}

// listParams are the query parameters of list endpoints
type listParams struct {
	Limit    int     `validate:"gte=0,lte=1000"`
	MinScore float64 `validate:"gte=0,lte=100"`
	K        int     `validate:"gte=0,lte=100"`
}

// SnapshotMeta describes the snapshot a response was built from
type SnapshotMeta struct {
	RunID       string    `json:"runId"`
	CreatedAt   time.Time `json:"createdAt"`
	Market      string    `json:"market"`
	ProfileHash string    `json:"profileHash,omitempty"`
	Stale       bool      `json:"stale"`
	StaleReason string    `json:"staleReason,omitempty"`
}

func metaOf(snap *contracts.Snapshot) SnapshotMeta {
	return SnapshotMeta{
		RunID:       snap.RunID,
		CreatedAt:   snap.CreatedAt,
		Market:      snap.Market,
		ProfileHash: snap.ProfileHash,
		Stale:       snap.Stale,
		StaleReason: snap.StaleReason,
	}
}

// ScreenerResponse is the ranked table
type ScreenerResponse struct {
	Snapshot   SnapshotMeta              `json:"snapshot"`
	TotalInput int                       `json:"totalInput"`
	Total      int                       `json:"total"`
	Filtered   map[string]int            `json:"filtered"`
	Rows       []presentation.DisplayRow `json:"rows"`
	Equities   []contracts.RankedEquity  `json:"equities"`
}

// GetScreener returns the ranked, screened equities
// GET /api/screener?limit=50&min_score=40
func (h *ScreenerHandler) GetScreener(w http.ResponseWriter, r *http.Request) {
	params, err := h.parseParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, ok := h.latest(w)
	if !ok {
		return
	}

	equities := make([]contracts.RankedEquity, 0, len(snap.Ranked))
	for _, re := range snap.Ranked {
		if re.InvestmentScore < params.MinScore {
			continue
		}
		equities = append(equities, re)
		if params.Limit > 0 && len(equities) == params.Limit {
			break
		}
	}

	respondJSON(w, http.StatusOK, ScreenerResponse{
		Snapshot:   metaOf(snap),
		TotalInput: snap.TotalInput,
		Total:      len(equities),
		Filtered:   snap.Filtered,
		Rows:       presentation.Rows(equities),
		Equities:   equities,
	})
}

// GetTop returns the top k picks with rationale
// GET /api/top?k=5
func (h *ScreenerHandler) GetTop(w http.ResponseWriter, r *http.Request) {
	params, err := h.parseParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.orchestrator.Latest()
	if errors.Is(err, dashboard.ErrNoSnapshot) && h.runs != nil {
		h.persistedTop(w, r, params.K, err)
		return
	}
	if err != nil {
		h.respondSnapshotError(w, err)
		return
	}

	picks := snap.Picks
	if params.K > 0 {
		picks = h.orchestrator.TopOf(snap, params.K)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"snapshot": metaOf(snap),
		"picks":    picks,
	})
}

// persistedTop serves the picks of the last stored run until the first refresh lands
func (h *ScreenerHandler) persistedTop(w http.ResponseWriter, r *http.Request, k int, cause error) {
	if k == 0 {
		k = selection.DefaultTopN
	}

	picks, err := h.runs.GetLatestPicks(r.Context(), k)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to read persisted picks")
		h.respondSnapshotError(w, cause)
		return
	}
	if len(picks) == 0 {
		h.respondSnapshotError(w, cause)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"persisted": true,
		"picks":     picks,
	})
}

// GetNews returns the news collected for the current picks
// GET /api/news
func (h *ScreenerHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.latest(w)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"snapshot": metaOf(snap),
		"news":     snap.News,
	})
}

// Refresh runs a refresh synchronously
// POST /api/refresh
func (h *ScreenerHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.orchestrator.Refresh(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Manual refresh failed")

		body := map[string]interface{}{"error": err.Error()}
		if snap != nil {
			body["snapshot"] = metaOf(snap)
		}
		respondJSON(w, http.StatusBadGateway, body)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"snapshot": metaOf(snap),
		"scored":   len(snap.Scored),
		"passed":   len(snap.Ranked),
		"picks":    len(snap.Picks),
		"news":     len(snap.News),
	})
}

// ExportCSV streams the ranked table as CSV
// GET /api/export.csv
func (h *ScreenerHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.latest(w)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\"screener_"+snap.CreatedAt.Format("20060102_1504")+".csv\"")

	if err := presentation.WriteCSV(w, presentation.Rows(snap.Ranked)); err != nil {
		h.logger.WithError(err).Error("Failed to write CSV export")
	}
}

// GetRuns returns persisted run history
// GET /api/runs?limit=20
func (h *ScreenerHandler) GetRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, http.StatusNotFound, "Run history requires DATABASE_URL")
		return
	}

	params, err := h.parseParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if params.Limit == 0 {
		params.Limit = 20
	}

	runs, err := h.runs.GetRunHistory(r.Context(), params.Limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get run history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve run history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// GetRunByID returns one persisted run
// GET /api/runs/{id}
func (h *ScreenerHandler) GetRunByID(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, http.StatusNotFound, "Run history requires DATABASE_URL")
		return
	}

	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid run id")
		return
	}

	run, err := h.runs.GetRun(r.Context(), id)
	if errors.Is(err, selection.ErrNoRuns) {
		respondError(w, http.StatusNotFound, "Run not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("run_id", id).Error("Failed to get run")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve run")
		return
	}

	respondJSON(w, http.StatusOK, run)
}

func (h *ScreenerHandler) parseParams(r *http.Request) (listParams, error) {
	var p listParams
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, errors.New("limit must be an integer")
		}
		p.Limit = n
	}
	if v := q.Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, errors.New("k must be an integer")
		}
		p.K = n
	}
	if v := q.Get("min_score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, errors.New("min_score must be a number")
		}
		p.MinScore = f
	}

	if err := h.validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return p, errors.New(verrs[0].Field() + " out of range")
		}
		return p, err
	}
	return p, nil
}

func (h *ScreenerHandler) latest(w http.ResponseWriter) (*contracts.Snapshot, bool) {
	snap, err := h.orchestrator.Latest()
	if err != nil {
		h.respondSnapshotError(w, err)
		return nil, false
	}
	return snap, true
}

func (h *ScreenerHandler) respondSnapshotError(w http.ResponseWriter, err error) {
	if errors.Is(err, dashboard.ErrNoSnapshot) {
		respondError(w, http.StatusServiceUnavailable, "No data yet, refresh in progress")
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
