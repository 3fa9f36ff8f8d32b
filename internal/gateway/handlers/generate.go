package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/analytics"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/gateway/pricing"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/gateway/router"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/models"
)

// MaxLogsLimit caps the limit query parameter
const MaxLogsLimit = 500

// RoutingService is the part of router.Service the handlers need
type RoutingService interface {
	Generate(ctx context.Context, prompt string) router.Outcome
	RecentLogs(ctx context.Context, limit int) ([]models.RequestLog, error)
	Stats(ctx context.Context, limit int) (analytics.Summary, error)
}

type RouterHandler struct {
	service      RoutingService
	defaultLimit int
	log          *zap.SugaredLogger
}

func NewRouterHandler(service RoutingService, defaultLimit int, log *zap.SugaredLogger) *RouterHandler {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &RouterHandler{
		service:      service,
		defaultLimit: defaultLimit,
		log:          log,
	}
}

// GenerateRequest is the body of POST /generate
type GenerateRequest struct {
	Prompt *string `json:"prompt"`
}

// GenerateResponse is the body returned by POST /generate
type GenerateResponse struct {
	RouterDecision models.Tier `json:"router_decision"`
	ModelUsed      string      `json:"model_used"`
	Content        string      `json:"content"`
	CostSaved      string      `json:"cost_saved"`
}

// LogEntry is one row of GET /logs
type LogEntry struct {
	ID               string      `json:"id"`
	Timestamp        time.Time   `json:"timestamp"`
	PromptText       string      `json:"prompt_text"`
	DifficultyLevel  models.Tier `json:"difficulty_level"`
	ModelUsed        string      `json:"model_used"`
	TokenCount       int         `json:"token_count"`
	ActualCost       float64     `json:"actual_cost"`
	HypotheticalCost float64     `json:"hypothetical_cost_gpt4"`
	MoneySaved       float64     `json:"money_saved"`
}

// HandleGenerate handles POST /generate
func (h *RouterHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Prompt == nil {
		http.Error(w, "prompt is required", http.StatusUnprocessableEntity)
		return
	}

	out := h.service.Generate(r.Context(), *req.Prompt)

	w.Header().Set("X-Router-Tier", out.Tier.String())
	w.Header().Set("X-Cache-Hit", strconv.FormatBool(out.CacheHit))
	if out.Degraded {
		w.Header().Set("X-Degraded", "true")
	}

	writeJSON(w, h.log, GenerateResponse{
		RouterDecision: out.Tier,
		ModelUsed:      out.Model,
		Content:        out.Content,
		CostSaved:      pricing.FormatUSD(out.Cost.Savings),
	})
}

// HandleLogs handles GET /logs
func (h *RouterHandler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	logs, err := h.service.RecentLogs(r.Context(), limit)
	if err != nil {
		h.log.Errorw("Failed to read request logs", "error", err)
		http.Error(w, "failed to read logs", http.StatusInternalServerError)
		return
	}

	entries := make([]LogEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, LogEntry{
			ID:               l.ID,
			Timestamp:        l.Timestamp,
			PromptText:       l.PromptText,
			DifficultyLevel:  l.Tier,
			ModelUsed:        l.ModelUsed,
			TokenCount:       l.TokenCount,
			ActualCost:       l.ActualCost.InexactFloat64(),
			HypotheticalCost: l.HypotheticalCost.InexactFloat64(),
			MoneySaved:       l.Savings.InexactFloat64(),
		})
	}

	writeJSON(w, h.log, entries)
}

// HandleStats handles GET /stats
func (h *RouterHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Stats(r.Context(), limit)
	if err != nil {
		h.log.Errorw("Failed to compute stats", "error", err)
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.log, summary)
}

// parseLimit reads ?limit=N. Missing means the default; values above MaxLogsLimit are clamped.
func (h *RouterHandler) parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.defaultLimit, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	if limit > MaxLogsLimit {
		limit = MaxLogsLimit
	}
	return limit, true
}

func writeJSON(w http.ResponseWriter, log *zap.SugaredLogger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnw("Failed to write response", "error", err)
	}
}
