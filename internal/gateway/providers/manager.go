package providers

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/config"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/metrics"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/models"
)

const (
	ModelSystemOverloaded = "System Overloaded"
	ModelConfigError      = "Error"

	overloadedMessage = "All Google models are currently busy. Please wait 30 seconds."
	emptySearchText   = "Search found no text."
)

// Route is the single backend call behind SIMPLE and MEDIUM
type Route struct {
	Model     string
	Label     string
	ErrorName string
	MaxTokens int
	Cost      decimal.Decimal
}

// Candidate is one entry of the HARD tier failover chain
type Candidate struct {
	Model      string
	LiveSearch bool
}

// DefaultRoutes maps the lower tiers to Groq models
var DefaultRoutes = map[models.Tier]Route{
	models.TierSimple: {
		Model:     "llama-3.1-8b-instant",
		Label:     "Llama-3.1-8b (Groq)",
		ErrorName: "Llama-3.1-8b",
		MaxTokens: 200,
		Cost:      decimal.RequireFromString("0.00005"),
	},
	models.TierMedium: {
		Model:     "llama-3.3-70b-versatile",
		Label:     "Llama-3.3-70b (Groq)",
		ErrorName: "Llama-3.3-70b",
		MaxTokens: 500,
		Cost:      decimal.RequireFromString("0.0005"),
	},
}

// DefaultCandidates is the HARD tier preference order. Only the 2.0 models get live search.
var DefaultCandidates = []Candidate{
	{Model: "gemini-2.0-flash", LiveSearch: true},
	{Model: "gemini-2.0-flash-lite-preview-02-05", LiveSearch: true},
	{Model: "gemini-1.5-flash", LiveSearch: false},
}

// HardCallCost is the nominal cost reported for a successful HARD call
var HardCallCost = decimal.RequireFromString("0.001")

// Manager dispatches a prompt to the backend for its tier and absorbs every provider fault
type Manager struct {
	groq       Provider // nil when GROQ_API_KEY is missing
	gemini     Provider // nil when GEMINI_API_KEY is missing
	routes     map[models.Tier]Route
	candidates []Candidate
	log        *zap.SugaredLogger
}

// NewManager creates a manager with providers for the configured API keys
func NewManager(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*Manager, error) {
	var groq, gemini Provider

	if cfg.GroqAPIKey != "" {
		groq = NewGroqProvider(cfg.GroqAPIKey, cfg.GroqBaseURL)
	}
	if cfg.GeminiAPIKey != "" {
		g, err := NewGeminiProvider(ctx, cfg.GeminiAPIKey, "")
		if err != nil {
			return nil, err
		}
		gemini = g
	}

	return NewManagerWithProviders(groq, gemini, log), nil
}

// NewManagerWithProviders creates a manager around existing providers. Either may be nil.
func NewManagerWithProviders(groq, gemini Provider, log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Manager{
		groq:       groq,
		gemini:     gemini,
		routes:     DefaultRoutes,
		candidates: DefaultCandidates,
		log:        log,
	}
}

// Candidates returns the HARD tier failover chain
func (m *Manager) Candidates() []Candidate {
	out := make([]Candidate, len(m.candidates))
	copy(out, m.candidates)
	return out
}

// Dispatch sends the prompt to the backend for its tier. It never returns an error:
// failures come back as degraded results.
func (m *Manager) Dispatch(ctx context.Context, tier models.Tier, prompt string) Result {
	switch tier {
	case models.TierSimple, models.TierMedium:
		return m.dispatchSingle(ctx, m.routes[tier], prompt)
	default:
		return m.dispatchHard(ctx, prompt)
	}
}

func (m *Manager) dispatchSingle(ctx context.Context, route Route, prompt string) Result {
	if m.groq == nil {
		metrics.Fallbacks.WithLabelValues("missing_credentials").Inc()
		return configError("GROQ_API_KEY")
	}

	resp, err := safeComplete(ctx, m.groq, CompletionRequest{
		Model:     route.Model,
		Prompt:    prompt,
		MaxTokens: route.MaxTokens,
	})
	if err != nil {
		metrics.DispatchAttempts.WithLabelValues(route.Model, "standard", outcome(err)).Inc()
		metrics.Fallbacks.WithLabelValues("backend_error").Inc()
		m.log.Warnw("Backend call failed", "model", route.Model, "error", err)
		return Result{
			Model:    route.ErrorName,
			Response: fmt.Sprintf("Error: %v", err),
			Cost:     decimal.Zero,
			Degraded: true,
		}
	}

	metrics.DispatchAttempts.WithLabelValues(route.Model, "standard", "success").Inc()
	return Result{
		Model:    route.Label,
		Response: resp.Text,
		Cost:     route.Cost,
	}
}

func (m *Manager) dispatchHard(ctx context.Context, prompt string) Result {
	if m.gemini == nil {
		metrics.Fallbacks.WithLabelValues("missing_credentials").Inc()
		return configError("GEMINI_API_KEY")
	}

	for _, candidate := range m.candidates {
		if candidate.LiveSearch {
			resp, err := safeComplete(ctx, m.gemini, CompletionRequest{
				Model:      candidate.Model,
				Prompt:     prompt,
				LiveSearch: true,
			})
			if err == nil {
				metrics.DispatchAttempts.WithLabelValues(candidate.Model, "live_search", "success").Inc()
				text := resp.Text
				if text == "" {
					text = emptySearchText
				}
				return Result{
					Model:    candidate.Model + " (Live Search)",
					Response: text,
					Cost:     HardCallCost,
				}
			}

			metrics.DispatchAttempts.WithLabelValues(candidate.Model, "live_search", outcome(err)).Inc()
			if IsQuotaError(err) {
				metrics.Fallbacks.WithLabelValues("quota").Inc()
				m.log.Warnw("Rate limit hit, switching to backup", "model", candidate.Model, "error", err)
				continue
			}

			metrics.Fallbacks.WithLabelValues("search_failed").Inc()
			m.log.Warnw("Search failed, retrying without search", "model", candidate.Model, "error", err)
		}

		resp, err := safeComplete(ctx, m.gemini, CompletionRequest{
			Model:  candidate.Model,
			Prompt: prompt,
		})
		if err == nil {
			metrics.DispatchAttempts.WithLabelValues(candidate.Model, "standard", "success").Inc()
			return Result{
				Model:    candidate.Model + " (Standard)",
				Response: resp.Text,
				Cost:     HardCallCost,
			}
		}

		metrics.DispatchAttempts.WithLabelValues(candidate.Model, "standard", outcome(err)).Inc()
		if IsQuotaError(err) {
			metrics.Fallbacks.WithLabelValues("quota").Inc()
			m.log.Warnw("Rate limit hit, switching to backup", "model", candidate.Model, "error", err)
		} else {
			metrics.Fallbacks.WithLabelValues("candidate_failed").Inc()
			m.log.Errorw("Candidate failed", "model", candidate.Model, "error", err)
		}
	}

	metrics.Fallbacks.WithLabelValues("exhausted").Inc()
	m.log.Errorw("All HARD tier candidates exhausted", "candidates", len(m.candidates))
	return Result{
		Model:    ModelSystemOverloaded,
		Response: overloadedMessage,
		Cost:     decimal.Zero,
		Degraded: true,
	}
}

// safeComplete turns a provider panic into an error so it takes the normal fallback path
func safeComplete(ctx context.Context, p Provider, req CompletionRequest) (resp *CompletionResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = fmt.Errorf("%s %s: provider panic: %v", p.Name(), req.Model, r)
		}
	}()

	resp, err = p.Complete(ctx, req)
	if err == nil && resp == nil {
		err = fmt.Errorf("%s %s: empty response", p.Name(), req.Model)
	}
	return resp, err
}

func configError(envVar string) Result {
	return Result{
		Model:    ModelConfigError,
		Response: envVar + " missing",
		Cost:     decimal.Zero,
		Degraded: true,
	}
}

func outcome(err error) string {
	if IsQuotaError(err) {
		return "quota"
	}
	return "error"
}
