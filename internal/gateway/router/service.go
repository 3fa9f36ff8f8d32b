// Package router runs a prompt through classification, dispatch, pricing and logging.
package router

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/analytics"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/gateway/classifier"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/gateway/pricing"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/gateway/providers"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/metrics"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/models"
)

// Dispatcher sends a prompt to the backend for a tier
type Dispatcher interface {
	Dispatch(ctx context.Context, tier models.Tier, prompt string) providers.Result
}

// Recorder persists a request log without reporting failures
type Recorder interface {
	Record(ctx context.Context, entry *models.RequestLog)
}

// LogReader is the read side of the log store
type LogReader interface {
	RecentRequestLogs(ctx context.Context, limit int) ([]models.RequestLog, error)
}

// ResultCache caches dispatch results by tier and prompt
type ResultCache interface {
	Get(ctx context.Context, tier models.Tier, prompt string) (*providers.Result, error)
	Set(ctx context.Context, tier models.Tier, prompt string, result providers.Result) error
}

// Outcome is everything the caller learns about a routed request
type Outcome struct {
	Tier     models.Tier
	Model    string
	Content  string
	Cost     pricing.Cost
	CacheHit bool
	Degraded bool
}

// Service wires the routing pipeline
type Service struct {
	dispatcher Dispatcher
	recorder   Recorder
	reader     LogReader
	cache      ResultCache // optional
	log        *zap.SugaredLogger
}

// NewService creates a routing service. cache may be nil.
func NewService(dispatcher Dispatcher, recorder Recorder, reader LogReader, cache ResultCache, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		dispatcher: dispatcher,
		recorder:   recorder,
		reader:     reader,
		cache:      cache,
		log:        log,
	}
}

// Generate classifies, dispatches, prices and records one prompt. It always produces an outcome.
func (s *Service) Generate(ctx context.Context, prompt string) Outcome {
	decision := classifier.Explain(prompt)
	tier := decision.Tier
	metrics.RequestsByTier.WithLabelValues(tier.String()).Inc()

	s.log.Debugw("Prompt classified",
		"tier", tier,
		"rule", decision.Rule,
		"keyword", decision.Keyword,
		"chars", utf8.RuneCountInString(prompt),
	)

	result, cacheHit := s.lookup(ctx, tier, prompt)
	if !cacheHit {
		result = s.dispatcher.Dispatch(ctx, tier, prompt)
		s.store(ctx, tier, prompt, result)
	}

	cost := pricing.Estimate(prompt, tier)
	metrics.SavingsUSD.WithLabelValues(tier.String()).Add(cost.Savings.InexactFloat64())
	metrics.ActualCostUSD.WithLabelValues(tier.String()).Add(cost.ActualCost.InexactFloat64())

	s.recorder.Record(ctx, &models.RequestLog{
		PromptText:       prompt,
		Tier:             tier,
		ModelUsed:        result.Model,
		TokenCount:       cost.TokenCount,
		ActualCost:       cost.ActualCost,
		HypotheticalCost: cost.HypotheticalCost,
		Savings:          cost.Savings,
	})

	return Outcome{
		Tier:     tier,
		Model:    result.Model,
		Content:  result.Response,
		Cost:     cost,
		CacheHit: cacheHit,
		Degraded: result.Degraded,
	}
}

func (s *Service) lookup(ctx context.Context, tier models.Tier, prompt string) (providers.Result, bool) {
	if s.cache == nil {
		return providers.Result{}, false
	}

	cached, err := s.cache.Get(ctx, tier, prompt)
	if err != nil || cached == nil {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return providers.Result{}, false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return *cached, true
}

func (s *Service) store(ctx context.Context, tier models.Tier, prompt string, result providers.Result) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, tier, prompt, result); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		s.log.Warnw("Failed to cache result", "tier", tier, "error", err)
	}
}

// RecentLogs returns the newest limit rows
func (s *Service) RecentLogs(ctx context.Context, limit int) ([]models.RequestLog, error) {
	logs, err := s.reader.RecentRequestLogs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load request logs: %w", err)
	}
	return logs, nil
}

// Stats summarizes the newest limit rows
func (s *Service) Stats(ctx context.Context, limit int) (analytics.Summary, error) {
	logs, err := s.RecentLogs(ctx, limit)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(logs), nil
}
