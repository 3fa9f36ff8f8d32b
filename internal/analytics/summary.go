// Package analytics aggregates request logs for the stats endpoint and the dashboard.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/models"
)

// ModelCount is one bar of the model distribution
type ModelCount struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}

// Summary holds aggregate metrics over a window of request logs
type Summary struct {
	TotalRequests     int                 `json:"total_requests"`
	TotalSaved        decimal.Decimal     `json:"total_saved"`
	TotalActualCost   decimal.Decimal     `json:"total_actual_cost"`
	ModelsUsed        int                 `json:"models_used"`
	LastRequest       *time.Time          `json:"last_request,omitempty"`
	ModelDistribution []ModelCount        `json:"model_distribution"`
	TierDistribution  map[models.Tier]int `json:"tier_distribution"`
	// CumulativeSavings is the running total in chronological order, for charting.
	CumulativeSavings []float64 `json:"cumulative_savings"`
}

// Summarize aggregates logs. Input order does not matter.
func Summarize(logs []models.RequestLog) Summary {
	s := Summary{
		TotalSaved:        decimal.Zero,
		TotalActualCost:   decimal.Zero,
		ModelDistribution: []ModelCount{},
		TierDistribution:  map[models.Tier]int{},
		CumulativeSavings: []float64{},
	}
	if len(logs) == 0 {
		return s
	}

	chronological := make([]models.RequestLog, len(logs))
	copy(chronological, logs)
	sort.SliceStable(chronological, func(i, j int) bool {
		return chronological[i].Timestamp.Before(chronological[j].Timestamp)
	})

	modelCounts := map[string]int{}
	running := decimal.Zero
	for _, l := range chronological {
		s.TotalRequests++
		s.TotalActualCost = s.TotalActualCost.Add(l.ActualCost)
		running = running.Add(l.Savings)
		s.CumulativeSavings = append(s.CumulativeSavings, running.InexactFloat64())
		modelCounts[l.ModelUsed]++
		s.TierDistribution[l.Tier]++
	}
	s.TotalSaved = running

	last := chronological[len(chronological)-1].Timestamp
	s.LastRequest = &last

	s.ModelsUsed = len(modelCounts)
	for model, count := range modelCounts {
		s.ModelDistribution = append(s.ModelDistribution, ModelCount{Model: model, Count: count})
	}
	sort.Slice(s.ModelDistribution, func(i, j int) bool {
		a, b := s.ModelDistribution[i], s.ModelDistribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Model < b.Model
	})

	return s
}
