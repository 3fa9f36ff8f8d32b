package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tier is the difficulty classification assigned to a prompt
type Tier string

const (
	TierSimple Tier = "SIMPLE"
	TierMedium Tier = "MEDIUM"
	TierHard   Tier = "HARD"
)

// Tiers lists every tier from cheapest to most expensive
var Tiers = []Tier{TierSimple, TierMedium, TierHard}

func (t Tier) String() string {
	return string(t)
}

// Valid reports whether t is one of the known tiers
func (t Tier) Valid() bool {
	switch t {
	case TierSimple, TierMedium, TierHard:
		return true
	}
	return false
}

// ParseTier parses a tier name case-insensitively
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}

// RequestLog is one routed request. Rows are append-only.
type RequestLog struct {
	ID               string
	Timestamp        time.Time
	PromptText       string
	Tier             Tier
	ModelUsed        string
	TokenCount       int
	ActualCost       decimal.Decimal
	HypotheticalCost decimal.Decimal
	Savings          decimal.Decimal
}
