// Package pricing estimates request cost and savings against the top-tier model.
package pricing

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/models"
)

// Prices in USD per million tokens.
var (
	PriceTopTier = decimal.RequireFromString("5.00")
	PriceSimple  = decimal.RequireFromString("0.05")
	PriceMedium  = decimal.RequireFromString("0.50")
)

// CharsPerToken is the fixed characters-per-token heuristic.
const CharsPerToken = 4

var (
	oneMillion    = decimal.NewFromInt(1_000_000)
	minTokens     = decimal.NewFromInt(1)
	charsPerToken = decimal.NewFromInt(CharsPerToken)
)

// Cost is the estimate for one request
type Cost struct {
	// EstTokens keeps the fractional estimate used for pricing.
	EstTokens        decimal.Decimal
	TokenCount       int
	ActualCost       decimal.Decimal
	HypotheticalCost decimal.Decimal
	Savings          decimal.Decimal
}

// EstimateTokens returns max(1, characters/4). The result may be fractional.
func EstimateTokens(prompt string) decimal.Decimal {
	chars := decimal.NewFromInt(int64(utf8.RuneCountInString(prompt)))
	return decimal.Max(minTokens, chars.Div(charsPerToken))
}

// UnitPrice returns the per-million-token price actually paid for a tier
func UnitPrice(tier models.Tier) decimal.Decimal {
	switch tier {
	case models.TierSimple:
		return PriceSimple
	case models.TierMedium:
		return PriceMedium
	default:
		return PriceTopTier
	}
}

// Estimate prices a prompt for the given tier. HARD is billed at the top-tier
// price, so its savings are always zero.
func Estimate(prompt string, tier models.Tier) Cost {
	tokens := EstimateTokens(prompt)
	millions := tokens.Div(oneMillion)

	hypothetical := millions.Mul(PriceTopTier)
	actual := hypothetical
	if tier == models.TierSimple || tier == models.TierMedium {
		actual = millions.Mul(UnitPrice(tier))
	}

	return Cost{
		EstTokens:        tokens,
		TokenCount:       int(tokens.IntPart()),
		ActualCost:       actual,
		HypotheticalCost: hypothetical,
		Savings:          hypothetical.Sub(actual),
	}
}

// FormatUSD renders an amount as "$0.00000495"
func FormatUSD(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(8)
}
