package pricing

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestEstimate_HiScenario(t *testing.T) {
	c := Estimate("hi", models.TierSimple)

	assertDecimal(t, "1", c.EstTokens)
	assert.Equal(t, 1, c.TokenCount)
	assertDecimal(t, "0.000005", c.HypotheticalCost)
	assertDecimal(t, "0.00000005", c.ActualCost)
	assertDecimal(t, "0.00000495", c.Savings)
	assert.Equal(t, "$0.00000495", FormatUSD(c.Savings))
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
	}{
		{"", "1"},
		{"a", "1"},
		{"abcd", "1"},
		{"abcdef", "1.5"},
		{"0123456789", "2.5"},
		{strings.Repeat("x", 400), "100"},
		{strings.Repeat("ü", 8), "2"},
	}

	for _, tt := range tests {
		assertDecimal(t, tt.want, EstimateTokens(tt.prompt))
	}
}

func TestEstimate_FractionalTokensPriceExactly(t *testing.T) {
	c := Estimate("0123456789", models.TierMedium)

	assert.Equal(t, 2, c.TokenCount)
	assertDecimal(t, "0.0000125", c.HypotheticalCost)
	assertDecimal(t, "0.00000125", c.ActualCost)
	assertDecimal(t, "0.00001125", c.Savings)
}

func TestEstimate_HardSavingsAlwaysZero(t *testing.T) {
	prompts := []string{"", "latest news", "debug my code " + strings.Repeat("please ", 50)}
	for _, p := range prompts {
		c := Estimate(p, models.TierHard)
		assert.True(t, c.ActualCost.Equal(c.HypotheticalCost), p)
		assert.True(t, c.Savings.IsZero(), p)
	}
}

func TestEstimate_LowerTiersNeverNegative(t *testing.T) {
	for _, tier := range []models.Tier{models.TierSimple, models.TierMedium} {
		for n := 0; n < 300; n += 7 {
			c := Estimate(strings.Repeat("w", n), tier)
			assert.False(t, c.Savings.IsNegative(), "tier %s n %d", tier, n)
			assert.True(t, c.Savings.Equal(c.HypotheticalCost.Sub(c.ActualCost)))
		}
	}
}

func TestUnitPrice(t *testing.T) {
	assertDecimal(t, "0.05", UnitPrice(models.TierSimple))
	assertDecimal(t, "0.50", UnitPrice(models.TierMedium))
	assertDecimal(t, "5.00", UnitPrice(models.TierHard))
	assert.True(t, PriceTopTier.GreaterThan(PriceSimple))
	assert.True(t, PriceTopTier.GreaterThan(PriceMedium))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0.00000000", FormatUSD(decimal.Zero))
	assert.Equal(t, "$1.50000000", FormatUSD(dec("1.5")))
}
