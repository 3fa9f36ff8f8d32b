package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/analytics"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/gateway/pricing"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/models"
)

const (
	maxBarWidth   = 40
	chartHeight   = 8
	minChartWidth = 30
)

// WaitingMessage is shown until the first request is logged
const WaitingMessage = "Waiting for data... send a prompt to POST /generate."

// View renders the dashboard
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Cost-Control Smart Router"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render("Error loading logs: " + m.err.Error()))
		b.WriteString("\n")
	}

	switch {
	case !m.loaded && m.err == nil:
		b.WriteString(WaitingStyle.Render("Loading..."))
	case m.summary.TotalRequests == 0:
		b.WriteString(WaitingStyle.Render(WaitingMessage))
	default:
		b.WriteString(m.renderSummary())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *Model) renderSummary() string {
	s := m.summary

	banner := BannerStyle.Render("Total Money Saved: " + pricing.FormatUSD(s.TotalSaved))

	last := "never"
	if s.LastRequest != nil {
		last = humanize.Time(*s.LastRequest)
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Requests", strconv.Itoa(s.TotalRequests)),
		card("Models Used", strconv.Itoa(s.ModelsUsed)),
		card("Actual Spend", pricing.FormatUSD(s.TotalActualCost)),
		card("Last Request", last),
	)

	sections := []string{
		banner,
		cards,
		SectionStyle.Render("Model Distribution"),
		renderDistribution(s.ModelDistribution),
		SectionStyle.Render("Tiers"),
		renderTiers(s.TierDistribution),
		SectionStyle.Render("Cumulative Savings"),
		renderSavingsChart(s.CumulativeSavings, m.width),
		SectionStyle.Render("Recent Logs"),
		m.table.View(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHelp() string {
	auto := "off"
	if m.auto {
		auto = "every " + m.interval.String()
	}
	updated := "-"
	if !m.lastUpdated.IsZero() {
		updated = m.lastUpdated.Format("15:04:05")
	}
	return HelpStyle.Render(fmt.Sprintf(
		"auto refresh: %s | updated: %s | a: toggle auto  r: refresh  +/-: interval  q: quit",
		auto, updated,
	))
}

func card(label, value string) string {
	return CardStyle.Render(LabelStyle.Render(label) + "\n" + ValueStyle.Render(value))
}

// renderDistribution draws one horizontal bar per model, scaled to the largest count
func renderDistribution(counts []analytics.ModelCount) string {
	if len(counts) == 0 {
		return LabelStyle.Render("No data")
	}

	maxCount, labelWidth := 0, 0
	for _, c := range counts {
		if c.Count > maxCount {
			maxCount = c.Count
		}
		if w := lipgloss.Width(c.Model); w > labelWidth {
			labelWidth = w
		}
	}

	lines := make([]string, 0, len(counts))
	for _, c := range counts {
		n := c.Count * maxBarWidth / maxCount
		if n == 0 {
			n = 1
		}
		lines = append(lines, fmt.Sprintf("%-*s %s %d",
			labelWidth, c.Model, BarStyle.Render(strings.Repeat("█", n)), c.Count))
	}
	return strings.Join(lines, "\n")
}

func renderTiers(dist map[models.Tier]int) string {
	parts := make([]string, 0, len(models.Tiers))
	for _, t := range models.Tiers {
		parts = append(parts, fmt.Sprintf("%s %d", t, dist[t]))
	}
	return strings.Join(parts, "   ")
}

func renderSavingsChart(series []float64, width int) string {
	if len(series) < 2 {
		return LabelStyle.Render("Not enough data to chart")
	}

	w := width - 15
	if w < minChartWidth {
		w = minChartWidth
	}
	return asciigraph.Plot(series,
		asciigraph.Height(chartHeight),
		asciigraph.Width(w),
		asciigraph.Precision(8),
		asciigraph.Caption("USD saved over the last "+strconv.Itoa(len(series))+" requests"),
	)
}

// tableColumns sizes the prompt column to the terminal width
func tableColumns(width int) []table.Column {
	prompt := width - 8 - 8 - 32 - 7 - 12 - 14
	if prompt < 20 {
		prompt = 20
	}
	return []table.Column{
		{Title: "Time", Width: 8},
		{Title: "Tier", Width: 8},
		{Title: "Model", Width: 32},
		{Title: "Tokens", Width: 7},
		{Title: "Saved", Width: 12},
		{Title: "Prompt", Width: prompt},
	}
}

func tableRows(logs []models.RequestLog) []table.Row {
	rows := make([]table.Row, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, table.Row{
			l.Timestamp.Local().Format("15:04:05"),
			l.Tier.String(),
			l.ModelUsed,
			strconv.Itoa(l.TokenCount),
			pricing.FormatUSD(l.Savings),
			strings.ReplaceAll(l.PromptText, "\n", " "),
		})
	}
	return rows
}
