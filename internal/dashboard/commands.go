package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/models"
)

// loadTimeout bounds a single poll of the log store
const loadTimeout = 5 * time.Second

// tickMsg triggers an auto refresh. gen identifies the tick chain that produced it.
type tickMsg struct {
	gen  int
	Time time.Time
}

// logsLoadedMsg carries the result of one poll
type logsLoadedMsg struct {
	Logs []models.RequestLog
	Err  error
	At   time.Time
}

// tickCmd returns a command that sends a tickMsg after interval
func tickCmd(gen int, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, Time: t}
	})
}

// loadLogsCmd returns a command that reads the newest limit rows
func loadLogsCmd(reader LogReader, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		logs, err := reader.RecentRequestLogs(ctx, limit)
		return logsLoadedMsg{Logs: logs, Err: err, At: time.Now()}
	}
}
