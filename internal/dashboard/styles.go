package dashboard

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	Primary   = lipgloss.Color("42")  // Green
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray
	Error     = lipgloss.Color("196") // Red
	Warning   = lipgloss.Color("220") // Yellow

	TextPrimary = lipgloss.Color("252")
	TextMuted   = lipgloss.Color("245")
	BgAccent    = lipgloss.Color("236")
)

var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary).
	MarginBottom(1)

// BannerStyle frames the total savings figure
var BannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(0, 2)

var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(0, 1).
	MarginRight(1)

var LabelStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

var ValueStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextPrimary)

var SectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary).
	MarginTop(1)

var BarStyle = lipgloss.NewStyle().
	Foreground(Primary)

var ErrorStyle = lipgloss.NewStyle().
	Foreground(Error).
	Bold(true)

var WaitingStyle = lipgloss.NewStyle().
	Foreground(Warning).
	Italic(true)

var HelpStyle = lipgloss.NewStyle().
	Foreground(Subtle).
	MarginTop(1)
