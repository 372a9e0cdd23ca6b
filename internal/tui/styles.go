package tui

import "github.com/charmbracelet/lipgloss"

// Palette follows the workspace's dark-navy theme
var (
	colorNavy    = lipgloss.Color("#171A29")
	colorInk     = lipgloss.Color("#1F2338")
	colorBlue    = lipgloss.Color("#2563EB")
	colorRed     = lipgloss.Color("#EF4444")
	colorGreen   = lipgloss.Color("#16A34A")
	colorMuted   = lipgloss.Color("#64748B")
	colorLight   = lipgloss.Color("#F8FAFC")
	colorSubtle  = lipgloss.Color("#CBD5E1")
	colorWarning = lipgloss.Color("#F59E0B")
)

var (
	logoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLight).
			Background(colorBlue).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSubtle)

	onlineBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLight).
			Background(colorGreen).
			Padding(0, 1)

	offlineBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLight).
			Background(colorRed).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			Underline(true)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorGreen)

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(colorLight).
			Background(colorInk).
			Padding(0, 1)

	assistantBubbleStyle = lipgloss.NewStyle().
				Foreground(colorNavy).
				Background(colorLight).
				Padding(0, 1)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorBlue).
			PaddingLeft(1)

	successToastStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorLight).
				Background(colorGreen).
				Padding(0, 2)

	errorToastStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLight).
			Background(colorRed).
			Padding(0, 2)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)

	offlineInputStyle = inputStyle.
				BorderForeground(colorRed)

	timelineTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorLight)

	timelineSubtitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	chapterStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	selectedChapterStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	summaryStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true).
			PaddingLeft(4)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
