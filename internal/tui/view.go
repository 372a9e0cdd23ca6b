package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/flux-workspace/internal"
	"github.com/mattn/go-runewidth"
)

// chromeHeight is every line View draws around the message viewport:
// header, tabs, toast, checkpoint hint, banner, input (3) and footer
const chromeHeight = 9

// View implements tea.Model
func (m Model) View() string {
	st := m.workspace.State()

	var b strings.Builder
	b.WriteString(m.headerView(st))
	b.WriteString("\n")
	b.WriteString(m.tabsView(st))
	b.WriteString("\n")
	b.WriteString(m.toastView())
	b.WriteString("\n")
	b.WriteString(m.hintView(st))
	b.WriteString("\n")

	switch {
	case st.TimelineOpen:
		b.WriteString(m.timelineView())
	case m.showHelp:
		b.WriteString(fitHeight(helpStyle.Render(internal.CommandHelp), m.viewport.Height))
	default:
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")

	b.WriteString(m.bannerView(st))
	b.WriteString("\n")
	if st.Offline() {
		b.WriteString(offlineInputStyle.Width(max(m.width-2, 10)).Render(m.input.View()))
	} else {
		b.WriteString(inputStyle.Width(max(m.width-2, 10)).Render(m.input.View()))
	}
	b.WriteString("\n")
	b.WriteString(m.footerView(st))
	return b.String()
}

func (m Model) headerView(st internal.State) string {
	title := st.ActiveSessionID
	if s := m.workspace.ActiveSession(); s != nil && s.Title != "" {
		title = s.Title
	}

	badge := onlineBadge.Render("ONLINE")
	if st.Offline() {
		badge = offlineBadge.Render("OFFLINE")
	}

	left := logoStyle.Render("⚡ FLUX") + "  " + titleStyle.Render(strings.ToUpper(title))
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(badge), 1)
	return left + strings.Repeat(" ", gap) + badge
}

func (m Model) tabsView(st internal.State) string {
	const sep = " │ "
	reg := m.workspace.Registry()

	var b strings.Builder
	used := 0
	for i, id := range reg.IDs() {
		label := id
		if s, ok := reg.Lookup(id); ok && s.Title != "" {
			label = s.Title
		}
		if i > 0 {
			label = sep + label
		}
		if used+runewidth.StringWidth(label) > m.width {
			b.WriteString(tabStyle.Render(truncate(label, max(m.width-used, 0))))
			break
		}
		used += runewidth.StringWidth(label)

		if i > 0 {
			b.WriteString(tabStyle.Render(sep))
			label = label[len(sep):]
		}
		if id == st.ActiveSessionID {
			b.WriteString(activeTabStyle.Render(label))
		} else {
			b.WriteString(tabStyle.Render(label))
		}
	}
	return b.String()
}

func (m Model) toastView() string {
	toast, ok := m.toasts.Latest()
	if !ok {
		return ""
	}
	if toast.Kind == internal.KindError {
		return errorToastStyle.Render("✗ " + strings.ToUpper(toast.Text))
	}
	return successToastStyle.Render("✓ " + strings.ToUpper(toast.Text))
}

func (m Model) hintView(st internal.State) string {
	if st.StartIndex == 0 {
		return ""
	}
	return hintStyle.Render(fmt.Sprintf("↺ viewing from message %d of %d · ctrl+a Restore Full History",
		st.StartIndex+1, len(m.workspace.Messages())))
}

func (m Model) bannerView(st internal.State) string {
	if st.Phase() != internal.PhaseOnlinePendingRecovery {
		return ""
	}
	text, _ := st.Draft.Text()
	line := fmt.Sprintf("Resilience Recovery Point Found · %q · ctrl+r Sync Draft", internal.Preview(text, 24))
	return bannerStyle.Render(truncate(line, max(m.width-2, 10)))
}

func (m Model) footerView(st internal.State) string {
	if m.status != "" {
		return statusStyle.Render(truncate(m.status, m.width))
	}
	help := "enter send · ctrl+o offline · ctrl+t timeline · tab session · /help · esc quit"
	if st.TimelineOpen {
		help = "↑/↓ select · enter jump to context · c copy prompt · esc close"
	}
	return helpStyle.Render(truncate(help, m.width))
}

func (m Model) timelineView() string {
	var b strings.Builder
	b.WriteString(timelineTitleStyle.Render("WORKFLOW TIMELINE"))
	b.WriteString("  ")
	b.WriteString(timelineSubtitleStyle.Render("CONTEXT CHECKPOINTS"))
	b.WriteString("\n\n")

	chapters := m.workspace.ListChapters()
	if len(chapters) == 0 {
		b.WriteString(hintStyle.Render("This session has no checkpoints."))
	}
	wrap := max(m.width-6, 20)
	for i, ch := range chapters {
		line := fmt.Sprintf("%s  (from message %d)", ch.Title, ch.StartIndex+1)
		if i == m.cursor {
			b.WriteString(selectedChapterStyle.Render("▸ " + line))
			b.WriteString("\n")
			b.WriteString(summaryStyle.Width(wrap).Render("Smart Prompt: " + ch.Summary))
		} else {
			b.WriteString(chapterStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return fitHeight(b.String(), m.viewport.Height)
}

// renderMessages draws the chat stream; user messages sit on the right
func renderMessages(messages []internal.Message, width int) string {
	if width <= 0 {
		width = 80
	}
	bubbleWidth := max(width*3/4, 20)

	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if msg.Role == internal.RoleUser {
			block := lipgloss.JoinVertical(lipgloss.Right,
				userLabelStyle.Render("you"),
				userBubbleStyle.Width(bubbleWidth).Render(msg.Content))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, block))
		} else {
			b.WriteString(lipgloss.JoinVertical(lipgloss.Left,
				assistantLabelStyle.Render("flux"),
				assistantBubbleStyle.Width(bubbleWidth).Render(msg.Content)))
		}
	}
	return b.String()
}

// truncate shortens unstyled text to width columns
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// fitHeight pads or cuts s to exactly height lines
func fitHeight(s string, height int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
