package dashboard

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dimColor    = lipgloss.AdaptiveColor{Light: "240", Dark: "240"}
	mutedColor  = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
	liveColor   = lipgloss.AdaptiveColor{Light: "2", Dark: "10"}
	warnColor   = lipgloss.AdaptiveColor{Light: "208", Dark: "208"}
	errorColor  = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}
	goalColor   = lipgloss.AdaptiveColor{Light: "3", Dark: "11"}
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	subtitleStyle = lipgloss.NewStyle().Foreground(mutedColor)
	mutedText     = lipgloss.NewStyle().Foreground(mutedColor)
	boldText      = lipgloss.NewStyle().Bold(true)
	liveText      = lipgloss.NewStyle().Foreground(liveColor)
	goalText      = lipgloss.NewStyle().Bold(true).Foreground(goalColor)
	penaltyText   = lipgloss.NewStyle().Foreground(warnColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "15", Dark: "15"}).
			Background(accentColor).
			Padding(0, 1)

	headerRowStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "15", Dark: "15"}).
				Background(accentColor)

	wildCardStyle = lipgloss.NewStyle().Bold(true).Italic(true).Foreground(warnColor)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(accentColor).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(dimColor).
				Padding(0, 1)
)

// noticeStyle returns the style for a notification of the given level.
func noticeStyle(level noticeLevel) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch level {
	case noticeWarn:
		return s.Foreground(warnColor)
	case noticeError:
		return s.Foreground(errorColor)
	default:
		return s.Foreground(liveColor)
	}
}

// cardStyle returns the border style for a selectable card. The focused card
// gets a double accent border; live games a green border; finished games a
// dim one.
func cardStyle(focused bool, state gameState) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1)
	switch {
	case focused:
		return s.Border(lipgloss.DoubleBorder()).BorderForeground(accentColor)
	case state.live():
		return s.Border(lipgloss.NormalBorder()).BorderForeground(liveColor)
	case state.final():
		return s.Border(lipgloss.NormalBorder()).BorderForeground(dimColor)
	default:
		return s.Border(lipgloss.NormalBorder()).BorderForeground(accentColor)
	}
}

// panelStyle returns a rounded box used for score and comparison panels.
func panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1)
}

// renderTabs draws a tab strip with the active tab highlighted.
func renderTabs(labels []string, active int) string {
	tabs := make([]string, len(labels))
	for i, l := range labels {
		if i == active {
			tabs[i] = activeTabStyle.Render(l)
		} else {
			tabs[i] = inactiveTabStyle.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}
