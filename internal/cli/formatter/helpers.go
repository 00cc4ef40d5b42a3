package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Timestamp renders t in UTC at minute precision.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

// FormatDuration renders d with at most two units, e.g. "3d 4h" or "45m".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return "0m"
	}
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	mins := int(d % time.Hour / time.Minute)

	switch {
	case days > 0 && hours > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case days > 0:
		return fmt.Sprintf("%dd", days)
	case hours > 0 && mins > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// WindowPhase describes where now falls relative to a voting window.
func WindowPhase(start, end, now time.Time) string {
	switch {
	case now.Before(start):
		return StyleYellow.Render("opens in " + FormatDuration(start.Sub(now)))
	case !now.After(end):
		return StyleGreen.Render("closes in " + FormatDuration(end.Sub(now)))
	default:
		return StyleDim.Render("closed " + FormatDuration(now.Sub(end)) + " ago")
	}
}

func orDash(s string) string {
	if s == "" {
		return StyleDim.Render("--")
	}
	return s
}
