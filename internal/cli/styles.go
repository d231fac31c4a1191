// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styles and message tags for onexport output.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func init() {
	// Respects NO_COLOR, FORCE_COLOR, and TTY detection
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for the program banner
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	// SuccessStyle is used for completed copies and the final summary
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")). // Green
			Bold(true)

	// ErrorStyle is used for system errors (missing backup root, failed copy)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// WarningStyle is used for user errors and cautions
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Yellow/Orange

	// InfoStyle is used for informational messages
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")) // Blue

	// DimStyle is used for secondary information and hints
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	// SeparatorStyle is used for visual separators
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// HighlightStyle marks user choices (notebook, version, destination)
	HighlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))
)

// =============================================================================
// MESSAGE TAGS
// =============================================================================

// Tag renders a bracketed prefix and message in one style,
// e.g. "[OK] all sections exported".
type Tag struct {
	Text  string
	Style lipgloss.Style
}

// Render formats message behind the tag.
func (t Tag) Render(message string) string {
	return t.Style.Render("[" + t.Text + "] " + message)
}

var (
	TagNotice      = Tag{Text: "NOTE", Style: WarningStyle}
	TagInfo        = Tag{Text: "INFO", Style: InfoStyle}
	TagSuccess     = Tag{Text: "OK", Style: SuccessStyle}
	TagUserError   = Tag{Text: "INVALID", Style: WarningStyle}
	TagSystemError = Tag{Text: "ERROR", Style: ErrorStyle}
)

// =============================================================================
// HELPERS
// =============================================================================

// Prompt is appended to every question.
const Prompt = "> "

// RenderSeparator renders a horizontal separator line of the given width.
// Default width is 60 characters.
func RenderSeparator(width ...int) string {
	w := 60
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return SeparatorStyle.Render(strings.Repeat("—", w))
}
