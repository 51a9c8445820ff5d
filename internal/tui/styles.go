package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/teemow/calgrid/internal/theme"
)

// SlotWidth is the width of one day column in cells.
const SlotWidth = 14

// Styles are the lipgloss styles of the grid, derived from one palette.
type Styles struct {
	Caption     lipgloss.Style
	Range       lipgloss.Style
	Border      lipgloss.Style
	DayHeader   lipgloss.Style
	TodayHeader lipgloss.Style
	HourLabel   lipgloss.Style
	Slot        lipgloss.Style
	TodaySlot   lipgloss.Style
	Status      lipgloss.Style
	Alert       lipgloss.Style
}

// NewStyles maps palette roles onto the grid. With color unset the
// styles only carry layout (no ANSI sequences at all), for output that
// is not a terminal.
func NewStyles(p theme.Palette, color bool) Styles {
	base := lipgloss.NewStyle()
	s := Styles{
		Caption:     base,
		Range:       base,
		Border:      base,
		DayHeader:   base.Align(lipgloss.Center).Width(SlotWidth),
		TodayHeader: base.Align(lipgloss.Center).Width(SlotWidth),
		HourLabel:   base.Align(lipgloss.Right).PaddingRight(1),
		Slot:        base.Width(SlotWidth),
		TodaySlot:   base.Width(SlotWidth),
		Status:      base.PaddingLeft(1),
		Alert:       base.PaddingLeft(1),
	}
	if !color {
		return s
	}

	c := func(role string) lipgloss.Color { return lipgloss.Color(p.Hex(role)) }

	s.Caption = s.Caption.Bold(true).Foreground(c(theme.RolePrimary))
	s.Range = s.Range.Foreground(c(theme.RoleOnSurfaceVariant))
	s.Border = s.Border.Foreground(c(theme.RoleOutlineVariant))
	s.DayHeader = s.DayHeader.Bold(true).Foreground(c(theme.RoleOnSurface))
	s.TodayHeader = s.TodayHeader.
		Bold(true).
		Foreground(c(theme.RoleOnPrimary)).
		Background(c(theme.RolePrimary))
	s.HourLabel = s.HourLabel.Foreground(c(theme.RoleOnSurfaceVariant))
	s.Slot = s.Slot.Foreground(c(theme.RoleOnSurface))
	s.TodaySlot = s.TodaySlot.
		Foreground(c(theme.RoleOnPrimaryContainer)).
		Background(c(theme.RoleSurfaceContainerHigh))
	s.Status = s.Status.Foreground(c(theme.RoleOnSurfaceVariant))
	s.Alert = s.Alert.
		Bold(true).
		Foreground(c(theme.RoleOnPrimaryContainer)).
		Background(c(theme.RolePrimaryContainer))
	return s
}
