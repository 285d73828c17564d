// Package tui implements the terminal storefront using Bubble Tea.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette - lounge smoke and ember tones
var (
	colorSmoke     = lipgloss.Color("#F3EFF5")
	colorPlum      = lipgloss.Color("#4A2C4F")
	colorLavender  = lipgloss.Color("#B497D6")
	colorMauve     = lipgloss.Color("#7D6B91")
	colorEmber     = lipgloss.Color("#FF8A3D")
	colorSuccess   = lipgloss.Color("#4CAF50")
	colorWarning   = lipgloss.Color("#FFC107")
	colorError     = lipgloss.Color("#F44336")
	colorMuted     = lipgloss.Color("#9E9E9E")
	colorHighlight = colorEmber
)

// Styles holds all the lipgloss styles for the TUI.
type Styles struct {
	// App container
	App lipgloss.Style

	// Header
	HeaderTitle lipgloss.Style

	// Product list
	ListTitle   lipgloss.Style
	ProductName lipgloss.Style
	Price       lipgloss.Style

	// Cart page
	CartLine         lipgloss.Style
	CartLineSelected lipgloss.Style
	Flavor           lipgloss.Style

	// Mini-cart flyout
	MiniCart      lipgloss.Style
	MiniCartTitle lipgloss.Style
	MiniCartLine  lipgloss.Style

	// Totals surface
	TotalsBox    lipgloss.Style
	TotalsLabel  lipgloss.Style
	GrandTotal   lipgloss.Style
	FreeShipping lipgloss.Style

	// General
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Box       lipgloss.Style
	HelpBar   lipgloss.Style
}

// DefaultStyles returns the default TUI styles.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		HeaderTitle: lipgloss.NewStyle().
			Foreground(colorLavender).
			Bold(true),

		ListTitle: lipgloss.NewStyle().
			Foreground(colorLavender).
			Bold(true).
			MarginBottom(1),

		ProductName: lipgloss.NewStyle().
			Foreground(colorLavender).
			Bold(true),

		Price: lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true),

		CartLine: lipgloss.NewStyle().
			Foreground(colorSmoke),

		CartLineSelected: lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true),

		Flavor: lipgloss.NewStyle().
			Foreground(colorMauve).
			Italic(true),

		MiniCart: lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(colorEmber).
			Padding(0, 1).
			MarginLeft(2).
			Width(42),

		MiniCartTitle: lipgloss.NewStyle().
			Foreground(colorEmber).
			Bold(true).
			MarginBottom(1),

		MiniCartLine: lipgloss.NewStyle().
			Foreground(colorSmoke),

		TotalsBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorPlum).
			Padding(0, 2).
			MarginTop(1),

		TotalsLabel: lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(10),

		GrandTotal: lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true),

		FreeShipping: lipgloss.NewStyle().
			Foreground(colorWarning),

		Subtle: lipgloss.NewStyle().
			Foreground(colorMuted),

		Highlight: lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(colorSuccess),

		Warning: lipgloss.NewStyle().
			Foreground(colorWarning),

		Box: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorMauve).
			Padding(1, 2),

		HelpBar: lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1),
	}
}
