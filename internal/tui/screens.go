package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/thomas/shisha-terminal-go/internal/cart"
	"github.com/thomas/shisha-terminal-go/internal/money"
)

// screens is the UI side of the cart ledger. The ledger pushes state into it
// after every change and the views read the pre-rendered surfaces back.
type screens struct {
	styles Styles
	bar    progress.Model

	lines []cart.LineView

	// Cart page rows, one per line, without the selection cursor.
	pageRows []string
	// Mini-cart body.
	mini string
	// Totals surface.
	totals string

	miniOpen bool
}

var _ cart.Renderer = (*screens)(nil)

func newScreens(styles Styles) *screens {
	return &screens{
		styles: styles,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

// Render redraws the cart page, the mini-cart and the totals surface.
func (s *screens) Render(lines []cart.LineView, totals cart.Totals) {
	s.lines = lines

	s.pageRows = make([]string, len(lines))
	var mini strings.Builder
	for i, line := range lines {
		s.pageRows[i] = pageRow(line, s.styles)
		mini.WriteString(s.styles.MiniCartLine.Render(miniRow(line)))
		mini.WriteString("\n")
	}
	s.mini = strings.TrimSuffix(mini.String(), "\n")

	s.RenderTotals(totals)
}

// RenderTotals redraws only the totals surface.
func (s *screens) RenderTotals(t cart.Totals) {
	var sb strings.Builder

	row := func(label, value string) {
		sb.WriteString(s.styles.TotalsLabel.Render(label))
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	row("Subtotal", money.Format(t.Taxable))
	if t.Discount > 0 {
		row("Discount", s.styles.Success.Render("-"+money.Format(t.Discount)))
	}
	row("Shipping", money.FormatWhole(t.Shipping))
	row("Tax", money.Format(t.Tax))
	row("Total", s.styles.GrandTotal.Render(money.Format(t.Total)))

	sb.WriteString("\n")
	sb.WriteString(s.bar.ViewAs(t.ProgressPercent / 100))
	sb.WriteString("\n")
	sb.WriteString(s.styles.FreeShipping.Render(t.FreeShippingMessage()))

	s.totals = sb.String()
}

// OpenMiniCart shows the flyout.
func (s *screens) OpenMiniCart() {
	s.miniOpen = true
}

func (s *screens) closeMiniCart() {
	s.miniOpen = false
}

func (s *screens) toggleMiniCart() {
	s.miniOpen = !s.miniOpen
}

// pageRow renders one line of the full cart page.
func pageRow(l cart.LineView, st Styles) string {
	return fmt.Sprintf("%s  %s  %s each  x%d  = %s",
		l.Name,
		st.Flavor.Render("Flavor: "+l.Flavor),
		money.FormatWhole(l.Price),
		l.Qty,
		money.Format(l.LineTotal),
	)
}

// miniRow renders one line of the mini-cart, e.g. "Al Fakher (Mint) x 2 - R300.00".
func miniRow(l cart.LineView) string {
	return fmt.Sprintf("%s (%s) x %d - %s", l.Name, l.Flavor, l.Qty, money.Format(l.LineTotal))
}

// viewMiniCart renders the flyout panel.
func (s *screens) viewMiniCart() string {
	var sb strings.Builder
	sb.WriteString(s.styles.MiniCartTitle.Render("Mini Cart"))
	sb.WriteString("\n")

	if len(s.lines) == 0 {
		sb.WriteString(s.styles.Subtle.Render("Your cart is empty"))
	} else {
		sb.WriteString(s.mini)
	}
	sb.WriteString("\n")
	sb.WriteString(s.totals)
	sb.WriteString("\n")
	sb.WriteString(s.styles.HelpBar.Render("m/esc close • c view cart"))

	return s.styles.MiniCart.Render(sb.String())
}
