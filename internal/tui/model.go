package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/thomas/shisha-terminal-go/internal/cart"
	"github.com/thomas/shisha-terminal-go/internal/catalog"
	"github.com/thomas/shisha-terminal-go/internal/promo"
)

// ViewState represents the current view in the application.
type ViewState int

const (
	ViewProductList ViewState = iota
	ViewFlavorPicker
	ViewCart
)

// Options configures a storefront session.
type Options struct {
	// Policy overrides the ledger's default pricing when set.
	Policy *cart.Policy
	Promos promo.Validator
	// OpenMiniCartOnAdd opens the mini-cart flyout after every add.
	OpenMiniCartOnAdd bool
	Logger            *log.Logger
}

// Model is the main Bubble Tea model for the storefront.
type Model struct {
	// Dependencies
	ledger  *cart.Ledger
	screens *screens
	source  catalog.Source
	logger  *log.Logger

	openMiniOnAdd bool

	// View state
	viewState ViewState
	width     int
	height    int
	styles    Styles

	// Product list view
	productList     list.Model
	products        []catalog.Product
	loadingProducts bool

	// Flavor picker
	pendingProduct *catalog.Product
	flavorForm     *huh.Form
	flavorChoice   *string

	// Cart page
	selectedIdx   int
	qtyInput      textinput.Model
	editingQty    bool
	promoInput    textinput.Model
	enteringPromo bool
	promoStatus   string

	err error
}

// productItem implements list.Item for products.
type productItem struct {
	product catalog.Product
}

func (i productItem) Title() string {
	return i.product.Name
}

func (i productItem) Description() string {
	desc := i.product.DisplayPrice()
	if i.product.HasFlavors() {
		desc += fmt.Sprintf(" • %d flavors", len(i.product.Flavors))
	}
	return desc
}

func (i productItem) FilterValue() string {
	return i.product.Name
}

// Messages
type (
	productsLoadedMsg struct {
		products []catalog.Product
	}
	errMsg struct {
		err error
	}
)

// NewModel creates a storefront session: the ledger is restored from slot and
// products come from source.
func NewModel(ctx context.Context, slot cart.Slot, source catalog.Source, opts Options) Model {
	styles := DefaultStyles()

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ledgerOpts := []cart.Option{cart.WithLogger(logger)}
	if opts.Policy != nil {
		ledgerOpts = append(ledgerOpts, cart.WithPolicy(*opts.Policy))
	}
	if opts.Promos != nil {
		ledgerOpts = append(ledgerOpts, cart.WithValidator(opts.Promos))
	}

	sc := newScreens(styles)
	ledger := cart.New(slot, sc, ledgerOpts...)
	ledger.Load(ctx)

	// Initialize product list
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(colorHighlight).
		BorderLeftForeground(colorHighlight)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(colorMauve).
		BorderLeftForeground(colorHighlight)

	productList := list.New([]list.Item{}, delegate, 0, 0)
	productList.Title = "Shisha Lounge"
	productList.SetShowHelp(false)
	productList.SetFilteringEnabled(true)
	productList.Styles.Title = styles.ListTitle

	qty := textinput.New()
	qty.Placeholder = "Quantity"
	qty.CharLimit = 10
	qty.Width = 10

	code := textinput.New()
	code.Placeholder = "Promo code"
	code.CharLimit = 32
	code.Width = 20

	return Model{
		ledger:          ledger,
		screens:         sc,
		source:          source,
		logger:          logger,
		openMiniOnAdd:   opts.OpenMiniCartOnAdd,
		viewState:       ViewProductList,
		styles:          styles,
		productList:     productList,
		loadingProducts: true,
		qtyInput:        qty,
		promoInput:      code,
	}
}

// Init starts loading the catalog.
func (m Model) Init() tea.Cmd {
	return m.loadProducts()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.productList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case productsLoadedMsg:
		m.loadingProducts = false
		m.products = msg.products
		m.err = nil
		m.updateProductList()
		return m, nil

	case errMsg:
		m.loadingProducts = false
		m.err = msg.err
		return m, nil
	}

	// Let sub-models see other messages (cursor blink, form internals).
	var cmd tea.Cmd
	switch {
	case m.viewState == ViewFlavorPicker && m.flavorForm != nil:
		return m.updateFlavorForm(msg)
	case m.editingQty:
		m.qtyInput, cmd = m.qtyInput.Update(msg)
	case m.enteringPromo:
		m.promoInput, cmd = m.promoInput.Update(msg)
	case m.viewState == ViewProductList:
		m.productList, cmd = m.productList.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	// Text entry owns the keyboard while active.
	if m.editingQty {
		return m.handleQtyInputKeys(msg)
	}
	if m.enteringPromo {
		return m.handlePromoInputKeys(msg)
	}
	if m.viewState == ViewProductList && m.productList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.productList, cmd = m.productList.Update(msg)
		return m, cmd
	}

	// The flyout sits above every view.
	if m.screens.miniOpen && key == "esc" {
		m.screens.closeMiniCart()
		return m, nil
	}

	switch m.viewState {
	case ViewProductList:
		return m.handleProductListKeys(msg)
	case ViewFlavorPicker:
		return m.handleFlavorPickerKeys(msg)
	case ViewCart:
		return m.handleCartKeys(msg)
	}
	return m, nil
}

func (m Model) handleProductListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "m":
		m.screens.toggleMiniCart()
		return m, nil

	case "c":
		m.openCart()
		return m, nil

	case "r":
		m.loadingProducts = true
		return m, m.loadProducts()

	case "enter", "a":
		if item, ok := m.productList.SelectedItem().(productItem); ok {
			return m.startAdd(item.product)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.productList, cmd = m.productList.Update(msg)
	return m, cmd
}

func (m Model) handleFlavorPickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.cancelFlavorPicker()
		return m, nil
	}
	return m.updateFlavorForm(msg)
}

func (m Model) updateFlavorForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.flavorForm == nil {
		return m, nil
	}

	form, cmd := m.flavorForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.flavorForm = f
	}

	switch m.flavorForm.State {
	case huh.StateCompleted:
		if m.pendingProduct != nil {
			flavor := *m.flavorChoice
			if flavor == "" && m.pendingProduct.HasFlavors() {
				flavor = m.pendingProduct.Flavors[0]
			}
			m.addToCart(*m.pendingProduct, flavor)
		}
		m.cancelFlavorPicker()
		return m, nil
	case huh.StateAborted:
		m.cancelFlavorPicker()
		return m, nil
	}
	return m, cmd
}

func (m Model) handleCartKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "s":
		m.viewState = ViewProductList
		return m, nil

	case "q":
		return m, tea.Quit

	case "m":
		m.screens.toggleMiniCart()
		return m, nil

	case "up", "k":
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}
		return m, nil

	case "down", "j":
		if m.selectedIdx < m.ledger.Len()-1 {
			m.selectedIdx++
		}
		return m, nil

	case "+", "=":
		if line, ok := m.selectedLine(); ok {
			m.ledger.ChangeQuantity(line.ID, line.Flavor, 1)
		}
		return m, nil

	case "-":
		if line, ok := m.selectedLine(); ok {
			m.ledger.ChangeQuantity(line.ID, line.Flavor, -1)
		}
		return m, nil

	case "e":
		if line, ok := m.selectedLine(); ok {
			m.editingQty = true
			m.qtyInput.SetValue(fmt.Sprint(line.Qty))
			m.qtyInput.CursorEnd()
			return m, m.qtyInput.Focus()
		}
		return m, nil

	case "d", "delete":
		if line, ok := m.selectedLine(); ok {
			m.ledger.Remove(line.ID, line.Flavor)
			m.clampSelection()
		}
		return m, nil

	case "p":
		m.enteringPromo = true
		m.promoInput.SetValue("")
		return m, m.promoInput.Focus()
	}

	return m, nil
}

func (m Model) handleQtyInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if line, ok := m.selectedLine(); ok {
			m.ledger.SetQuantity(line.ID, line.Flavor, m.qtyInput.Value())
		}
		m.editingQty = false
		m.qtyInput.Blur()
		return m, nil
	case "esc":
		m.editingQty = false
		m.qtyInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.qtyInput, cmd = m.qtyInput.Update(msg)
	return m, cmd
}

func (m Model) handlePromoInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.applyPromo(m.promoInput.Value())
		m.enteringPromo = false
		m.promoInput.Blur()
		return m, nil
	case "esc":
		m.enteringPromo = false
		m.promoInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.promoInput, cmd = m.promoInput.Update(msg)
	return m, cmd
}

// ============================================
// Actions
// ============================================

// startAdd adds products without flavors right away and opens the flavor
// picker for the rest.
func (m Model) startAdd(p catalog.Product) (tea.Model, tea.Cmd) {
	if !p.HasFlavors() {
		m.addToCart(p, "")
		return m, nil
	}

	m.pendingProduct = &p
	m.flavorChoice = new(string)
	m.flavorForm = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Flavor").
				Options(huh.NewOptions(p.Flavors...)...).
				Value(m.flavorChoice),
		),
	).WithShowHelp(true).WithShowErrors(true).WithWidth(50)
	m.viewState = ViewFlavorPicker

	return m, m.flavorForm.Init()
}

func (m *Model) cancelFlavorPicker() {
	m.flavorForm = nil
	m.flavorChoice = nil
	m.pendingProduct = nil
	m.viewState = ViewProductList
}

func (m *Model) addToCart(p catalog.Product, flavor string) {
	item, err := catalog.NewLineItem(p, flavor)
	if err != nil {
		m.logger.Warn("product has an invalid price, not adding", "err", err)
		return
	}
	m.ledger.Add(item, m.openMiniOnAdd)
}

func (m *Model) applyPromo(code string) {
	if strings.TrimSpace(code) == "" {
		m.ledger.ApplyPromo("")
		m.promoStatus = ""
		return
	}
	if m.ledger.ApplyPromo(code) {
		m.promoStatus = fmt.Sprintf("Promo %s applied", promo.Normalize(code))
	} else {
		m.promoStatus = "Promo code not recognised"
	}
}

func (m *Model) openCart() {
	m.viewState = ViewCart
	m.screens.closeMiniCart()
	m.clampSelection()
}

func (m *Model) selectedLine() (cart.LineView, bool) {
	lines := m.screens.lines
	if m.selectedIdx < 0 || m.selectedIdx >= len(lines) {
		return cart.LineView{}, false
	}
	return lines[m.selectedIdx], true
}

func (m *Model) clampSelection() {
	if m.selectedIdx >= m.ledger.Len() {
		m.selectedIdx = m.ledger.Len() - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
}

func (m *Model) updateProductList() {
	items := make([]list.Item, len(m.products))
	for i, p := range m.products {
		items[i] = productItem{product: p}
	}
	m.productList.SetItems(items)
}

func (m Model) loadProducts() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		if source == nil {
			return productsLoadedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		products, err := source.Products(ctx)
		if err != nil {
			return errMsg{err: fmt.Errorf("loading products: %w", err)}
		}
		return productsLoadedMsg{products: products}
	}
}

// ============================================
// Views
// ============================================

// View renders the current view, with the mini-cart flyout beside it when open.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.viewState {
	case ViewProductList:
		content = m.viewProductList()
	case ViewFlavorPicker:
		content = m.viewFlavorPicker()
	case ViewCart:
		content = m.viewCart()
	}

	if m.screens.miniOpen {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.screens.viewMiniCart())
	}
	return m.styles.App.Render(content)
}

func (m Model) viewProductList() string {
	var sb strings.Builder

	switch {
	case m.loadingProducts:
		sb.WriteString(m.styles.Subtle.Render("Loading products..."))
		sb.WriteString("\n")
	case m.err != nil:
		sb.WriteString(m.styles.Error.Render(m.err.Error()))
		sb.WriteString("\n")
	default:
		sb.WriteString(m.productList.View())
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.HelpBar.Render(fmt.Sprintf(
		"enter add • / filter • m mini-cart • c cart (%d) • r reload • q quit",
		m.ledger.ItemCount(),
	)))
	return sb.String()
}

func (m Model) viewFlavorPicker() string {
	var sb strings.Builder
	if m.pendingProduct != nil {
		sb.WriteString(m.styles.ProductName.Render(m.pendingProduct.Name))
		sb.WriteString("  ")
		sb.WriteString(m.styles.Price.Render(m.pendingProduct.DisplayPrice()))
		sb.WriteString("\n")
		if desc := catalog.StripHTML(m.pendingProduct.Description); desc != "" {
			sb.WriteString(m.styles.Subtle.Render(desc))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	if m.flavorForm != nil {
		sb.WriteString(m.flavorForm.View())
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.HelpBar.Render("enter choose • esc back"))
	return m.styles.Box.Render(sb.String())
}

func (m Model) viewCart() string {
	var sb strings.Builder

	sb.WriteString(m.styles.HeaderTitle.Render("Shopping Cart"))
	sb.WriteString("\n\n")

	if m.ledger.IsEmpty() {
		sb.WriteString(m.styles.Subtle.Render("Your cart is empty"))
		sb.WriteString("\n")
	}

	for i, row := range m.screens.pageRows {
		if i == m.selectedIdx {
			sb.WriteString(m.styles.CartLineSelected.Render("▸ " + row))
		} else {
			sb.WriteString(m.styles.CartLine.Render("  " + row))
		}
		sb.WriteString("\n")
	}

	if m.editingQty {
		sb.WriteString("\n")
		sb.WriteString("Set quantity: ")
		sb.WriteString(m.qtyInput.View())
		sb.WriteString("\n")
	}

	if m.enteringPromo {
		sb.WriteString("\n")
		sb.WriteString("Promo code: ")
		sb.WriteString(m.promoInput.View())
		sb.WriteString("\n")
	} else if m.promoStatus != "" {
		sb.WriteString("\n")
		if m.ledger.Rate().IsPositive() {
			sb.WriteString(m.styles.Success.Render(m.promoStatus))
		} else {
			sb.WriteString(m.styles.Warning.Render(m.promoStatus))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.TotalsBox.Render(m.screens.totals))
	sb.WriteString("\n")

	sb.WriteString(m.styles.HelpBar.Render("↑/↓ select • +/- quantity • e set quantity • d remove • p promo • m mini-cart • esc back"))

	return m.styles.Box.Render(sb.String())
}

// ============================================
// Accessors
// ============================================

// GetViewState returns the active view.
func (m Model) GetViewState() ViewState {
	return m.viewState
}

// Ledger returns the session's cart ledger.
func (m Model) Ledger() *cart.Ledger {
	return m.ledger
}

// MiniCartOpen reports whether the flyout is visible.
func (m Model) MiniCartOpen() bool {
	return m.screens.miniOpen
}
