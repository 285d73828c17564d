package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/thomas/shisha-terminal-go/internal/promo"
)

// ErrSlotEmpty is returned by a Slot that holds no data yet.
var ErrSlotEmpty = errors.New("cart slot is empty")

// Slot is the persisted key-value slot holding the JSON-encoded cart.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Renderer is the display side of the cart. The ledger calls it synchronously
// after every state change.
type Renderer interface {
	// Render redraws both the cart page and the mini-cart.
	Render(lines []LineView, totals Totals)
	// RenderTotals redraws only the totals surface.
	RenderTotals(totals Totals)
	// OpenMiniCart shows the mini-cart flyout.
	OpenMiniCart()
}

// Ledger owns the cart lines and the active promo rate.
// It is not safe for concurrent use; callers drive it from one event loop.
type Ledger struct {
	lines []LineItem
	rate  decimal.Decimal

	slot        Slot
	renderer    Renderer
	validator   promo.Validator
	policy      Policy
	logger      *log.Logger
	saveTimeout time.Duration
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPolicy sets the pricing policy.
func WithPolicy(p Policy) Option {
	return func(l *Ledger) {
		l.policy = p
	}
}

// WithValidator replaces the promo validator.
func WithValidator(v promo.Validator) Option {
	return func(l *Ledger) {
		l.validator = v
	}
}

// WithLogger sets the logger used for degraded paths.
func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithSaveTimeout bounds each persist call.
func WithSaveTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		l.saveTimeout = d
	}
}

// New creates an empty ledger. Call Load to restore persisted state.
// A nil slot disables persistence and a nil renderer disables rendering.
func New(slot Slot, renderer Renderer, opts ...Option) *Ledger {
	l := &Ledger{
		lines:       make([]LineItem, 0),
		rate:        decimal.Zero,
		slot:        slot,
		renderer:    renderer,
		validator:   promo.Default(),
		policy:      DefaultPolicy(),
		logger:      log.New(io.Discard),
		saveTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.renderer == nil {
		l.renderer = nopRenderer{}
	}
	return l
}

// ============================================
// Persistence
// ============================================

// Load restores the cart from the slot. Missing or malformed data leaves the
// cart empty and malformed lines are skipped; the cause is logged and never
// returned.
func (l *Ledger) Load(ctx context.Context) {
	l.lines = make([]LineItem, 0)
	defer l.render()

	if l.slot == nil {
		return
	}

	data, err := l.slot.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrSlotEmpty) {
			l.logger.Warn("reading cart slot failed, starting empty", "err", err)
		}
		return
	}

	var stored []json.RawMessage
	if err := json.Unmarshal(data, &stored); err != nil {
		l.logger.Warn("malformed cart slot, starting empty", "err", err)
		return
	}

	for i, raw := range stored {
		var item LineItem
		if err := json.Unmarshal(raw, &item); err != nil {
			l.logger.Warn("dropping malformed stored line", "index", i, "err", err)
			continue
		}
		if item.ID == "" {
			l.logger.Debug("dropping stored line without id", "name", item.Name)
			continue
		}
		l.merge(item.normalize())
	}
	l.logger.Debug("cart loaded", "lines", len(l.lines))
}

func (l *Ledger) persist() {
	if l.slot == nil {
		return
	}

	data, err := json.Marshal(l.lines)
	if err != nil {
		l.logger.Error("encoding cart failed", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.saveTimeout)
	defer cancel()

	if err := l.slot.Save(ctx, data); err != nil {
		l.logger.Warn("saving cart failed", "err", err)
	}
}

// ============================================
// Cart Operations
// ============================================

// Add merges item into the line with the same (id, flavor) or appends it.
// When openMiniCart is set the mini-cart flyout is opened afterwards.
func (l *Ledger) Add(item LineItem, openMiniCart bool) {
	l.merge(item.normalize())
	l.commit()
	if openMiniCart {
		l.renderer.OpenMiniCart()
	}
}

// ChangeQuantity adds delta to a line's quantity, never going below 1.
// Unknown lines are ignored.
func (l *Ledger) ChangeQuantity(id, flavor string, delta int) {
	i := l.find(id, flavor)
	if i < 0 {
		return
	}
	l.lines[i].Qty = addQuantity(l.lines[i].Qty, delta)
	l.commit()
}

// SetQuantity sets a line's quantity from free-text input. See ParseQuantity.
// Unknown lines are ignored.
func (l *Ledger) SetQuantity(id, flavor, raw string) {
	i := l.find(id, flavor)
	if i < 0 {
		return
	}
	qty, ok := ParseQuantity(raw)
	if !ok {
		l.logger.Warn("invalid quantity input, using 1", "input", raw, "id", id, "flavor", flavor)
	}
	l.lines[i].Qty = qty
	l.commit()
}

// Remove deletes the matching line if present.
func (l *Ledger) Remove(id, flavor string) {
	i := l.find(id, flavor)
	if i < 0 {
		return
	}
	l.lines = append(l.lines[:i], l.lines[i+1:]...)
	l.commit()
}

// ApplyPromo resolves a submitted code. Unknown codes reset the rate to zero.
// Only the totals surface is redrawn. The result reports whether the code matched.
func (l *Ledger) ApplyPromo(raw string) bool {
	rate, ok := l.validator.Lookup(raw)
	if !ok {
		if promo.Normalize(raw) != "" {
			l.logger.Debug("unknown promo code", "code", promo.Normalize(raw))
		}
		rate = decimal.Zero
	}
	l.rate = rate
	l.renderer.RenderTotals(l.Totals())
	return ok
}

// ============================================
// Query Methods
// ============================================

// Lines returns a copy of the cart lines in display order.
func (l *Ledger) Lines() []LineItem {
	out := make([]LineItem, len(l.lines))
	copy(out, l.lines)
	return out
}

// Views returns the per-line render data.
func (l *Ledger) Views() []LineView {
	views := make([]LineView, len(l.lines))
	for i, line := range l.lines {
		views[i] = viewOf(line)
	}
	return views
}

// Len returns the number of distinct lines.
func (l *Ledger) Len() int {
	return len(l.lines)
}

// IsEmpty reports whether the cart has no lines.
func (l *Ledger) IsEmpty() bool {
	return len(l.lines) == 0
}

// ItemCount returns the total quantity across lines.
func (l *Ledger) ItemCount() int {
	count := 0
	for _, line := range l.lines {
		count += line.Qty
	}
	return count
}

// Rate returns the active promo rate.
func (l *Ledger) Rate() decimal.Decimal {
	return l.rate
}

// Policy returns the pricing policy in use.
func (l *Ledger) Policy() Policy {
	return l.policy
}

// Totals computes the current totals.
func (l *Ledger) Totals() Totals {
	return Calculate(l.lines, l.rate, l.policy)
}

// ============================================
// Helpers
// ============================================

func (l *Ledger) find(id, flavor string) int {
	for i := range l.lines {
		if l.lines[i].ID == id && l.lines[i].Flavor == flavor {
			return i
		}
	}
	return -1
}

func (l *Ledger) merge(item LineItem) {
	if i := l.find(item.ID, item.Flavor); i >= 0 {
		l.lines[i].Qty = addQuantity(l.lines[i].Qty, item.Qty)
		return
	}
	l.lines = append(l.lines, item)
}

// commit settles a mutation: render both views with fresh totals, then persist.
func (l *Ledger) commit() {
	l.render()
	l.persist()
}

func (l *Ledger) render() {
	l.renderer.Render(l.Views(), l.Totals())
}

type nopRenderer struct{}

func (nopRenderer) Render([]LineView, Totals) {}
func (nopRenderer) RenderTotals(Totals)       {}
func (nopRenderer) OpenMiniCart()             {}
