package risk

import "fmt"

// Limits are the configured risk parameters. Percentages are fractions of
// initial equity and are converted to absolute amounts at construction.
type Limits struct {
	InitialEquity          float64
	MaxPositionSize        float64
	MaxDrawdownPercent     float64
	MaxLossPerTradePercent float64
}

type Violation struct {
	Code string
	Msg  string
}

// Decision is the outcome of a pre-trade check. A rejected order is not an
// error: the order is simply not placed this tick.
type Decision struct {
	Allowed    bool
	Violations []Violation
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Manager gates every order against position and funds limits and tracks
// equity as realized PnL is applied. State only moves forward; there is no
// rollback path.
type Manager struct {
	initialEquity   float64
	currentEquity   float64
	maxPositionSize float64
	maxDrawdown     float64 // absolute
	maxLossPerTrade float64 // absolute; carried from config, not checked on placement
}

func NewManager(l Limits) *Manager {
	return &Manager{
		initialEquity:   l.InitialEquity,
		currentEquity:   l.InitialEquity,
		maxPositionSize: l.MaxPositionSize,
		maxDrawdown:     l.InitialEquity * l.MaxDrawdownPercent,
		maxLossPerTrade: l.InitialEquity * l.MaxLossPerTradePercent,
	}
}

// CanPlace evaluates a prospective order of quantity units at price. The
// funds check uses notional cost against current equity, not margin.
func (m *Manager) CanPlace(quantity, price float64) Decision {
	d := Decision{Allowed: true}

	if quantity > m.maxPositionSize {
		d.add("POSITION_LIMIT",
			fmt.Sprintf("quantity %.8f exceeds max position size %.8f", quantity, m.maxPositionSize))
	}
	if cost := quantity * price; cost > m.currentEquity {
		d.add("INSUFFICIENT_FUNDS",
			fmt.Sprintf("order cost %.2f exceeds equity %.2f", cost, m.currentEquity))
	}
	return d
}

// ApplyPnL credits realized PnL to equity and reports whether the drawdown
// limit is now breached. A breach is a warning signal; it never stops
// trading.
func (m *Manager) ApplyPnL(delta float64) (breached bool) {
	m.currentEquity += delta
	return m.initialEquity-m.currentEquity > m.maxDrawdown
}

func (m *Manager) Equity() float64   { return m.currentEquity }
func (m *Manager) Drawdown() float64 { return m.initialEquity - m.currentEquity }

// MaxLossPerTrade exposes the configured per-trade loss cap. It is tracked
// for reporting; no placement check consults it.
func (m *Manager) MaxLossPerTrade() float64 { return m.maxLossPerTrade }
