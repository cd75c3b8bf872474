package position

import "errors"

// ErrInvalidFill rejects fills with zero or negative quantity or price. No
// state is mutated on rejection.
var ErrInvalidFill = errors.New("position: fill quantity and price must be positive")

// LedgerEntry is one realized PnL record, keyed by the trade id that locked
// it in.
type LedgerEntry struct {
	TradeID string
	PnL     float64
}

// Tracker holds the single-asset position: quantity, volume-weighted average
// entry price, total cost basis, and the append-only realized PnL ledger.
// One Tracker per trading pair; it is confined to the engine goroutine and
// needs no locking.
type Tracker struct {
	qty       float64
	avgPrice  float64
	totalCost float64
	ledger    []LedgerEntry
}

func NewTracker() *Tracker { return &Tracker{} }

// ApplyFill mutates the position for a filled order. Buys grow the position
// and recompute the volume-weighted average price; sells shrink it and
// realize (price - avg) * quantity into the ledger under tradeID. The
// realized amount is returned (zero for buys) so the caller can forward it
// to equity accounting. A sell never changes the average price.
func (t *Tracker) ApplyFill(tradeID string, quantity, price float64, isBuy bool) (float64, error) {
	if quantity <= 0 || price <= 0 {
		return 0, ErrInvalidFill
	}

	if isBuy {
		newQty := t.qty + quantity
		// A buy that covers a short back to exactly flat has no position
		// left to average; reset instead of dividing by zero.
		if newQty == 0 {
			t.avgPrice = 0
		} else {
			t.avgPrice = (t.qty*t.avgPrice + quantity*price) / newQty
		}
		t.qty = newQty
		t.totalCost += quantity * price
		return 0, nil
	}

	realized := (price - t.avgPrice) * quantity
	t.ledger = append(t.ledger, LedgerEntry{TradeID: tradeID, PnL: realized})
	t.qty -= quantity
	return realized, nil
}

// UnrealizedPnL marks the open position to currentPrice. Derived on demand,
// never stored; zero while flat.
func (t *Tracker) UnrealizedPnL(currentPrice float64) float64 {
	if t.qty == 0 {
		return 0
	}
	return t.qty * (currentPrice - t.avgPrice)
}

func (t *Tracker) Quantity() float64  { return t.qty }
func (t *Tracker) AvgPrice() float64  { return t.avgPrice }
func (t *Tracker) TotalCost() float64 { return t.totalCost }

// RealizedTotal sums the ledger.
func (t *Tracker) RealizedTotal() float64 {
	var total float64
	for _, e := range t.ledger {
		total += e.PnL
	}
	return total
}

// Ledger returns a copy of the realized PnL entries in insertion order.
func (t *Tracker) Ledger() []LedgerEntry {
	out := make([]LedgerEntry, len(t.ledger))
	copy(out, t.ledger)
	return out
}
