package grid

import "sort"

// Book maps grid level indices to the orders opened at them, open and
// closed, in insertion order.
type Book struct {
	orders map[int][]*Order
}

func NewBook() *Book {
	return &Book{orders: make(map[int][]*Order)}
}

// Reconcile closes every still-open order at a tracked level that is absent
// from the new ladder and drops those entries entirely, so a level that
// later reappears is treated as fresh. Levels present in both the book and
// the ladder are left untouched; their open orders persist across ticks.
// The closed orders are returned for closure reporting.
func (b *Book) Reconcile(levels []Level) []*Order {
	keep := make(map[int]struct{}, len(levels))
	for _, l := range levels {
		keep[l.Index] = struct{}{}
	}

	var closed []*Order
	for idx, orders := range b.orders {
		if _, ok := keep[idx]; ok {
			continue
		}
		for _, o := range orders {
			if o.Open {
				o.Open = false
				closed = append(closed, o)
			}
		}
		delete(b.orders, idx)
	}
	return closed
}

// ShouldPlace reports whether the level has no open order of the given side.
// Together with Add this keeps at most one open order per (level, side);
// Add does not re-check, that is the caller's job.
func (b *Book) ShouldPlace(index int, side Side) bool {
	for _, o := range b.orders[index] {
		if o.Open && o.Side == side {
			return false
		}
	}
	return true
}

// Add appends the order under its level index.
func (b *Book) Add(o *Order) {
	b.orders[o.Level] = append(b.orders[o.Level], o)
}

// ActiveOrders returns all open orders, ordered by level index and, within a
// level, by insertion order.
func (b *Book) ActiveOrders() []*Order {
	idxs := make([]int, 0, len(b.orders))
	for idx := range b.orders {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)

	var active []*Order
	for _, idx := range idxs {
		for _, o := range b.orders[idx] {
			if o.Open {
				active = append(active, o)
			}
		}
	}
	return active
}

// TrackedLevels returns the number of level entries currently in the book.
func (b *Book) TrackedLevels() int { return len(b.orders) }
