package journal

import (
	"time"

	"gridbot/grid"
)

// FillRecord is one simulated fill: an order the engine opened and applied
// to the position. RealizedPnL is zero for buys.
type FillRecord struct {
	OrderID     string
	Symbol      string
	Side        grid.Side
	Quantity    float64
	Price       float64
	Level       int
	LevelPrice  float64
	RealizedPnL float64
	Time        time.Time
}

// EquitySnapshot is the account state written once per tick.
type EquitySnapshot struct {
	Time          time.Time
	Equity        float64
	PositionQty   float64
	AvgPrice      float64
	UnrealizedPnL float64
	RealizedPnL   float64
}

type Journal interface {
	RecordFill(FillRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards all records. Used when running without persistence.
type Nop struct{}

func (Nop) RecordFill(FillRecord) error       { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
