package engine

import (
	"time"

	"go.uber.org/zap"

	"gridbot/grid"
)

// Fill is the result of handing an order to a FillModel.
type Fill struct {
	OrderID  string
	Price    float64
	Quantity float64
	Time     time.Time
}

// FillModel turns an order into a fill. The engine applies all position and
// risk effects itself; a model only decides price and quantity. Swapping in
// a real execution backend does not touch the engine.
type FillModel interface {
	Fill(o grid.Order) (Fill, error)
}

// SimFill is the stub execution backend: every order fills fully and
// instantly at its own price, with no slippage and no fees.
type SimFill struct {
	Log *zap.Logger
}

func (s SimFill) Fill(o grid.Order) (Fill, error) {
	if s.Log != nil {
		s.Log.Info("placing order",
			zap.String("side", string(o.Side)),
			zap.Float64("quantity", o.Quantity),
			zap.Float64("price", o.Price))
	}

	return Fill{
		OrderID:  o.ID,
		Price:    o.Price,
		Quantity: o.Quantity,
		Time:     o.Time,
	}, nil
}
