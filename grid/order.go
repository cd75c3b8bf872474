package grid

import "time"

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Order is a simulated grid order. Orders are owned by the Book and indexed
// under the grid level they belong to. Closing an order is a flag flip; no
// cancellation round trip is modeled.
type Order struct {
	ID         string
	Side       Side
	Price      float64 // price at which the order was opened
	Quantity   float64
	Level      int // grid level index, see Level.Index
	LevelPrice float64
	Open       bool
	Time       time.Time
}
