package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gridbot/grid"
	"gridbot/journal"
	"gridbot/pkg/id"
	"gridbot/position"
	"gridbot/risk"
)

// PriceSource supplies the current market price for a symbol. It fails on
// transport or parse errors; the engine fails the tick and the caller
// retries next cycle.
type PriceSource interface {
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// Reporter receives the per-tick snapshot. The format (console, log, chart)
// is the reporter's concern.
type Reporter interface {
	Report(Snapshot)
}

// ActiveOrder is one open order in a snapshot.
type ActiveOrder struct {
	Level      int
	LevelPrice float64
	Side       grid.Side
	Price      float64
	Quantity   float64
}

// Snapshot is the engine state emitted at the end of every tick.
type Snapshot struct {
	Time          time.Time
	Symbol        string
	Price         float64
	ActiveOrders  []ActiveOrder
	PositionQty   float64
	AvgPrice      float64
	UnrealizedPnL float64
	RealizedPnL   float64
	Equity        float64
}

// Params configure an engine instance.
type Params struct {
	Symbol   string
	Spacing  float64
	Count    int
	OrderQty float64
}

func (p Params) validate() error {
	if p.Symbol == "" {
		return errors.New("engine: symbol is required")
	}
	if p.Spacing <= 0 || p.Count < 0 {
		return grid.ErrInvalidGrid
	}
	if p.OrderQty <= 0 {
		return errors.New("engine: order quantity must be positive")
	}
	return nil
}

// Engine drives one trading pair. Each Tick samples the price, recenters the
// ladder, reconciles the book against it, evaluates the crossing signal, and
// applies at most one fill to position and risk state. All engine state is
// confined to the goroutine calling Tick; running one engine per pair keeps
// pairs fully isolated.
type Engine struct {
	params Params

	source   PriceSource
	fills    FillModel
	reporter Reporter
	journal  journal.Journal
	log      *zap.Logger

	book *grid.Book
	pos  *position.Tracker
	risk *risk.Manager
	ids  *id.Generator

	now func() time.Time
}

func New(p Params, source PriceSource, fills FillModel, rm *risk.Manager, j journal.Journal, rep Reporter, log *zap.Logger) (*Engine, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if j == nil {
		j = journal.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{
		params:   p,
		source:   source,
		fills:    fills,
		reporter: rep,
		journal:  j,
		log:      log,
		book:     grid.NewBook(),
		pos:      position.NewTracker(),
		risk:     rm,
		ids:      id.NewGenerator(),
		now:      time.Now,
	}, nil
}

// Tick runs one full cycle. A price fetch failure fails the whole tick with
// no state mutated; every other step runs in a fixed order: reconcile, then
// signal, then fill, then report.
func (e *Engine) Tick(ctx context.Context) error {
	price, err := e.source.CurrentPrice(ctx, e.params.Symbol)
	if err != nil {
		return fmt.Errorf("fetch price for %s: %w", e.params.Symbol, err)
	}

	levels, err := grid.ComputeLevels(price, e.params.Spacing, e.params.Count)
	if err != nil {
		return err
	}

	for _, o := range e.book.Reconcile(levels) {
		e.log.Info("closed order at removed grid level",
			zap.String("order_id", o.ID),
			zap.String("side", string(o.Side)),
			zap.Int("level", o.Level),
			zap.Float64("level_price", o.LevelPrice))
	}

	if sig, ok := grid.FindSignal(price, levels, e.params.Spacing); ok {
		e.placeOrder(sig, price)
	}

	snap := e.snapshot(price)
	if e.reporter != nil {
		e.reporter.Report(snap)
	}

	if err := e.journal.RecordEquity(journal.EquitySnapshot{
		Time:          snap.Time,
		Equity:        snap.Equity,
		PositionQty:   snap.PositionQty,
		AvgPrice:      snap.AvgPrice,
		UnrealizedPnL: snap.UnrealizedPnL,
		RealizedPnL:   snap.RealizedPnL,
	}); err != nil {
		return fmt.Errorf("record equity: %w", err)
	}
	return nil
}

// placeOrder runs the gate chain for a signal: book dedupe, then risk, then
// the fill model, then position and equity accounting. Any rejection means
// no order this tick.
func (e *Engine) placeOrder(sig grid.Signal, price float64) {
	if !e.book.ShouldPlace(sig.Level.Index, sig.Side) {
		return
	}

	if d := e.risk.CanPlace(e.params.OrderQty, price); !d.Allowed {
		for _, v := range d.Violations {
			e.log.Warn("order rejected",
				zap.String("code", v.Code),
				zap.String("reason", v.Msg))
		}
		return
	}

	order := grid.Order{
		ID:         e.ids.Next(),
		Side:       sig.Side,
		Price:      price,
		Quantity:   e.params.OrderQty,
		Level:      sig.Level.Index,
		LevelPrice: sig.Level.Price,
		Open:       true,
		Time:       e.now(),
	}

	fill, err := e.fills.Fill(order)
	if err != nil {
		e.log.Error("fill model rejected order",
			zap.String("order_id", order.ID), zap.Error(err))
		return
	}

	isBuy := order.Side == grid.Buy
	var tradeID string
	if !isBuy {
		tradeID = e.ids.Next()
	}

	realized, err := e.pos.ApplyFill(tradeID, fill.Quantity, fill.Price, isBuy)
	if err != nil {
		e.log.Error("fill not applied",
			zap.String("order_id", order.ID), zap.Error(err))
		return
	}

	e.book.Add(&order)

	if !isBuy {
		if e.risk.ApplyPnL(realized) {
			e.log.Warn("maximum drawdown exceeded",
				zap.Float64("drawdown", e.risk.Drawdown()),
				zap.Float64("equity", e.risk.Equity()))
		}
	}

	e.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("side", string(order.Side)),
		zap.Float64("price", order.Price),
		zap.Float64("quantity", order.Quantity),
		zap.Float64("level_price", order.LevelPrice))

	if err := e.journal.RecordFill(journal.FillRecord{
		OrderID:     order.ID,
		Symbol:      e.params.Symbol,
		Side:        order.Side,
		Quantity:    fill.Quantity,
		Price:       fill.Price,
		Level:       order.Level,
		LevelPrice:  order.LevelPrice,
		RealizedPnL: realized,
		Time:        fill.Time,
	}); err != nil {
		e.log.Error("record fill", zap.String("order_id", order.ID), zap.Error(err))
	}
}

func (e *Engine) snapshot(price float64) Snapshot {
	var active []ActiveOrder
	for _, o := range e.book.ActiveOrders() {
		active = append(active, ActiveOrder{
			Level:      o.Level,
			LevelPrice: o.LevelPrice,
			Side:       o.Side,
			Price:      o.Price,
			Quantity:   o.Quantity,
		})
	}

	return Snapshot{
		Time:          e.now(),
		Symbol:        e.params.Symbol,
		Price:         price,
		ActiveOrders:  active,
		PositionQty:   e.pos.Quantity(),
		AvgPrice:      e.pos.AvgPrice(),
		UnrealizedPnL: e.pos.UnrealizedPnL(price),
		RealizedPnL:   e.pos.RealizedTotal(),
		Equity:        e.risk.Equity(),
	}
}

// Position exposes the tracker for inspection.
func (e *Engine) Position() *position.Tracker { return e.pos }

// Book exposes the order book for inspection.
func (e *Engine) Book() *grid.Book { return e.book }
