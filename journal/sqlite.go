package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordFill(r FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(order_id, symbol, side, quantity, price, level, level_price, realized_pnl, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.OrderID, r.Symbol, string(r.Side), r.Quantity, r.Price,
		r.Level, r.LevelPrice, r.RealizedPnL, r.Time,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, equity, position_qty, avg_price, unrealized_pnl, realized_pnl)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Time, e.Equity, e.PositionQty, e.AvgPrice, e.UnrealizedPnL, e.RealizedPnL,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
