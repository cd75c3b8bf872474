package marketdata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrExhausted is returned once every recorded price has been consumed.
var ErrExhausted = errors.New("marketdata: replay exhausted")

// Replay plays back recorded prices from a CSV file, one row per call.
// It lets the controller run against historical data instead of a live feed.
//
// CSV format: time,price. A header row starting with "time" is skipped and
// blank rows are ignored.
type Replay struct {
	f *os.File
	r *csv.Reader
}

// NewReplay opens a recorded price file for playback.
func NewReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	return &Replay{f: f, r: r}, nil
}

// CurrentPrice returns the next recorded price, or ErrExhausted at EOF.
func (rp *Replay) CurrentPrice(_ context.Context, _ string) (float64, error) {
	for {
		row, err := rp.r.Read()
		if err == io.EOF {
			return 0, ErrExhausted
		}
		if err != nil {
			return 0, fmt.Errorf("read replay row: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
			continue
		}
		if len(row) < 2 {
			return 0, fmt.Errorf("bad replay row (need time,price): %v", row)
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return 0, fmt.Errorf("bad price %q: %w", row[1], err)
		}
		return price, nil
	}
}

func (rp *Replay) Close() error {
	return rp.f.Close()
}
