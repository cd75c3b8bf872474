package grid

import (
	"errors"
	"math"
)

// ErrInvalidGrid is returned for a non-positive spacing or a negative count.
var ErrInvalidGrid = errors.New("grid: spacing must be positive and count non-negative")

// Level is one price point in the ladder. Index is the level's absolute
// multiple of the grid spacing, so the same price always maps to the same
// index no matter which tick produced it. Book keys use the index, never the
// float price, which keeps reconciliation immune to rounding drift.
type Level struct {
	Index int
	Price float64
}

// ComputeLevels derives the ladder around price: 2*count+1 ascending levels
// spaced by spacing, centered on the nearest multiple of spacing.
func ComputeLevels(price, spacing float64, count int) ([]Level, error) {
	if spacing <= 0 || count < 0 {
		return nil, ErrInvalidGrid
	}

	base := int(math.Round(price / spacing))
	levels := make([]Level, 0, 2*count+1)
	for k := -count; k <= count; k++ {
		idx := base + k
		levels = append(levels, Level{Index: idx, Price: float64(idx) * spacing})
	}
	return levels, nil
}
