package grid

import "math"

// ToleranceFactor sizes the band around a level, relative to spacing, inside
// which price counts as crossing the level.
const ToleranceFactor = 0.1

// Signal is a buy or sell trigger at a single grid level.
type Signal struct {
	Side  Side
	Level Level
}

// FindSignal locates the bracketing pair lower < price <= upper in the
// ascending ladder and checks whether price sits inside the tolerance band
// of either bound. The lower bound is checked first, so a buy wins when both
// are in range. At most one signal is produced per call.
func FindSignal(price float64, levels []Level, spacing float64) (Signal, bool) {
	tol := spacing * ToleranceFactor
	for i := 0; i+1 < len(levels); i++ {
		lower, upper := levels[i], levels[i+1]
		if price <= lower.Price || price > upper.Price {
			continue
		}
		if math.Abs(price-lower.Price) < tol {
			return Signal{Side: Buy, Level: lower}, true
		}
		if math.Abs(price-upper.Price) < tol {
			return Signal{Side: Sell, Level: upper}, true
		}
		return Signal{}, false
	}
	return Signal{}, false
}
