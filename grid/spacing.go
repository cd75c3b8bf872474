package grid

import "math"

// DynamicSpacing suggests a grid spacing from an absolute price volatility
// estimate, floored at 0.5 so the ladder never collapses in quiet markets.
func DynamicSpacing(volatility float64) float64 {
	return math.Max(0.5, volatility*0.01)
}

// Volatility is a streaming estimator: the standard deviation of log returns
// over a rolling window of prices, scaled back to price terms.
type Volatility struct {
	window int
	prices []float64
}

// NewVolatility creates an estimator over the given window of price samples.
// Windows below two samples are bumped to two.
func NewVolatility(window int) *Volatility {
	if window < 2 {
		window = 2
	}
	return &Volatility{window: window, prices: make([]float64, 0, window)}
}

func (v *Volatility) Update(price float64) {
	v.prices = append(v.prices, price)
	if len(v.prices) > v.window {
		v.prices = v.prices[1:]
	}
}

func (v *Volatility) Ready() bool { return len(v.prices) >= v.window }

// Value returns the return stddev multiplied by the latest price, i.e. an
// absolute volatility comparable with a grid spacing. Zero until two samples
// have arrived.
func (v *Volatility) Value() float64 {
	if len(v.prices) < 2 {
		return 0
	}

	rets := make([]float64, 0, len(v.prices)-1)
	for i := 1; i < len(v.prices); i++ {
		rets = append(rets, math.Log(v.prices[i]/v.prices[i-1]))
	}

	var mean float64
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))

	var sum float64
	for _, r := range rets {
		d := r - mean
		sum += d * d
	}
	sd := math.Sqrt(sum / float64(len(rets)))

	return sd * v.prices[len(v.prices)-1]
}
