package indicator

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientData is returned when a price series is too short for a
// required indicator lookback. Callers treat it as "skip this asset".
var ErrInsufficientData = errors.New("insufficient data")

// CalculateSMA computes the simple moving average of the last `period` prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, fmt.Errorf("sma(%d) needs %d points, have %d: %w", period, period, len(prices), ErrInsufficientData)
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateRSI computes the Wilder-smoothed RSI over the given period.
// Requires at least period+1 prices.
func CalculateRSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period+1 {
		return 0, fmt.Errorf("rsi(%d) needs %d points, have %d: %w", period, period+1, len(prices), ErrInsufficientData)
	}

	// Initial average gain/loss over the first `period` changes.
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing for the remaining observations.
	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}

// emaSeries computes an SMA-seeded exponential moving average series.
// The returned slice has len(prices)-period+1 values; the first value is the
// SMA of the first `period` prices.
func emaSeries(prices []float64, period int) []float64 {
	if len(prices) < period {
		return nil
	}
	out := make([]float64, 0, len(prices)-period+1)
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += prices[i]
	}
	seed /= float64(period)
	out = append(out, seed)

	mult := 2.0 / (float64(period) + 1.0)
	ema := seed
	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*mult + ema
		out = append(out, ema)
	}
	return out
}

// CalculateEMA computes the SMA-seeded exponential moving average of the series.
func CalculateEMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	series := emaSeries(prices, period)
	if series == nil {
		return 0, fmt.Errorf("ema(%d) needs %d points, have %d: %w", period, period, len(prices), ErrInsufficientData)
	}
	return series[len(series)-1], nil
}

// CalculateMACD computes the MACD(12,26,9) line and signal line.
// Requires at least 26 prices. With fewer than 9 MACD observations the
// signal falls back to the mean of the available line values.
func CalculateMACD(prices []float64, fast, slow, signalPeriod int) (line, signal float64, err error) {
	if len(prices) < slow {
		return 0, 0, fmt.Errorf("macd(%d,%d,%d) needs %d points, have %d: %w",
			fast, slow, signalPeriod, slow, len(prices), ErrInsufficientData)
	}

	fastSeries := emaSeries(prices, fast)
	slowSeries := emaSeries(prices, slow)

	// Both series end at the latest price; align them from the tail.
	n := len(slowSeries)
	macd := make([]float64, n)
	offset := len(fastSeries) - n
	for i := 0; i < n; i++ {
		macd[i] = fastSeries[offset+i] - slowSeries[i]
	}
	line = macd[n-1]

	if n >= signalPeriod {
		sig := emaSeries(macd, signalPeriod)
		signal = sig[len(sig)-1]
	} else {
		sum := 0.0
		for _, v := range macd {
			sum += v
		}
		signal = sum / float64(n)
	}
	return line, signal, nil
}

// CalculateBollinger computes the middle and lower Bollinger Bands using
// `width` population standard deviations around an SMA of `period`.
func CalculateBollinger(prices []float64, period int, width float64) (lower, mid float64, err error) {
	mid, err = CalculateSMA(prices, period)
	if err != nil {
		return 0, 0, err
	}
	variance := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		d := prices[i] - mid
		variance += d * d
	}
	variance /= float64(period)
	stddev := math.Sqrt(variance)
	return mid - width*stddev, mid, nil
}
