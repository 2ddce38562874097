package entity

// ReturnPoint is the daily return (close - open) observed on Date.
type ReturnPoint struct {
	Date   string
	Return float64
}

// ReturnSeries is the chronologically ordered return history of one symbol.
type ReturnSeries struct {
	Symbol string
	Points []ReturnPoint
}

// Len returns the number of trading days in the series.
func (s ReturnSeries) Len() int { return len(s.Points) }

// Values returns the return column in series order.
func (s ReturnSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Return
	}
	return out
}

// CorrelationMatrix is a symmetric matrix of Pearson coefficients keyed by ticker.
// A NaN cell means the coefficient is undefined (zero variance or fewer than two points).
type CorrelationMatrix struct {
	Tickers []string
	Values  map[string]map[string]float64
}

// At returns the coefficient for the pair (a, b).
func (m CorrelationMatrix) At(a, b string) float64 {
	return m.Values[a][b]
}
