package usecase

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"stock_correlation/internal/feature/returns/domain"
	"stock_correlation/internal/feature/returns/domain/entity"
)

// Correlate は2つのリターン系列のピアソン相関係数を返します。
//
// 系列は位置で対応付けられます（i番目同士が同じ取引日であるとみなす）。日付による突き合わせは行いません。
// 長さが異なる場合は ErrLengthMismatch を返します。
// どちらかの分散がゼロ、または要素数が2未満の場合、係数は定義されないため NaN を返します（エラーではありません）。
func Correlate(a, b entity.ReturnSeries) (float64, error) {
	if a.Len() != b.Len() {
		return math.NaN(), lengthMismatch(a.Symbol, a.Len(), b.Symbol, b.Len())
	}
	return pearson(a.Values(), b.Values())
}

// CorrelateMatrix は tickers の順に系列を処理し、N×N の相関行列を返します。
// 最初のティッカーと長さの異なる系列が見つかった時点で、そのシンボルを含む ErrLengthMismatch を返します。
func CorrelateMatrix(tickers []string, series map[string]entity.ReturnSeries) (entity.CorrelationMatrix, error) {
	if len(tickers) == 0 {
		return entity.CorrelationMatrix{}, domain.ErrNoTickers
	}

	cols := make([][]float64, len(tickers))
	want := -1
	for i, t := range tickers {
		s, ok := series[t]
		if !ok {
			return entity.CorrelationMatrix{}, fmt.Errorf("no return series for %s", t)
		}
		if i == 0 {
			want = s.Len()
		} else if s.Len() != want {
			return entity.CorrelationMatrix{}, lengthMismatch(t, s.Len(), tickers[0], want)
		}
		cols[i] = s.Values()
	}

	values := make(map[string]map[string]float64, len(tickers))
	for _, t := range tickers {
		values[t] = make(map[string]float64, len(tickers))
	}
	for i := range tickers {
		// 対角成分は分散がゼロでなければ常に 1
		if isConstant(cols[i]) {
			values[tickers[i]][tickers[i]] = math.NaN()
		} else {
			values[tickers[i]][tickers[i]] = 1.0
		}
		for j := i + 1; j < len(tickers); j++ {
			if tickers[j] == tickers[i] {
				// 重複したティッカーは対角成分を上書きしない
				continue
			}
			r, err := pearson(cols[i], cols[j])
			if err != nil {
				return entity.CorrelationMatrix{}, err
			}
			values[tickers[i]][tickers[j]] = r
			values[tickers[j]][tickers[i]] = r
		}
	}

	return entity.CorrelationMatrix{Tickers: tickers, Values: values}, nil
}

// lengthMismatch は symbol の件数 n が基準銘柄 ref の件数 want と異なることを表すエラーを返します。
func lengthMismatch(symbol string, n int, ref string, want int) error {
	return fmt.Errorf("%w: %s has %d returns, %s has %d", domain.ErrLengthMismatch, symbol, n, ref, want)
}

// pearson は同じ長さの2系列の相関係数を計算します。
func pearson(x, y []float64) (float64, error) {
	if isConstant(x) || isConstant(y) {
		return math.NaN(), nil
	}
	r, err := stats.Correlation(x, y)
	if err != nil {
		return math.NaN(), fmt.Errorf("correlation: %w", err)
	}
	// 丸め誤差で [-1, 1] をわずかに超える場合がある
	return math.Max(-1, math.Min(1, r)), nil
}

// isConstant は分散がゼロ（要素数2未満を含む）の場合に true を返します。
func isConstant(xs []float64) bool {
	if len(xs) < 2 {
		return true
	}
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}
