package usecase

import (
	"fmt"

	"stock_correlation/internal/feature/returns/domain"
	"stock_correlation/internal/feature/returns/domain/entity"
)

// BuildReturns は各バーの日次リターン（終値 - 始値）を計算し、バーと同じ順序・同じ件数の系列を返します。
// 始値または終値が欠けているバーがあれば ErrMalformedBar を返します。
func BuildReturns(symbol string, bars []entity.PriceBar) (entity.ReturnSeries, error) {
	points := make([]entity.ReturnPoint, 0, len(bars))
	for i, b := range bars {
		if !b.Open.Valid || !b.Close.Valid {
			return entity.ReturnSeries{}, fmt.Errorf("%w: %s bar %d (%s) is missing open or close", domain.ErrMalformedBar, symbol, i, b.Date)
		}
		// decimal で差を取ってから float64 に変換する
		r := b.Close.Decimal.Sub(b.Open.Decimal).InexactFloat64()
		points = append(points, entity.ReturnPoint{Date: b.Date, Return: r})
	}
	return entity.ReturnSeries{Symbol: symbol, Points: points}, nil
}
