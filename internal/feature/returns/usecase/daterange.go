package usecase

import (
	"fmt"
	"time"

	"stock_correlation/internal/feature/returns/domain"
	"stock_correlation/internal/feature/returns/domain/entity"
)

// ValidateDateRange は2つの日付文字列をパースし、開始日 <= 終了日 であることを検証します。
// 開始日と終了日が同じ場合も有効な範囲として扱います。
func ValidateDateRange(start, end string) (entity.DateRange, error) {
	s, err := time.Parse(entity.DateLayout, start)
	if err != nil {
		return entity.DateRange{}, fmt.Errorf("%w: start date %q", domain.ErrInvalidDateFormat, start)
	}
	e, err := time.Parse(entity.DateLayout, end)
	if err != nil {
		return entity.DateRange{}, fmt.Errorf("%w: end date %q", domain.ErrInvalidDateFormat, end)
	}
	if e.Before(s) {
		return entity.DateRange{}, fmt.Errorf("%w: start date %s is greater than end date %s", domain.ErrInvertedRange, start, end)
	}
	return entity.DateRange{Start: s, End: e}, nil
}
