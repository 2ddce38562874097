// Package usecase はリターン系列と相関係数の計算に関するビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"stock_correlation/internal/feature/returns/domain"
	"stock_correlation/internal/feature/returns/domain/entity"
	"stock_correlation/internal/shared/ratelimiter"
)

// MarketRepository は外部の株価データプロバイダーを抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	// ResolveSymbol はプロバイダーが銘柄を解決できるか確認します。解決できない場合は ErrSymbolNotFound を返します。
	ResolveSymbol(ctx context.Context, symbol string) error
	// GetDailyBars は期間内の日足を昇順で返します。データがない場合は空スライスを返します（エラーではない）。
	GetDailyBars(ctx context.Context, symbol string, r entity.DateRange) ([]entity.PriceBar, error)
}

// ReturnsUsecase は日付検証 → 銘柄解決 → 日足取得 → リターン計算 → 相関計算の流れを提供します。
type ReturnsUsecase struct {
	market      MarketRepository
	rateLimiter ratelimiter.Limiter
	concurrency int
}

// NewReturnsUsecase は新しい ReturnsUsecase を作成します。
// concurrency は相関行列の計算時に同時に取得する銘柄数の上限で、1以下なら逐次取得します。
func NewReturnsUsecase(market MarketRepository, rateLimiter ratelimiter.Limiter, concurrency int) *ReturnsUsecase {
	if rateLimiter == nil {
		rateLimiter = ratelimiter.Noop{}
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &ReturnsUsecase{market: market, rateLimiter: rateLimiter, concurrency: concurrency}
}

// GetReturns は指定銘柄・期間の日次リターン系列を返します。
func (u *ReturnsUsecase) GetReturns(ctx context.Context, ticker, start, end string) (entity.ReturnSeries, error) {
	r, err := ValidateDateRange(start, end)
	if err != nil {
		return entity.ReturnSeries{}, err
	}
	return u.fetchSeries(ctx, ticker, r)
}

// GetCorrelation は2銘柄の日次リターンのピアソン相関係数を返します。
func (u *ReturnsUsecase) GetCorrelation(ctx context.Context, ticker1, ticker2, start, end string) (float64, error) {
	r, err := ValidateDateRange(start, end)
	if err != nil {
		return 0, err
	}
	a, err := u.fetchSeries(ctx, ticker1, r)
	if err != nil {
		return 0, err
	}
	b, err := u.fetchSeries(ctx, ticker2, r)
	if err != nil {
		return 0, err
	}
	return Correlate(a, b)
}

// GetCorrelationMatrix は複数銘柄の相関行列を返します。
// 各銘柄は取得でき次第、最初の銘柄と件数を比較します。取得エラーまたは件数の不一致が起きた時点で残りの取得を中止し、
// 呼び出し元が指定した順で最も前にある失敗を返します。部分的な結果は返しません。
func (u *ReturnsUsecase) GetCorrelationMatrix(ctx context.Context, tickers []string, start, end string) (entity.CorrelationMatrix, error) {
	r, err := ValidateDateRange(start, end)
	if err != nil {
		return entity.CorrelationMatrix{}, err
	}
	if len(tickers) == 0 {
		return entity.CorrelationMatrix{}, domain.ErrNoTickers
	}

	f := &matrixFetch{
		tickers: tickers,
		results: make([]entity.ReturnSeries, len(tickers)),
		ready:   make([]bool, len(tickers)),
		errs:    make([]error, len(tickers)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for i, t := range tickers {
		// 並列数が1の場合、前の銘柄が失敗していればここで打ち切られる
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := u.fetchSeries(gctx, t, r)
			return f.record(i, s, err)
		})
	}
	waitErr := g.Wait()

	if err := f.firstFailure(ctx); err != nil {
		return entity.CorrelationMatrix{}, err
	}
	if waitErr != nil {
		return entity.CorrelationMatrix{}, waitErr
	}
	// 呼び出し元のキャンセルで1件も取得を開始しなかった場合
	if err := ctx.Err(); err != nil {
		return entity.CorrelationMatrix{}, err
	}

	series := make(map[string]entity.ReturnSeries, len(tickers))
	for i, t := range tickers {
		if _, ok := series[t]; !ok {
			series[t] = f.results[i]
		}
	}
	return CorrelateMatrix(tickers, series)
}

// matrixFetch は相関行列のために取得した系列と銘柄ごとの失敗を保持します。
type matrixFetch struct {
	mu      sync.Mutex
	tickers []string
	results []entity.ReturnSeries
	ready   []bool
	errs    []error
}

// record は i 番目の銘柄の取得結果を保存し、最初の銘柄と件数を比較します。
// 取得エラーまたは件数の不一致があればそれを返し、errgroup に残りの取得を中止させます。
func (f *matrixFetch) record(i int, s entity.ReturnSeries, err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.errs[i] = err
		return err
	}
	f.results[i], f.ready[i] = s, true
	if !f.ready[0] {
		return nil
	}

	var first error
	check := func(j int) {
		if f.results[j].Len() != f.results[0].Len() {
			f.errs[j] = lengthMismatch(f.tickers[j], f.results[j].Len(), f.tickers[0], f.results[0].Len())
			if first == nil {
				first = f.errs[j]
			}
		}
	}
	if i == 0 {
		// 先に揃っていた銘柄をまとめて比較する
		for j := 1; j < len(f.tickers); j++ {
			if f.ready[j] {
				check(j)
			}
		}
	} else {
		check(i)
	}
	return first
}

// firstFailure は呼び出し順で最も前にある失敗を返します。
// 他の銘柄の失敗によって中止された取得は失敗として扱いません。
func (f *matrixFetch) firstFailure(ctx context.Context) error {
	for _, err := range f.errs {
		if err == nil {
			continue
		}
		if ctx.Err() == nil && errors.Is(err, context.Canceled) {
			continue
		}
		return err
	}
	return nil
}

// fetchSeries は銘柄を解決してから日足を取得し、リターン系列に変換します。
func (u *ReturnsUsecase) fetchSeries(ctx context.Context, ticker string, r entity.DateRange) (entity.ReturnSeries, error) {
	if err := u.rateLimiter.Wait(ctx); err != nil {
		return entity.ReturnSeries{}, err
	}
	if err := u.market.ResolveSymbol(ctx, ticker); err != nil {
		return entity.ReturnSeries{}, err
	}

	if err := u.rateLimiter.Wait(ctx); err != nil {
		return entity.ReturnSeries{}, err
	}
	bars, err := u.market.GetDailyBars(ctx, ticker, r)
	if err != nil {
		return entity.ReturnSeries{}, err
	}

	s, err := BuildReturns(ticker, bars)
	if err != nil {
		return entity.ReturnSeries{}, fmt.Errorf("build returns for %s: %w", ticker, err)
	}
	return s, nil
}

