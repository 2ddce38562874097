// Package yahoo provides a MarketRepository backed by the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stock_correlation/internal/feature/returns/domain"
	"stock_correlation/internal/feature/returns/domain/entity"
	"stock_correlation/internal/feature/returns/usecase"
)

// DefaultBaseURL is the public Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Config holds configuration for the Yahoo Finance client.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{BaseURL: DefaultBaseURL, Timeout: 10 * time.Second}
}

// YahooMarket fetches daily bars from the Yahoo Finance chart API.
type YahooMarket struct {
	cfg    Config
	client *http.Client
}

var _ usecase.MarketRepository = (*YahooMarket)(nil)

// NewYahooMarket creates a YahooMarket with the given configuration and HTTP client.
func NewYahooMarket(cfg Config, client *http.Client) *YahooMarket {
	return &YahooMarket{cfg: cfg, client: client}
}

// ResolveSymbol requests a one-day chart; Yahoo answers unknown symbols with 404
// or a chart error whose code is "Not Found".
func (y *YahooMarket) ResolveSymbol(ctx context.Context, symbol string) error {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("range", "1d")

	chart, status, err := y.fetchChart(ctx, symbol, q)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound || (chart.Chart.Error != nil && chart.Chart.Error.Code == "Not Found") {
		return fmt.Errorf("%w: %s", domain.ErrSymbolNotFound, symbol)
	}
	if status >= 400 {
		return fmt.Errorf("%w: yahoo http %d", domain.ErrDataProvider, status)
	}
	if chart.Chart.Error != nil {
		return fmt.Errorf("%w: yahoo: %s", domain.ErrDataProvider, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrSymbolNotFound, symbol)
	}
	return nil
}

// GetDailyBars returns daily bars in [start, end) sorted ascending.
// The end date is exclusive, so start == end is an empty range and no request is made.
// Rows with neither open nor close (holiday placeholders) are skipped.
func (y *YahooMarket) GetDailyBars(ctx context.Context, symbol string, r entity.DateRange) ([]entity.PriceBar, error) {
	if r.Start.Equal(r.End) {
		return []entity.PriceBar{}, nil
	}

	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", strconv.FormatInt(r.Start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(r.End.Unix(), 10))

	chart, status, err := y.fetchChart(ctx, symbol, q)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: yahoo http %d", domain.ErrDataProvider, status)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: yahoo: %s", domain.ErrDataProvider, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return []entity.PriceBar{}, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: yahoo: no quote indicators for %s", domain.ErrDataProvider, symbol)
	}
	quote := result.Indicators.Quote[0]

	type row struct {
		ts  int64
		bar entity.PriceBar
	}
	rows := make([]row, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		c := at(quote.Close, i)
		if o == nil && c == nil {
			continue
		}
		day := time.Unix(ts+result.Meta.GMTOffset, 0).UTC()
		rows = append(rows, row{ts: ts, bar: entity.PriceBar{
			Date:  day.Format(entity.DateLayout),
			Open:  toNullDecimal(o),
			Close: toNullDecimal(c),
		}})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ts < rows[j].ts })

	bars := make([]entity.PriceBar, len(rows))
	for i, rw := range rows {
		bars[i] = rw.bar
	}
	return bars, nil
}

// fetchChart performs the chart request. The body is decoded whatever the status,
// since Yahoo reports errors inside the JSON payload.
func (y *YahooMarket) fetchChart(ctx context.Context, symbol string, q url.Values) (chartResponse, int, error) {
	var chart chartResponse
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", strings.TrimRight(y.cfg.BaseURL, "/"), url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return chart, 0, fmt.Errorf("%w: %v", domain.ErrDataProvider, err)
	}
	res, err := y.client.Do(req)
	if err != nil {
		return chart, 0, fmt.Errorf("%w: yahoo fetch: %w", domain.ErrDataProvider, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return chart, res.StatusCode, fmt.Errorf("%w: yahoo read body: %v", domain.ErrDataProvider, err)
	}
	if err := json.Unmarshal(body, &chart); err != nil {
		if res.StatusCode >= 400 {
			return chart, res.StatusCode, nil
		}
		return chart, res.StatusCode, fmt.Errorf("%w: yahoo decode: %v", domain.ErrDataProvider, err)
	}
	return chart, res.StatusCode, nil
}

func at(xs []*float64, i int) *float64 {
	if i >= len(xs) {
		return nil
	}
	return xs[i]
}

func toNullDecimal(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*v))
}
