package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stock_correlation/internal/feature/returns/domain"
	"stock_correlation/internal/feature/returns/domain/entity"
	"stock_correlation/internal/feature/returns/usecase"
	"stock_correlation/internal/platform/externalapi/twelvedata/dto"
)

// noDataMessage はデータが存在しない期間を指定したときにTwelve Dataが返すエラーメッセージの接頭辞です。
const noDataMessage = "No data is available on the specified dates"

// TwelveDataMarket はTwelve Data外部APIから株価データを取得するMarketRepository実装です。
type TwelveDataMarket struct {
	cfg    Config
	client *http.Client
}

// TwelveDataMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
func NewTwelveDataMarket(cfg Config, client *http.Client) *TwelveDataMarket {
	return &TwelveDataMarket{cfg: cfg, client: client}
}

// referenceEndpoints は銘柄の解決に使う参照エンドポイントです。ETF は /stocks に含まれないため /etf も確認します。
var referenceEndpoints = []string{"stocks", "etf"}

// ResolveSymbol は /stocks、続いて /etf エンドポイントで銘柄が存在するか確認します。
// どちらにも一致する銘柄がない場合は ErrSymbolNotFound を返します。
func (t *TwelveDataMarket) ResolveSymbol(ctx context.Context, symbol string) error {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("apikey", t.cfg.APIKey)

	for _, path := range referenceEndpoints {
		var body dto.ReferenceResponse
		if err := t.get(ctx, path, q, &body); err != nil {
			return err
		}
		if body.Status == "error" {
			return fmt.Errorf("%w: twelvedata: %s", domain.ErrDataProvider, body.Message)
		}
		for _, d := range body.Data {
			if strings.EqualFold(d.Symbol, symbol) {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrSymbolNotFound, symbol)
}

// GetDailyBars はTwelve Data APIから期間内の日足を昇順で取得し、
// entity.PriceBarのスライスとして返します。
func (t *TwelveDataMarket) GetDailyBars(ctx context.Context, symbol string, r entity.DateRange) ([]entity.PriceBar, error) {
	q := url.Values{}
	// クエリパラメータを追加
	q.Set("symbol", symbol)
	q.Set("interval", "1day")
	q.Set("start_date", r.StartString())
	q.Set("end_date", r.EndString())
	q.Set("order", "ASC")
	q.Set("apikey", t.cfg.APIKey)

	var body dto.TimeSeriesResponse
	if err := t.get(ctx, "time_series", q, &body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		// 取引履歴と重ならない期間はエラーではなく0件として扱う
		if strings.HasPrefix(body.Message, noDataMessage) {
			return []entity.PriceBar{}, nil
		}
		return nil, fmt.Errorf("%w: twelvedata: %s", domain.ErrDataProvider, body.Message)
	}

	bars := make([]entity.PriceBar, 0, len(body.Values))
	for _, v := range body.Values {
		// タイムスタンプをパース
		tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
		if err != nil {
			tm, err = time.Parse(entity.DateLayout, v.Datetime)
			if err != nil {
				return nil, fmt.Errorf("%w: parse time %q: %v", domain.ErrDataProvider, v.Datetime, err)
			}
		}
		// 始値をパース
		o, err := parsePrice(v.Open)
		if err != nil {
			return nil, fmt.Errorf("%w: parse open %q: %v", domain.ErrDataProvider, deref(v.Open), err)
		}
		// 終値をパース
		c, err := parsePrice(v.Close)
		if err != nil {
			return nil, fmt.Errorf("%w: parse close %q: %v", domain.ErrDataProvider, deref(v.Close), err)
		}

		bars = append(bars, entity.PriceBar{
			Date:  tm.Format(entity.DateLayout),
			Open:  o,
			Close: c,
		})
	}
	return bars, nil
}

// get は path にGETリクエストを送り、JSONレスポンスを out にデコードします。
func (t *TwelveDataMarket) get(ctx context.Context, path string, q url.Values, out any) error {
	// URLを生成
	u := fmt.Sprintf("%s/%s?%s", strings.TrimRight(t.cfg.BaseURL, "/"), path, q.Encode())

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDataProvider, err)
	}

	// リクエストを実行
	res, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDataProvider, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("%w: twelvedata http %d", domain.ErrDataProvider, res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", domain.ErrDataProvider, path, err)
	}
	return nil
}

// parsePrice は価格文字列をdecimalに変換します。nil または空文字は欠損値として扱います。
func parsePrice(s *string) (decimal.NullDecimal, error) {
	if s == nil || *s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
