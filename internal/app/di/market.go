// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"
	"time"

	"stock_correlation/internal/feature/returns/usecase"
	"stock_correlation/internal/platform/config"
	"stock_correlation/internal/platform/externalapi/twelvedata"
	"stock_correlation/internal/platform/externalapi/yahoo"
	infrahttp "stock_correlation/internal/platform/http"
)

// yahooUserAgent is sent to Yahoo, which rejects requests without a browser-like User-Agent.
const yahooUserAgent = "Mozilla/5.0"

// NewMarket creates the MarketRepository selected by cfg.Provider with its HTTP client.
func NewMarket(cfg *config.Config) (usecase.MarketRepository, error) {
	switch cfg.Provider {
	case config.ProviderTwelveData:
		httpClient := infrahttp.NewHTTPClient(timeoutOrDefault(cfg.TwelveData.Timeout), "")
		return twelvedata.NewTwelveDataMarket(cfg.TwelveData, httpClient), nil
	case config.ProviderYahoo:
		httpClient := infrahttp.NewHTTPClient(timeoutOrDefault(cfg.Yahoo.Timeout), yahooUserAgent)
		return yahoo.NewYahooMarket(cfg.Yahoo, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown market provider %q", cfg.Provider)
	}
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}
