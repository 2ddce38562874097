package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_correlation/internal/app/di"
	"stock_correlation/internal/app/router"
	returnshandler "stock_correlation/internal/feature/returns/transport/handler"
	returnsusecase "stock_correlation/internal/feature/returns/usecase"
	symbollistadapters "stock_correlation/internal/feature/symbollist/adapters"
	symbollisthandler "stock_correlation/internal/feature/symbollist/transport/handler"
	symbollistusecase "stock_correlation/internal/feature/symbollist/usecase"
	"stock_correlation/internal/platform/config"
	"stock_correlation/internal/platform/http/handler"
	infraredis "stock_correlation/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	// 設定
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("failed to load config", "path", path, "error", err)
		os.Exit(1)
	}

	// 銘柄カタログ（起動時に一度だけ読み込み、以後は読み取り専用）
	catalog, err := symbollistadapters.LoadCatalog(cfg.Symbols.NasdaqListed, cfg.Symbols.OtherListed)
	if err != nil {
		slog.Error("failed to load symbol catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("symbol catalog loaded", "symbols", catalog.Len())

	// Redis（レートリミットの共有用。なくても動作する）
	var rdb *redisv9.Client
	if cfg.RedisEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password)
		cancel()
		if err != nil {
			slog.Warn("Redis unavailable. Running with in-process rate limiting.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// 外部API
	market, err := di.NewMarket(cfg)
	if err != nil {
		slog.Error("failed to create market client", "error", err)
		os.Exit(1)
	}
	if cfg.Provider == config.ProviderTwelveData && cfg.TwelveData.APIKey == "" {
		slog.Warn("TWELVE_DATA_API_KEY is not set. Provider requests will be rejected.")
	}
	limiter := di.NewRateLimiter(rdb, cfg.RateLimit.PerMinute)

	// Usecase
	symbolUC := symbollistusecase.NewSymbolUsecase(catalog)
	returnsUC := returnsusecase.NewReturnsUsecase(market, limiter, cfg.Fetch.Concurrency)

	// Handler
	symbolH := symbollisthandler.NewSymbolHandler(symbolUC)
	returnsH := returnshandler.NewReturnsHandler(returnsUC)

	// ルータ生成
	var checks []handler.Check
	if rdb != nil {
		checks = append(checks, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	r := router.NewRouter(returnsH, symbolH, checks...)

	slog.Info("starting server", "addr", cfg.Server.Addr, "provider", cfg.Provider)
	if err := r.Run(cfg.Server.Addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
