// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check は依存先（Redisなど）の疎通を確認する関数です。
type Check func(ctx context.Context) error

// checkTimeout は1回のヘルスチェック全体の上限時間です。
const checkTimeout = 2 * time.Second

// Health はサービスヘルスチェック用の /healthz エンドポイントのハンドラーを返します。
// いずれかの Check が失敗した場合は 503 を返します。キャッシュは常に防止します。
func Health(checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		status, body := http.StatusOK, "ok"
		ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				slog.Warn("health check failed", "error", err)
				status, body = http.StatusServiceUnavailable, "unavailable"
				break
			}
		}

		if c.Request.Method == http.MethodHead {
			c.Status(status)
			return
		}
		c.JSON(status, gin.H{"status": body})
	}
}
