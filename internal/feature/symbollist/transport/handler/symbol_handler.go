// Package handler はsymbollistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_correlation/internal/api"
)

// SymbolUsecase は銘柄情報に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SymbolUsecase interface {
	ListSymbolCodes(ctx context.Context) ([]string, error)
}

// SymbolHandler は銘柄情報に関するHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List はAPIがサポートする銘柄コードの一覧をフラットな文字列配列で返します。
//
// エンドポイント例:
// GET /tickers
func (h *SymbolHandler) List(c *gin.Context) {
	codes, err := h.uc.ListSymbolCodes(c.Request.Context())
	if err != nil {
		slog.Error("failed to list tickers", "error", err)
		api.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if codes == nil {
		codes = []string{}
	}
	c.JSON(http.StatusOK, codes)
}
