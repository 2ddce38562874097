package router

import (
	"github.com/gin-gonic/gin"

	"stock_correlation/internal/api"
	returnshandler "stock_correlation/internal/feature/returns/transport/handler"
	symbollisthandler "stock_correlation/internal/feature/symbollist/transport/handler"
	"stock_correlation/internal/platform/http/handler"
)

// NewRouter はすべてのエンドポイントを登録したginエンジンを返します。
// checks はヘルスチェックで確認する依存先です。
func NewRouter(returns *returnshandler.ReturnsHandler, symbol *symbollisthandler.SymbolHandler, checks ...handler.Check) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	health := handler.Health(checks...)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	// サポートしている銘柄一覧
	r.GET("/tickers", symbol.List)

	// 日次リターンと相関係数
	r.GET("/returns/:ticker/:start_date/:end_date", returns.GetReturns)
	r.GET("/correlation/:ticker1/:ticker2/:start_date/:end_date", returns.GetCorrelation)
	r.POST("/correlation_matrix/", returns.GetCorrelationMatrix)

	// 未定義のルートは {url, message} 形式の404を返す
	r.NoRoute(api.NotFound)

	return r
}
