// Package handler はreturnsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_correlation/internal/api"
	"stock_correlation/internal/feature/returns/domain"
	"stock_correlation/internal/feature/returns/domain/entity"
	"stock_correlation/internal/feature/returns/transport/http/dto"
)

// ReturnsUsecase はリターン・相関計算のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ReturnsUsecase interface {
	GetReturns(ctx context.Context, ticker, start, end string) (entity.ReturnSeries, error)
	GetCorrelation(ctx context.Context, ticker1, ticker2, start, end string) (float64, error)
	GetCorrelationMatrix(ctx context.Context, tickers []string, start, end string) (entity.CorrelationMatrix, error)
}

// ReturnsHandler はリターン・相関係数のHTTPリクエストを処理します。
type ReturnsHandler struct {
	uc ReturnsUsecase
}

// NewReturnsHandler は指定されたusecaseでReturnsHandlerの新しいインスタンスを生成します。
func NewReturnsHandler(uc ReturnsUsecase) *ReturnsHandler {
	return &ReturnsHandler{uc: uc}
}

// GetReturns は銘柄と期間を受け取り、日次リターンの時系列をJSONで返します。
//
// エンドポイント例:
// GET /returns/:ticker/:start_date/:end_date
func (h *ReturnsHandler) GetReturns(c *gin.Context) {
	s, err := h.uc.GetReturns(c.Request.Context(), c.Param("ticker"), c.Param("start_date"), c.Param("end_date"))
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]dto.ReturnRecord, 0, s.Len())
	for _, p := range s.Points {
		out = append(out, dto.ReturnRecord{Date: p.Date, Returns: p.Return})
	}
	c.JSON(http.StatusOK, out)
}

// GetCorrelation は2銘柄の日次リターンのピアソン相関係数を返します。
//
// エンドポイント例:
// GET /correlation/:ticker1/:ticker2/:start_date/:end_date
func (h *ReturnsHandler) GetCorrelation(c *gin.Context) {
	t1, t2 := c.Param("ticker1"), c.Param("ticker2")
	r, err := h.uc.GetCorrelation(c.Request.Context(), t1, t2, c.Param("start_date"), c.Param("end_date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CorrelationResponse{
		CorrelationCoefficient: api.Coefficient(r),
		Ticker1:                t1,
		Ticker2:                t2,
	})
}

// GetCorrelationMatrix はリクエストボディで指定された全銘柄の相関行列を返します。
//
// エンドポイント例:
// POST /correlation_matrix/ {"start_date":"2024-01-02","end_date":"2024-03-01","tickers":["AAPL","MSFT"]}
func (h *ReturnsHandler) GetCorrelationMatrix(c *gin.Context) {
	var req dto.CorrelationMatrixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("correlation matrix request validation failed", "error", err, "remote_addr", c.ClientIP())
		api.RespondError(c, http.StatusBadRequest, err)
		return
	}

	m, err := h.uc.GetCorrelationMatrix(c.Request.Context(), req.Tickers, req.StartDate, req.EndDate)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make(map[string]map[string]api.Coefficient, len(m.Values))
	for a, row := range m.Values {
		out[a] = make(map[string]api.Coefficient, len(row))
		for b, v := range row {
			out[a][b] = api.Coefficient(v)
		}
	}
	c.JSON(http.StatusOK, dto.CorrelationMatrixResponse{
		Tickers:           req.Tickers,
		CorrelationMatrix: out,
	})
}

// fail はエラーをログに出力し、{url, message} 形式のレスポンスを返します。
func (h *ReturnsHandler) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	slog.Warn("request failed", "url", c.Request.URL.String(), "status", status, "error", err, "remote_addr", c.ClientIP())
	api.RespondError(c, status, err)
}

// StatusFor はドメインエラーをHTTPステータスコードに変換します。
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidDateFormat),
		errors.Is(err, domain.ErrInvertedRange),
		errors.Is(err, domain.ErrLengthMismatch),
		errors.Is(err, domain.ErrNoTickers):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSymbolNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDataProvider),
		errors.Is(err, domain.ErrMalformedBar):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
