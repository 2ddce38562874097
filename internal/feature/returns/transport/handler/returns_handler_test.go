package handler_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_correlation/internal/feature/returns/domain"
	"stock_correlation/internal/feature/returns/domain/entity"
	"stock_correlation/internal/feature/returns/transport/handler"
)

// mockReturnsUsecase はReturnsUsecaseインターフェースのモック実装です。
type mockReturnsUsecase struct {
	GetReturnsFunc           func(ctx context.Context, ticker, start, end string) (entity.ReturnSeries, error)
	GetCorrelationFunc       func(ctx context.Context, ticker1, ticker2, start, end string) (float64, error)
	GetCorrelationMatrixFunc func(ctx context.Context, tickers []string, start, end string) (entity.CorrelationMatrix, error)
}

func (m *mockReturnsUsecase) GetReturns(ctx context.Context, ticker, start, end string) (entity.ReturnSeries, error) {
	return m.GetReturnsFunc(ctx, ticker, start, end)
}

func (m *mockReturnsUsecase) GetCorrelation(ctx context.Context, ticker1, ticker2, start, end string) (float64, error) {
	return m.GetCorrelationFunc(ctx, ticker1, ticker2, start, end)
}

func (m *mockReturnsUsecase) GetCorrelationMatrix(ctx context.Context, tickers []string, start, end string) (entity.CorrelationMatrix, error) {
	return m.GetCorrelationMatrixFunc(ctx, tickers, start, end)
}

func setupRouter(uc handler.ReturnsUsecase) *gin.Engine {
	h := handler.NewReturnsHandler(uc)
	r := gin.New()
	r.GET("/returns/:ticker/:start_date/:end_date", h.GetReturns)
	r.GET("/correlation/:ticker1/:ticker2/:start_date/:end_date", h.GetCorrelation)
	r.POST("/correlation_matrix/", h.GetCorrelationMatrix)
	return r
}

// TestReturnsHandler_GetReturns はGetReturnsのHTTPリクエスト/レスポンス処理をテストします。
func TestReturnsHandler_GetReturns(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		mockGetReturns func(ctx context.Context, ticker, start, end string) (entity.ReturnSeries, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: returns array",
			url:  "/returns/AAPL/2024-01-02/2024-01-03",
			mockGetReturns: func(ctx context.Context, ticker, start, end string) (entity.ReturnSeries, error) {
				assert.Equal(t, "AAPL", ticker)
				assert.Equal(t, "2024-01-02", start)
				assert.Equal(t, "2024-01-03", end)
				return entity.ReturnSeries{Symbol: "AAPL", Points: []entity.ReturnPoint{
					{Date: "2024-01-02", Return: 2.0},
					{Date: "2024-01-03", Return: -1.0},
				}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"Date":"2024-01-02","Returns":2},{"Date":"2024-01-03","Returns":-1}]`,
		},
		{
			name: "success: empty range yields empty array",
			url:  "/returns/AAPL/2024-01-06/2024-01-07",
			mockGetReturns: func(ctx context.Context, ticker, start, end string) (entity.ReturnSeries, error) {
				return entity.ReturnSeries{Symbol: "AAPL"}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "error: invalid date",
			url:  "/returns/AAPL/2024-13-01/2024-01-03",
			mockGetReturns: func(ctx context.Context, ticker, start, end string) (entity.ReturnSeries, error) {
				return entity.ReturnSeries{}, fmt.Errorf("%w: start date %q", domain.ErrInvalidDateFormat, start)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"url":"/returns/AAPL/2024-13-01/2024-01-03","message":"invalid date format: start date \"2024-13-01\""}`,
		},
		{
			name: "error: unknown symbol",
			url:  "/returns/ZZZNOTREAL/2024-01-02/2024-01-03",
			mockGetReturns: func(ctx context.Context, ticker, start, end string) (entity.ReturnSeries, error) {
				return entity.ReturnSeries{}, fmt.Errorf("%w: %s", domain.ErrSymbolNotFound, ticker)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"url":"/returns/ZZZNOTREAL/2024-01-02/2024-01-03","message":"symbol not found: ZZZNOTREAL"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockReturnsUsecase{GetReturnsFunc: tt.mockGetReturns})

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestReturnsHandler_GetCorrelation は相関係数エンドポイントのレスポンス形式をテストします。
func TestReturnsHandler_GetCorrelation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		mockCorr       func(ctx context.Context, ticker1, ticker2, start, end string) (float64, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: coefficient with tickers",
			url:  "/correlation/AAPL/MSFT/2024-01-02/2024-03-01",
			mockCorr: func(ctx context.Context, ticker1, ticker2, start, end string) (float64, error) {
				assert.Equal(t, "AAPL", ticker1)
				assert.Equal(t, "MSFT", ticker2)
				return 0.5, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"correlation_coefficient":0.5,"ticker_1":"AAPL","ticker_2":"MSFT"}`,
		},
		{
			name: "success: undefined coefficient encodes as null",
			url:  "/correlation/AAPL/FLAT/2024-01-02/2024-03-01",
			mockCorr: func(ctx context.Context, ticker1, ticker2, start, end string) (float64, error) {
				return math.NaN(), nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"correlation_coefficient":null,"ticker_1":"AAPL","ticker_2":"FLAT"}`,
		},
		{
			name: "error: length mismatch",
			url:  "/correlation/AAPL/NEWCO/2024-01-02/2024-03-01",
			mockCorr: func(ctx context.Context, ticker1, ticker2, start, end string) (float64, error) {
				return math.NaN(), domain.ErrLengthMismatch
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"url":"/correlation/AAPL/NEWCO/2024-01-02/2024-03-01","message":"tickers must have the same amount of historical data"}`,
		},
		{
			name: "error: provider failure",
			url:  "/correlation/AAPL/MSFT/2024-01-02/2024-03-01",
			mockCorr: func(ctx context.Context, ticker1, ticker2, start, end string) (float64, error) {
				return 0, fmt.Errorf("%w: twelvedata http 500", domain.ErrDataProvider)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"url":"/correlation/AAPL/MSFT/2024-01-02/2024-03-01","message":"data provider error: twelvedata http 500"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockReturnsUsecase{GetCorrelationFunc: tt.mockCorr})

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestReturnsHandler_GetCorrelationMatrix はリクエストボディの検証と行列のレスポンス形式をテストします。
func TestReturnsHandler_GetCorrelationMatrix(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		mockMatrix     func(ctx context.Context, tickers []string, start, end string) (entity.CorrelationMatrix, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: symmetric matrix",
			body: `{"start_date":"2024-01-02","end_date":"2024-03-01","tickers":["AAPL","MSFT"]}`,
			mockMatrix: func(ctx context.Context, tickers []string, start, end string) (entity.CorrelationMatrix, error) {
				assert.Equal(t, []string{"AAPL", "MSFT"}, tickers)
				assert.Equal(t, "2024-01-02", start)
				assert.Equal(t, "2024-03-01", end)
				return entity.CorrelationMatrix{Tickers: tickers, Values: map[string]map[string]float64{
					"AAPL": {"AAPL": 1, "MSFT": 0.25},
					"MSFT": {"AAPL": 0.25, "MSFT": 1},
				}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"tickers":["AAPL","MSFT"],"correlation_matrix":{"AAPL":{"AAPL":1,"MSFT":0.25},"MSFT":{"AAPL":0.25,"MSFT":1}}}`,
		},
		{
			name: "success: NaN cells encode as null",
			body: `{"start_date":"2024-01-02","end_date":"2024-03-01","tickers":["AAPL","FLAT"]}`,
			mockMatrix: func(ctx context.Context, tickers []string, start, end string) (entity.CorrelationMatrix, error) {
				nan := math.NaN()
				return entity.CorrelationMatrix{Tickers: tickers, Values: map[string]map[string]float64{
					"AAPL": {"AAPL": 1, "FLAT": nan},
					"FLAT": {"AAPL": nan, "FLAT": nan},
				}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"tickers":["AAPL","FLAT"],"correlation_matrix":{"AAPL":{"AAPL":1,"FLAT":null},"FLAT":{"AAPL":null,"FLAT":null}}}`,
		},
		{
			name: "error: length mismatch",
			body: `{"start_date":"2024-01-02","end_date":"2024-03-01","tickers":["A","B"]}`,
			mockMatrix: func(ctx context.Context, tickers []string, start, end string) (entity.CorrelationMatrix, error) {
				return entity.CorrelationMatrix{}, fmt.Errorf("%w: B has 8 returns, A has 10", domain.ErrLengthMismatch)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"url":"/correlation_matrix/","message":"tickers must have the same amount of historical data: B has 8 returns, A has 10"}`,
		},
		{
			name: "error: unknown ticker",
			body: `{"start_date":"2024-01-02","end_date":"2024-03-01","tickers":["AAPL","ZZZNOTREAL"]}`,
			mockMatrix: func(ctx context.Context, tickers []string, start, end string) (entity.CorrelationMatrix, error) {
				return entity.CorrelationMatrix{}, fmt.Errorf("%w: ZZZNOTREAL", domain.ErrSymbolNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"url":"/correlation_matrix/","message":"symbol not found: ZZZNOTREAL"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockReturnsUsecase{GetCorrelationMatrixFunc: tt.mockMatrix})

			req := httptest.NewRequest(http.MethodPost, "/correlation_matrix/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestReturnsHandler_GetCorrelationMatrix_BadBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	bodies := map[string]string{
		"error: not json":         `tickers=AAPL`,
		"error: missing tickers":  `{"start_date":"2024-01-02","end_date":"2024-03-01"}`,
		"error: missing end date": `{"start_date":"2024-01-02","tickers":["AAPL"]}`,
		"error: tickers not list": `{"start_date":"2024-01-02","end_date":"2024-03-01","tickers":"AAPL"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			called := false
			router := setupRouter(&mockReturnsUsecase{
				GetCorrelationMatrixFunc: func(ctx context.Context, tickers []string, start, end string) (entity.CorrelationMatrix, error) {
					called = true
					return entity.CorrelationMatrix{}, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/correlation_matrix/", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, called, "usecase must not be called for an invalid body")
			assert.Contains(t, w.Body.String(), `"url":"/correlation_matrix/"`)
			assert.Contains(t, w.Body.String(), `"message":`)
		})
	}
}

// TestStatusFor はドメインエラーとHTTPステータスの対応をテストします。
func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err      error
		expected int
	}{
		{fmt.Errorf("%w: x", domain.ErrInvalidDateFormat), http.StatusBadRequest},
		{domain.ErrInvertedRange, http.StatusBadRequest},
		{domain.ErrLengthMismatch, http.StatusBadRequest},
		{domain.ErrNoTickers, http.StatusBadRequest},
		{fmt.Errorf("resolve: %w", domain.ErrSymbolNotFound), http.StatusNotFound},
		{domain.ErrDataProvider, http.StatusBadGateway},
		{fmt.Errorf("build returns for X: %w", domain.ErrMalformedBar), http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{context.Canceled, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, handler.StatusFor(tt.err))
		})
	}
}
