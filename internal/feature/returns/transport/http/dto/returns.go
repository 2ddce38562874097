// Package dto はreturnsフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "stock_correlation/internal/api"

// ReturnRecord は1取引日の日次リターンです。
type ReturnRecord struct {
	Date    string  `json:"Date"`    // 日付 (YYYY-MM-DD)
	Returns float64 `json:"Returns"` // 終値 - 始値
}

// CorrelationResponse は2銘柄の相関係数レスポンスです。
type CorrelationResponse struct {
	CorrelationCoefficient api.Coefficient `json:"correlation_coefficient"`
	Ticker1                string          `json:"ticker_1"`
	Ticker2                string          `json:"ticker_2"`
}

// CorrelationMatrixRequest は POST /correlation_matrix/ のリクエストボディです。
type CorrelationMatrixRequest struct {
	StartDate string   `json:"start_date" binding:"required"`
	EndDate   string   `json:"end_date" binding:"required"`
	Tickers   []string `json:"tickers" binding:"required"`
}

// CorrelationMatrixResponse は相関行列レスポンスです。correlation_matrix[a][b] が a と b の係数です。
type CorrelationMatrixResponse struct {
	Tickers           []string                              `json:"tickers"`
	CorrelationMatrix map[string]map[string]api.Coefficient `json:"correlation_matrix"`
}
