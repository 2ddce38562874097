// Package domain defines domain-level errors for the returns feature.
package domain

import "errors"

// Domain errors for return and correlation computations.
// Upper layers attach detail with fmt.Errorf("%w: ...") and check them with errors.Is.
var (
	// ErrInvalidDateFormat indicates that a date is not in YYYY-MM-DD form.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrInvertedRange indicates that the end date is earlier than the start date.
	ErrInvertedRange = errors.New("end date is before start date")

	// ErrSymbolNotFound indicates that the market-data provider cannot resolve the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrDataProvider indicates that the market-data provider failed or returned an unusable response.
	ErrDataProvider = errors.New("data provider error")

	// ErrMalformedBar indicates that a price bar lacks its open or close price.
	ErrMalformedBar = errors.New("malformed price bar")

	// ErrLengthMismatch indicates that return series do not cover the same number of trading days.
	ErrLengthMismatch = errors.New("tickers must have the same amount of historical data")

	// ErrNoTickers indicates that a correlation matrix was requested for an empty ticker list.
	ErrNoTickers = errors.New("at least one ticker is required")
)
