// Package entity defines the domain models for the symbollist feature.
package entity

// Symbol represents a US-listed ticker symbol loaded from an exchange symbol directory file.
type Symbol struct {
	Code     string // Ticker symbol (e.g., "AAPL")
	Name     string // Security name
	Exchange string // Source listing (e.g., "nasdaq_listed")
}
