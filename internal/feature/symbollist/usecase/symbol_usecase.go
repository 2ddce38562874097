// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
)

// SymbolRepository abstracts the read-only symbol catalog.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActiveCodes(ctx context.Context) ([]string, error)
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListSymbolCodes returns every supported ticker symbol in catalog order.
func (u *SymbolUsecase) ListSymbolCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}
