// Package adapters はsymbollistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stock_correlation/internal/feature/symbollist/domain/entity"
	"stock_correlation/internal/feature/symbollist/usecase"
)

// Catalog は起動時に銘柄ファイルから読み込まれる読み取り専用の銘柄一覧です。
// 読み込み後は変更されないため、複数のリクエストから同時に参照できます。
type Catalog struct {
	symbols []entity.Symbol
}

var _ usecase.SymbolRepository = (*Catalog)(nil)

// NewCatalog は与えられた銘柄で Catalog を生成します。
func NewCatalog(symbols []entity.Symbol) *Catalog {
	cp := make([]entity.Symbol, len(symbols))
	copy(cp, symbols)
	return &Catalog{symbols: cp}
}

// LoadCatalog はパイプ区切りの銘柄ファイルを順に読み込み、1つの Catalog にまとめます。
// 各ファイルの先頭行（ヘッダー）と最終行（ファイル作成日時）は除外し、1列目を銘柄コード、2列目を銘柄名として扱います。
func LoadCatalog(paths ...string) (*Catalog, error) {
	var symbols []entity.Symbol
	for _, p := range paths {
		s, err := loadSymbolFile(p)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, s...)
	}
	return NewCatalog(symbols), nil
}

// ListActiveCodes は読み込み順に銘柄コードのみを返します。
func (c *Catalog) ListActiveCodes(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(c.symbols))
	for _, s := range c.symbols {
		codes = append(codes, s.Code)
	}
	return codes, nil
}

// Len は銘柄数を返します。
func (c *Catalog) Len() int { return len(c.symbols) }

// loadSymbolFile は1つの銘柄ファイルを読み込みます。
func loadSymbolFile(path string) ([]entity.Symbol, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open symbol file: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read symbol file %s: %w", path, err)
	}
	// ヘッダー行とファイル作成日時の行を除外
	if len(lines) < 2 {
		return nil, nil
	}
	lines = lines[1 : len(lines)-1]

	exchange := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	symbols := make([]entity.Symbol, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, "|")
		s := entity.Symbol{Code: cols[0], Exchange: exchange}
		if len(cols) > 1 {
			s.Name = cols[1]
		}
		symbols = append(symbols, s)
	}
	return symbols, nil
}
