package adapters_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_correlation/internal/feature/symbollist/adapters"
	"stock_correlation/internal/feature/symbollist/domain/entity"
)

const nasdaqListed = `Symbol|Security Name|Market Category|Test Issue|Financial Status|Round Lot Size|ETF|NextShares
AAPL|Apple Inc. - Common Stock|Q|N|N|100|N|N
MSFT|Microsoft Corporation - Common Stock|Q|N|N|100|N|N

GOOGL|Alphabet Inc. - Class A Common Stock|Q|N|N|100|N|N
File Creation Time: 1019202608:30|||||||
`

const otherListed = "ACT Symbol|Security Name|Exchange|CQS Symbol|ETF|Round Lot Size|Test Issue|NASDAQ Symbol\r\n" +
	"IBM|International Business Machines Corporation Common Stock|N|IBM|N|100|N|IBM\r\n" +
	"File Creation Time: 1019202608:30|||||||\r\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

// TestLoadCatalog はヘッダー行とフッター行を除外して銘柄を読み込むことを検証します。
func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	nasdaq := writeFile(t, dir, "nasdaq_listed.psv", nasdaqListed)
	other := writeFile(t, dir, "other_listed.psv", otherListed)

	c, err := adapters.LoadCatalog(nasdaq, other)
	require.NoError(t, err)

	codes, err := c.ListActiveCodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOGL", "IBM"}, codes)
	assert.Equal(t, 4, c.Len())
}

func TestLoadCatalog_Edges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		content       string
		expectedCodes []string
	}{
		{"success: header and footer only", "Symbol|Security Name\nFile Creation Time: x\n", []string{}},
		{"success: header only", "Symbol|Security Name\n", []string{}},
		{"success: empty file", "", []string{}},
		{"success: single column rows", "Symbol\nSPY\nQQQ\nFile Creation Time: x\n", []string{"SPY", "QQQ"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := writeFile(t, t.TempDir(), "list.psv", tt.content)
			c, err := adapters.LoadCatalog(p)
			require.NoError(t, err)

			codes, err := c.ListActiveCodes(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCodes, codes)
		})
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := adapters.LoadCatalog(filepath.Join(t.TempDir(), "missing.psv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// TestCatalog_ReturnsCopies は呼び出し側が結果を変更してもカタログに影響しないことを検証します。
func TestCatalog_ReturnsCopies(t *testing.T) {
	t.Parallel()

	in := []entity.Symbol{{Code: "AAPL"}, {Code: "MSFT"}}
	c := adapters.NewCatalog(in)
	in[0].Code = "CHANGED"

	got, err := c.ListActiveCodes(context.Background())
	require.NoError(t, err)
	got[1] = "MUTATED"

	again, err := c.ListActiveCodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, again)
}

func TestCatalog_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := adapters.NewCatalog([]entity.Symbol{{Code: "AAPL"}})

	_, err := c.ListActiveCodes(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
