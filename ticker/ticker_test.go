package ticker

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/notas/market"
)

func TestSuffixPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec string
		want string
	}{
		{"PETR4 PN", "4"},
		{"ITSA4 PNA", "5"},
		{"USIM6 PNB", "6"},
		{"ABCD11 FII", "11"},
		{"FII XP LOG CI ER", "11"},
		{"VALE ON NM", "3"},
		{"SANB UNT N2", "11"},
		{"XPTO F11", "11"},
		{"ABCD DO", "1"},
		// ON is tested before PN.
		{"XPTO ON PN", "3"},
		// PNA is tested before PN even though PN appears first.
		{"PN XPTO PNA", "5"},
		{"petrobras pn", "4"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Suffix(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuffixMarkersOrder(t *testing.T) {
	t.Parallel()

	want := []string{"ON", "PNA", "PNB", "PN", "UNT", "CI", "FII", "F11", "DO"}
	assert.Equal(t, want, SuffixMarkers())
}

func TestSuffixNotFound(t *testing.T) {
	t.Parallel()

	_, err := Suffix("XPTO")
	require.Error(t, err)
	assert.True(t, errors.Is(err, market.ErrSuffixNotFound))

	// FII needs a trailing space or the end of the specification.
	_, err = Suffix("FIIXPTO")
	assert.True(t, errors.Is(err, market.ErrSuffixNotFound))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	table, err := NewTable([]Entry{
		{Pattern: "PETROBRAS", Code: "petr"},
		{Pattern: "ITAUSA", Code: "ITSA"},
		{Pattern: "ABCD", Code: "ABCD"},
	})
	require.NoError(t, err)

	got, err := table.Resolve("PETROBRAS PN N2")
	require.NoError(t, err)
	assert.Equal(t, "PETR4", got)

	got, err = table.Resolve("ITAUSA PNA")
	require.NoError(t, err)
	assert.Equal(t, "ITSA5", got)

	got, err = table.Resolve("ABCD11 FII")
	require.NoError(t, err)
	assert.Equal(t, "ABCD11", got)
}

func TestResolveFirstEntryWins(t *testing.T) {
	t.Parallel()

	table, err := NewTable([]Entry{
		{Pattern: "GERDAU MET", Code: "GOAU"},
		{Pattern: "GERDAU", Code: "GGBR"},
	})
	require.NoError(t, err)

	got, err := table.Resolve("GERDAU MET PN N1")
	require.NoError(t, err)
	assert.Equal(t, "GOAU4", got)

	got, err = table.Resolve("GERDAU PN N1")
	require.NoError(t, err)
	assert.Equal(t, "GGBR4", got)
}

func TestResolveTickerNotFound(t *testing.T) {
	t.Parallel()

	table, err := NewTable([]Entry{{Pattern: "PETROBRAS", Code: "PETR"}})
	require.NoError(t, err)

	_, err = table.Resolve("XPTO ON")
	require.Error(t, err)
	assert.True(t, errors.Is(err, market.ErrTickerNotFound))
}

func TestNewTableInvalid(t *testing.T) {
	t.Parallel()

	_, err := NewTable([]Entry{{Pattern: "", Code: "X"}})
	assert.Error(t, err)

	_, err = NewTable([]Entry{{Pattern: "(", Code: "X"}})
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	src := `
tickers:
  - pattern: WEG
    code: WEGE
  - pattern: AMBEV
    code: ABEV
`
	table, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "WEGE", table.Entries()[0].Code)

	got, err := table.Resolve("AMBEV S/A ON")
	require.NoError(t, err)
	assert.Equal(t, "ABEV3", got)
}

func TestLoadUnknownField(t *testing.T) {
	t.Parallel()

	_, err := Load(strings.NewReader("tickers:\n  - pattern: WEG\n    ticker: WEGE\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tickers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tickers:\n  - pattern: SUZANO\n    code: SUZB\n"), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	got, err := table.Resolve("SUZANO S.A. ON NM")
	require.NoError(t, err)
	assert.Equal(t, "SUZB3", got)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultTable(t *testing.T) {
	t.Parallel()

	table := Default()
	assert.Greater(t, table.Len(), 10)

	tests := []struct {
		spec string
		want string
	}{
		{"PETROBRAS PN N2", "PETR4"},
		{"VALE ON NM", "VALE3"},
		{"ITAUSA PN N1", "ITSA4"},
		{"BRASILAGRO ON NM", "AGRO3"},
		{"BRASIL ON NM", "BBAS3"},
		{"FII XP LOG CI ER", "XPLG11"},
	}
	for _, tt := range tests {
		got, err := table.Resolve(tt.spec)
		require.NoError(t, err, tt.spec)
		assert.Equal(t, tt.want, got, tt.spec)
	}
}
