package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/notas/market"
)

func seededSQLite(t *testing.T) *SQLite {
	t.Helper()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })
	for _, n := range fixtureNotes() {
		require.NoError(t, j.RecordNote(n))
	}
	return j
}

func TestGetTrade(t *testing.T) {
	t.Parallel()

	j := seededSQLite(t)

	rec, err := j.GetTrade("T3")
	require.NoError(t, err)

	assert.Equal(t, "T3", rec.ID)
	assert.Equal(t, "100", rec.Note)
	assert.Equal(t, "WDO F24", rec.Ticker)
	assert.Equal(t, market.Sell, rec.Side)
	assert.Equal(t, int64(1), rec.Quantity)
	assert.True(t, dec("4960").Equal(rec.Price))
	assert.True(t, dec("49.60").Equal(rec.Value))
	assert.True(t, dec("0.25").Equal(rec.Fees))
	assert.True(t, dec("0.50").Equal(rec.WithheldTax))
	assert.Equal(t, market.Clear, rec.Broker)
	assert.Equal(t, market.Futures, rec.Market)
	assert.True(t, rec.DayTrade)
	assert.True(t, rec.Date.Equal(day(2024, 1, 2)))
}

func TestGetTradeNotFound(t *testing.T) {
	t.Parallel()

	j := seededSQLite(t)

	_, err := j.GetTrade("nonexistent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListTradesBetween(t *testing.T) {
	t.Parallel()

	j := seededSQLite(t)

	tests := []struct {
		name       string
		start, end time.Time
		want       []string
	}{
		{"january", day(2024, 1, 1), day(2024, 2, 1), []string{"T3", "T4"}},
		{"march", day(2024, 3, 1), day(2024, 4, 1), []string{"T2", "T1"}},
		{"all", day(2024, 1, 1), day(2025, 1, 1), []string{"T3", "T2", "T4", "T1"}},
		{"end is exclusive", day(2024, 1, 1), day(2024, 1, 2), nil},
		{"empty", day(2023, 1, 1), day(2023, 12, 31), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := j.ListTradesBetween(tt.start, tt.end)
			require.NoError(t, err)

			var ids []string
			for _, r := range recs {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestListTradesByNote(t *testing.T) {
	t.Parallel()

	j := seededSQLite(t)

	recs, err := j.ListTradesByNote("200")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "T1", recs[0].ID)
	assert.Equal(t, "T2", recs[1].ID)
	assert.Equal(t, "PETROBRAS PN N2", recs[0].Specification)

	recs, err = j.ListTradesByNote("999")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestGetNote(t *testing.T) {
	t.Parallel()

	j := seededSQLite(t)

	n, err := j.GetNote("200")
	require.NoError(t, err)
	assert.Equal(t, market.Rico, n.Broker)
	assert.False(t, n.Synthetic)
	assert.True(t, n.Date.Equal(day(2024, 3, 15)))
	assert.True(t, dec("3550").Equal(n.Volume))
	require.True(t, n.Fees.Valid)
	assert.True(t, dec("2").Equal(n.Fees.Decimal))
	assert.False(t, n.WithheldTax.Valid)
	require.True(t, n.NetSettlement.Valid)
	assert.True(t, n.NetSettlement.Decimal.IsNegative())
	assert.Equal(t, []string{"inbox/a.pdf"}, n.Documents)

	n, err = j.GetNote("100")
	require.NoError(t, err)
	assert.True(t, n.Synthetic)

	_, err = j.GetNote("404")
	assert.Error(t, err)
}

func TestFormatStoredRecords(t *testing.T) {
	t.Parallel()

	j := seededSQLite(t)

	trades, err := j.ListTradesByNote("100")
	require.NoError(t, err)
	out := FormatTradesOrg(trades)
	assert.Contains(t, out, "| ID | Nota | Data |")
	assert.Contains(t, out, "| T3 | 100 | 02/01/2024 | WDO F24 | V | -1 |")
	assert.Contains(t, out, "| R$49,60 | R$0,25 | R$0,50 | x |")

	n, err := j.GetNote("100")
	require.NoError(t, err)
	out = FormatNoteRecordOrg(n, trades)
	assert.Contains(t, out, "** Nota 100 CLEAR (02/01/2024)")
	assert.Contains(t, out, ":SYNTHETIC: t")
	assert.Contains(t, out, "| T4 | 100 |")

	assert.Equal(t, "No trades found.", FormatTradesOrg(nil))
}
