package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "operacoes.xlsx")
	require.NoError(t, Write(NewXLSX(path), fixtureNotes()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, Header, rows[0])

	assert.Equal(t, "WDO F24", rows[1][0])
	assert.Equal(t, "02/01/2024", rows[1][1])
	assert.Equal(t, "-1", rows[1][3])
	assert.Equal(t, "100", rows[1][8])
	assert.Equal(t, "PETR4", rows[4][0])
	assert.Equal(t, "A Vista", rows[4][10])
}
