package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('notes','trades','runs')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["notes"])
	assert.True(t, found["trades"])
	assert.True(t, found["runs"])
}

func TestSQLiteRecordNote(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, Write(j, fixtureNotes()))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var notes, trades int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&notes))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM trades`).Scan(&trades))
	assert.Equal(t, 2, notes)
	assert.Equal(t, 4, trades)

	var (
		price, fees, date string
		quantity          int64
	)
	require.NoError(t, db.QueryRow(
		`SELECT price, fees, date, quantity FROM trades WHERE trade_id = 'T1'`,
	).Scan(&price, &fees, &date, &quantity))
	assert.Equal(t, "28.5", price)
	assert.Equal(t, "1.5", fees)
	assert.Equal(t, "2024-03-15", date)
	assert.Equal(t, int64(100), quantity)
}

func TestSQLiteUpsertReplacesTrades(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	notes := fixtureNotes()
	require.NoError(t, j.RecordNote(notes[0]))

	again := fixtureNotes()[0]
	again.Trades = again.Trades[:1]
	again.Trades[0].Fees = dec("2")
	again.Fees = decPtr("2")
	require.NoError(t, j.RecordNote(again))

	trades, err := j.ListTradesByNote("200")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.True(t, dec("2").Equal(trades[0].Fees))

	_, err = j.GetTrade("T2")
	assert.Error(t, err)
}

func TestSQLiteRecordRun(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	run := NewRun("R1", time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC), []string{"a.pdf", "b.pdf"}, fixtureNotes())
	require.NoError(t, j.RecordRun(run))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		docs, trades int
		fees         string
	)
	require.NoError(t, db.QueryRow(
		`SELECT documents, trades, fees FROM runs WHERE run_id = 'R1'`,
	).Scan(&docs, &trades, &fees))
	assert.Equal(t, 2, docs)
	assert.Equal(t, 4, trades)
	assert.Equal(t, "3.35", fees)
}
