package journal

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/notas/note"
)

const dbDateLayout = "2006-01-02"

// SQLite keeps notes and their trades in a database file. Recording a note
// whose number is already stored replaces it and all of its trades.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordNote(n *note.CompiledNote) (err error) {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.Exec(`
		INSERT INTO notes
		(number, synthetic, broker, date, buys, sales, volume, fees, withheld_tax, net_settlement, unallocated_tax, documents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(number) DO UPDATE SET
			synthetic = excluded.synthetic,
			broker = excluded.broker,
			date = excluded.date,
			buys = excluded.buys,
			sales = excluded.sales,
			volume = excluded.volume,
			fees = excluded.fees,
			withheld_tax = excluded.withheld_tax,
			net_settlement = excluded.net_settlement,
			unallocated_tax = excluded.unallocated_tax,
			documents = excluded.documents`,
		n.Number, n.Synthetic, n.Broker.String(), n.Date.Format(dbDateLayout),
		n.Buys, n.Sales, n.Volume,
		nullable(n.Fees), nullable(n.WithheldTax), nullable(n.NetSettlement), nullable(n.UnallocatedTax),
		strings.Join(n.Documents, "\n"),
	)
	if err != nil {
		return fmt.Errorf("note %s: %w", n.Number, err)
	}

	if _, err = tx.Exec(`DELETE FROM trades WHERE note_number = ?`, n.Number); err != nil {
		return err
	}

	for i, t := range n.Trades {
		_, err = tx.Exec(`
			INSERT INTO trades
			(trade_id, note_number, seq, ticker, specification, date, side, quantity, price, value, fees, withheld_tax, broker, market, day_trade)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, n.Number, i, t.Ticker, t.Specification, t.Date.Format(dbDateLayout),
			t.Side.String(), t.Quantity, t.Price, t.Value, t.Fees, t.WithheldTax,
			t.Broker.String(), t.Market.Label(), t.DayTrade,
		)
		if err != nil {
			return fmt.Errorf("note %s trade %s: %w", n.Number, t.ID, err)
		}
	}
	return tx.Commit()
}

// RecordRun stores the summary of one import run.
func (j *SQLite) RecordRun(r Run) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, documents, notes, trades, fees, withheld_tax, unallocated_tax)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created.UTC().Format("2006-01-02T15:04:05Z"), len(r.Documents), r.Notes, r.Trades,
		r.Fees, r.WithheldTax, r.UnallocatedTax,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func nullable(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
