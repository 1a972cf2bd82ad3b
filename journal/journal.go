// Package journal writes compiled notes to their destinations: flat
// operation rows (CSV, XLSX), a queryable SQLite store and Org reports.
package journal

import (
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/notas/market"
	"github.com/rustyeddy/notas/note"
)

// Journal receives every compiled note of a run. Writers that need the
// whole run, such as the sorted row outputs, produce their file on Close.
type Journal interface {
	RecordNote(*note.CompiledNote) error
	Close() error
}

// Write records notes into j and closes it.
func Write(j Journal, notes []*note.CompiledNote) error {
	for _, n := range notes {
		if err := j.RecordNote(n); err != nil {
			_ = j.Close()
			return err
		}
	}
	return j.Close()
}

// Header is the column set of the operation rows.
var Header = []string{
	"ativo",
	"data",
	"tipoOp",
	"quantidade",
	"preco",
	"taxas",
	"corretora",
	"irpf",
	"nr_nota",
	"valor",
	"mercado",
	"daytrade",
	"nr_nota_sintetica",
}

const rowDateLayout = "02/01/2006"

// feePlaces bounds the digits of proportional fee shares.
const feePlaces = 6

// Row is one output operation: a trade with its note's identity and a
// quantity signed by side.
type Row struct {
	TradeID     string
	Ticker      string
	Date        time.Time
	Side        market.Side
	Quantity    int64
	Price       decimal.Decimal
	Fees        decimal.Decimal
	Broker      market.Broker
	WithheldTax decimal.Decimal
	Note        string
	Value       decimal.Decimal
	Market      market.Market
	DayTrade    bool
	Synthetic   bool
}

// Assemble flattens notes into rows, day trades first and then by date.
// Rows that tie keep their note and trade order.
func Assemble(notes []*note.CompiledNote) []Row {
	var rows []Row
	for _, n := range notes {
		for _, t := range n.Trades {
			rows = append(rows, Row{
				TradeID:     t.ID,
				Ticker:      t.Ticker,
				Date:        n.Date,
				Side:        t.Side,
				Quantity:    t.SignedQuantity(),
				Price:       t.Price,
				Fees:        t.Fees,
				Broker:      n.Broker,
				WithheldTax: t.WithheldTax,
				Note:        n.Number,
				Value:       t.Value,
				Market:      t.Market,
				DayTrade:    t.DayTrade,
				Synthetic:   n.Synthetic,
			})
		}
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		if a.DayTrade != b.DayTrade {
			if a.DayTrade {
				return -1
			}
			return 1
		}
		return a.Date.Compare(b.Date)
	})
	return rows
}

// Record renders r in Header order.
func (r Row) Record() []string {
	return []string{
		r.Ticker,
		r.Date.Format(rowDateLayout),
		r.Side.String(),
		strconv.FormatInt(r.Quantity, 10),
		market.FormatAmount(r.Price),
		market.FormatAmount(r.Fees.Round(feePlaces)),
		r.Broker.String(),
		market.FormatAmount(r.WithheldTax),
		r.Note,
		market.FormatAmount(r.Value),
		r.Market.Label(),
		boolCell(r.DayTrade),
		boolCell(r.Synthetic),
	}
}

// boolCell spells booleans as the operation sheets have always had them.
func boolCell(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
