package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/notas/market"
	"github.com/rustyeddy/notas/note"
)

const currency = "BRL"

// FormatBRL renders d as reais, e.g. R$1.234,56, rounding to centavos.
func FormatBRL(d decimal.Decimal) string {
	cur := money.GetCurrency(currency)
	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	return money.New(d.Mul(factor).Round(0).IntPart(), currency).Display()
}

func brlPtr(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return FormatBRL(*d)
}

// FormatNoteOrg renders a compiled note as an Org-mode block: the note's
// figures in a PROPERTIES drawer and its trades as a table.
func FormatNoteOrg(n *note.CompiledNote) string {
	heading := fmt.Sprintf("** Nota %s %s (%s)", n.Number, n.Broker, n.Date.Format(rowDateLayout))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":NOTE: %s\n", n.Number))
	if n.Synthetic {
		b.WriteString(":SYNTHETIC: t\n")
	}
	b.WriteString(fmt.Sprintf(":BROKER: %s\n", n.Broker))
	b.WriteString(fmt.Sprintf(":DATE: %s\n", n.Date.Format(dbDateLayout)))
	b.WriteString(fmt.Sprintf(":BUYS: %s\n", FormatBRL(n.Buys)))
	b.WriteString(fmt.Sprintf(":SALES: %s\n", FormatBRL(n.Sales)))
	b.WriteString(fmt.Sprintf(":VOLUME: %s\n", FormatBRL(n.Volume)))
	b.WriteString(fmt.Sprintf(":FEES: %s\n", brlPtr(n.Fees)))
	b.WriteString(fmt.Sprintf(":IRRF: %s\n", brlPtr(n.WithheldTax)))
	b.WriteString(fmt.Sprintf(":NET: %s\n", brlPtr(n.NetSettlement)))
	if n.UnallocatedTax != nil {
		b.WriteString(fmt.Sprintf(":IRRF_UNALLOCATED: %s\n", FormatBRL(*n.UnallocatedTax)))
	}
	b.WriteString(fmt.Sprintf(":DOCUMENTS: %s\n", strings.Join(n.Documents, " ")))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("| Ativo | C/V | Qtd | Preço | Valor | Taxas | IRRF | DT |\n")
	b.WriteString("|-------+-----+-----+-------+-------+-------+------+----|\n")
	for _, t := range n.Trades {
		b.WriteString("| " + tradeCells(t) + " |\n")
	}

	return b.String()
}

func tradeCells(t *market.Trade) string {
	return fmt.Sprintf("%s | %s | %d | %s | %s | %s | %s | %s",
		t.Ticker,
		t.Side,
		t.SignedQuantity(),
		market.FormatAmount(t.Price),
		FormatBRL(t.Value),
		FormatBRL(t.Fees),
		FormatBRL(t.WithheldTax),
		dayTradeMark(t.DayTrade),
	)
}

// FormatTradesOrg renders stored trades as one Org table.
func FormatTradesOrg(recs []TradeRecord) string {
	if len(recs) == 0 {
		return "No trades found."
	}

	var b strings.Builder
	b.WriteString("| ID | Nota | Data | Ativo | C/V | Qtd | Preço | Valor | Taxas | IRRF | DT |\n")
	b.WriteString("|----+------+------+-------+-----+-----+-------+-------+-------+------+----|\n")
	for _, r := range recs {
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			r.ID, r.Note, r.Date.Format(rowDateLayout), tradeCells(&r.Trade)))
	}
	return b.String()
}

func nullBRL(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return FormatBRL(d.Decimal)
}

// FormatNoteRecordOrg renders a stored note and its trades.
func FormatNoteRecordOrg(n NoteRecord, trades []TradeRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("** Nota %s %s (%s)\n", n.Number, n.Broker, n.Date.Format(rowDateLayout)))
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":NOTE: %s\n", n.Number))
	if n.Synthetic {
		b.WriteString(":SYNTHETIC: t\n")
	}
	b.WriteString(fmt.Sprintf(":BROKER: %s\n", n.Broker))
	b.WriteString(fmt.Sprintf(":DATE: %s\n", n.Date.Format(dbDateLayout)))
	b.WriteString(fmt.Sprintf(":VOLUME: %s\n", FormatBRL(n.Volume)))
	b.WriteString(fmt.Sprintf(":FEES: %s\n", nullBRL(n.Fees)))
	b.WriteString(fmt.Sprintf(":IRRF: %s\n", nullBRL(n.WithheldTax)))
	b.WriteString(fmt.Sprintf(":NET: %s\n", nullBRL(n.NetSettlement)))
	if n.UnallocatedTax.Valid {
		b.WriteString(fmt.Sprintf(":IRRF_UNALLOCATED: %s\n", FormatBRL(n.UnallocatedTax.Decimal)))
	}
	b.WriteString(fmt.Sprintf(":DOCUMENTS: %s\n", strings.Join(n.Documents, " ")))
	b.WriteString(":END:\n\n")
	b.WriteString(FormatTradesOrg(trades))
	return b.String()
}

// FormatNotesOrg renders multiple notes separated by blank lines.
func FormatNotesOrg(notes []*note.CompiledNote) string {
	var b strings.Builder
	for i, n := range notes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatNoteOrg(n))
	}
	return b.String()
}

func dayTradeMark(dt bool) string {
	if dt {
		return "x"
	}
	return ""
}

// Org writes the notes of a run as one Org-mode file.
type Org struct {
	path  string
	notes []*note.CompiledNote
}

func NewOrg(path string) *Org {
	return &Org{path: path}
}

func (j *Org) RecordNote(n *note.CompiledNote) error {
	j.notes = append(j.notes, n)
	return nil
}

func (j *Org) Close() error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(j.path, []byte(FormatNotesOrg(j.notes)), 0o644)
}
