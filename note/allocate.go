package note

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/notas/market"
)

// ResolveFees derives the note's fees from its totals when they were not
// printed: whatever the account did not receive of the traded balance.
// Resolved fees are never recomputed.
func ResolveFees(n *CompiledNote) error {
	if n.Fees != nil {
		return nil
	}
	if n.NetSettlement == nil {
		return &market.Error{
			Kind:   market.KindRequiredAggregateFieldMissing,
			Detail: "net settlement needed to derive fees",
			Note:   n.Number,
		}
	}
	fees := n.Sales.Sub(n.Buys).Sub(*n.NetSettlement)
	n.Fees = &fees
	return nil
}

// Allocate spreads the note's fees over its trades in proportion to their
// volume and books the withheld tax on the first trade that qualifies for
// it. Tax no trade qualifies for is kept in UnallocatedTax.
func Allocate(n *CompiledNote) error {
	return allocate(n, slog.Default())
}

func allocate(n *CompiledNote, log *slog.Logger) error {
	if err := ResolveFees(n); err != nil {
		return err
	}

	for _, t := range n.Trades {
		if n.Volume.IsZero() {
			t.Fees = decimal.Zero
			continue
		}
		t.Fees = n.Fees.Mul(t.Volume()).Div(n.Volume)
	}

	if n.WithheldTax == nil || n.TaxTradeID != "" {
		return nil
	}
	for _, t := range n.Trades {
		if t.QualifiesForWithholding() {
			t.WithheldTax = *n.WithheldTax
			n.TaxTradeID = t.ID
			return nil
		}
	}
	if !n.WithheldTax.IsZero() {
		tax := *n.WithheldTax
		n.UnallocatedTax = &tax
		log.Warn("withheld tax not allocated: no qualifying sell",
			"note", n.Number, "tax", tax.String(), "trades", len(n.Trades))
	}
	return nil
}

// Allocate runs the allocation of every note in the batch, stopping at the
// first failure.
func (b *Batch) Allocate() error {
	for _, n := range b.Notes() {
		if err := allocate(n, b.log); err != nil {
			return market.WithContext(err, firstDocument(n), n.Number)
		}
	}
	return nil
}

func firstDocument(n *CompiledNote) string {
	if len(n.Documents) == 0 {
		return ""
	}
	return n.Documents[0]
}
