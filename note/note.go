// Package note turns page text into compiled brokerage notes: it segments
// documents into fragments, identifies and merges the fragments of each
// note, appends the parsed trades and allocates fees and withheld tax.
package note

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/notas/market"
)

// CompiledNote is one settlement note with all of its trades. Fragments
// carrying the same number accumulate into the same CompiledNote.
type CompiledNote struct {
	Number string
	// Synthetic is true when the note had no printed number and Number was
	// generated.
	Synthetic bool
	Broker    market.Broker
	Date      time.Time

	Buys   decimal.Decimal
	Sales  decimal.Decimal
	Volume decimal.Decimal

	WithheldTax   *decimal.Decimal
	Fees          *decimal.Decimal
	NetSettlement *decimal.Decimal

	// UnallocatedTax holds the withheld tax no trade qualified for.
	UnallocatedTax *decimal.Decimal
	// TaxTradeID is the trade the withheld tax was booked against.
	TaxTradeID string

	Trades    []*market.Trade
	Documents []string
}

func (n *CompiledNote) addTrade(t *market.Trade) {
	v := t.Volume()
	n.Volume = n.Volume.Add(v)
	switch t.Side {
	case market.Buy:
		n.Buys = n.Buys.Add(v)
	case market.Sell:
		n.Sales = n.Sales.Add(v)
	}
	n.Trades = append(n.Trades, t)
}

func (n *CompiledNote) addDocument(doc string) {
	for _, d := range n.Documents {
		if d == doc {
			return
		}
	}
	n.Documents = append(n.Documents, doc)
}

// Trade returns the trade with the given id.
func (n *CompiledNote) Trade(id string) (*market.Trade, bool) {
	for _, t := range n.Trades {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// AllocatedFees sums the fees booked on the trades.
func (n *CompiledNote) AllocatedFees() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range n.Trades {
		sum = sum.Add(t.Fees)
	}
	return sum
}

// DayTrades counts the day-trade lines of the note.
func (n *CompiledNote) DayTrades() int {
	c := 0
	for _, t := range n.Trades {
		if t.DayTrade {
			c++
		}
	}
	return c
}
