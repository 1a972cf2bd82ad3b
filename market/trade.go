package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one executed line of a brokerage note.
//
// Quantity is kept unsigned; the side carries the direction and
// SignedQuantity applies it when rows are assembled. Fees and WithheldTax
// are zero until the owning note is allocated.
type Trade struct {
	ID            string
	Ticker        string
	Specification string
	Date          time.Time
	Side          Side
	Quantity      int64
	Price         decimal.Decimal
	Value         decimal.Decimal
	Fees          decimal.Decimal
	WithheldTax   decimal.Decimal
	Broker        Broker
	Market        Market
	DayTrade      bool
}

// SignedQuantity is positive for buys and negative for sells.
func (t *Trade) SignedQuantity() int64 {
	return t.Side.Sign() * t.Quantity
}

// Volume is the absolute traded value used as the allocation weight.
func (t *Trade) Volume() decimal.Decimal {
	return t.Value.Abs()
}

// QualifiesForWithholding reports whether the note's withheld tax may be
// booked against this trade. Futures sells always qualify. On the cash and
// options segments only swing-trade sells do: the day-trade figure printed
// there is a projection the broker does not deduct.
func (t *Trade) QualifiesForWithholding() bool {
	if t.Side != Sell {
		return false
	}
	switch t.Market {
	case Futures:
		return true
	case Cash, Options:
		return !t.DayTrade
	}
	return false
}
