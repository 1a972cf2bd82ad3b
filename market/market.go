// Package market holds the domain vocabulary shared by the note parser,
// the allocation engine and the journal: sides, market segments, brokers,
// trades and the locale-formatted amounts printed on brokerage notes.
package market

import "fmt"

// Side is the direction of a trade as printed on the note: C (compra) or
// V (venda).
type Side string

const (
	Buy  Side = "C"
	Sell Side = "V"
)

// ParseSide accepts only the two indicators the notes print.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", fmt.Errorf("invalid side %q", s)
}

func (s Side) String() string { return string(s) }

// Sign is +1 for buys and -1 for sells.
func (s Side) Sign() int64 {
	if s == Sell {
		return -1
	}
	return 1
}

// Market is the trading segment a trade line belongs to. Each segment has
// its own line grammar.
type Market int

const (
	Futures Market = iota + 1
	Cash
	Options
)

// Label returns the name used in the output journal.
func (m Market) Label() string {
	switch m {
	case Futures:
		return "BM&F"
	case Cash:
		return "A Vista"
	case Options:
		return "Opções"
	}
	return "unknown"
}

func (m Market) String() string { return m.Label() }

// ParseMarket is the inverse of Label.
func ParseMarket(label string) (Market, error) {
	for _, m := range []Market{Futures, Cash, Options} {
		if m.Label() == label {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown market %q", label)
}

// Broker identifies the institution that issued a note.
type Broker string

const (
	Rico  Broker = "RICO"
	Clear Broker = "CLEAR"
)

func (b Broker) String() string { return string(b) }
