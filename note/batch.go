package note

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/rustyeddy/notas/market"
	"github.com/rustyeddy/notas/parser"
	"github.com/rustyeddy/notas/pkg/id"
)

// maxFallbackNumber bounds the numbers handed to notes printed without one.
const maxFallbackNumber = 99

// Batch compiles the fragments of one run into notes keyed by number.
// Fragments must be added in document order; fallback numbering depends on
// it. A Batch is not safe for concurrent use.
type Batch struct {
	resolver parser.Resolver
	newID    func() string
	log      *slog.Logger

	notes map[string]*CompiledNote
	order []string
}

// Option configures a Batch.
type Option func(*Batch)

// WithLogger sets the logger used for warnings and progress.
func WithLogger(l *slog.Logger) Option {
	return func(b *Batch) {
		if l != nil {
			b.log = l
		}
	}
}

// WithIDs replaces the trade ID generator.
func WithIDs(fn func() string) Option {
	return func(b *Batch) {
		if fn != nil {
			b.newID = fn
		}
	}
}

// NewBatch returns an empty batch resolving cash and options tickers
// through r.
func NewBatch(r parser.Resolver, opts ...Option) *Batch {
	b := &Batch{
		resolver: r,
		newID:    id.New,
		log:      slog.Default(),
		notes:    make(map[string]*CompiledNote),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Notes returns the compiled notes in the order they were first seen.
func (b *Batch) Notes() []*CompiledNote {
	out := make([]*CompiledNote, 0, len(b.order))
	for _, n := range b.order {
		out = append(out, b.notes[n])
	}
	return out
}

// Note returns the compiled note with the given number.
func (b *Batch) Note(number string) (*CompiledNote, bool) {
	n, ok := b.notes[number]
	return n, ok
}

// Len is the number of compiled notes.
func (b *Batch) Len() int { return len(b.order) }

// AddDocument segments the pages of one document and adds every fragment.
func (b *Batch) AddDocument(document string, pages []string) error {
	frags := Segment(document, pages)
	for _, f := range frags {
		if err := b.Add(f); err != nil {
			return err
		}
	}
	b.log.Debug("document compiled", "document", document, "fragments", len(frags))
	return nil
}

// Add identifies the note f belongs to, creating or merging it, and appends
// the trades parsed from f to that note.
func (b *Batch) Add(f Fragment) error {
	number, synthetic, err := b.identify(f.Text)
	if err != nil {
		return market.WithContext(err, f.Document, "")
	}

	n, exists := b.notes[number]
	if exists {
		if err := merge(n, f.Text); err != nil {
			return market.WithContext(err, f.Document, number)
		}
	} else {
		n, err = compile(number, f.Text)
		if err != nil {
			return market.WithContext(err, f.Document, number)
		}
		n.Synthetic = synthetic
	}

	res, err := parser.Parse(f.Text, b.resolver)
	if err != nil {
		return market.WithContext(err, f.Document, number)
	}
	if res.Fees != nil && n.Fees == nil {
		n.Fees = res.Fees
		n.WithheldTax = res.WithheldTax
	}
	for _, l := range res.Lines {
		n.addTrade(b.trade(n, l))
	}
	n.addDocument(f.Document)

	if !exists {
		b.notes[number] = n
		b.order = append(b.order, number)
		if synthetic {
			b.log.Warn("note number not found, using fallback",
				"document", f.Document, "note", number)
		}
	}
	b.log.Debug("fragment added",
		"document", f.Document, "note", number, "market", res.Market.String(), "trades", len(res.Lines))
	return nil
}

// identify returns the printed note number or the first unused fallback.
func (b *Batch) identify(text string) (string, bool, error) {
	if number, ok := findNumber(text); ok {
		return number, false, nil
	}
	for i := 1; i <= maxFallbackNumber; i++ {
		number := strconv.Itoa(i)
		if _, used := b.notes[number]; !used {
			return number, true, nil
		}
	}
	return "", false, market.NewError(market.KindNoteNumberExhausted,
		"all of 1..%d are in use", maxFallbackNumber)
}

func (b *Batch) trade(n *CompiledNote, l parser.Line) *market.Trade {
	return &market.Trade{
		ID:            b.newID(),
		Ticker:        l.Ticker,
		Specification: l.Specification,
		Date:          n.Date,
		Side:          l.Side,
		Quantity:      l.Quantity,
		Price:         l.Price,
		Value:         l.Value,
		Broker:        n.Broker,
		Market:        l.Market,
		DayTrade:      l.DayTrade,
	}
}

// compile builds a new note from the first fragment carrying its number.
func compile(number, text string) (*CompiledNote, error) {
	broker, err := findBroker(text)
	if err != nil {
		return nil, err
	}
	date, err := findDate(text)
	if err != nil {
		return nil, err
	}
	n := &CompiledNote{Number: number, Broker: broker, Date: date}
	if err := merge(n, text); err != nil {
		return nil, err
	}
	return n, nil
}

// merge fills the aggregates of n still missing from text.
func merge(n *CompiledNote, text string) error {
	if n.WithheldTax == nil {
		tax, err := findWithheldTax(text)
		if err != nil {
			return fmt.Errorf("withheld tax: %w", err)
		}
		n.WithheldTax = tax
	}
	if n.NetSettlement == nil {
		net, err := findNetSettlement(text)
		if err != nil {
			return fmt.Errorf("net settlement: %w", err)
		}
		n.NetSettlement = net
	}
	return nil
}
