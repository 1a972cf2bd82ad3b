// Package parser extracts trade lines from the text of one brokerage note.
//
// Two layouts are known. Futures notes (BM&F) print one line per contract
// starting with the side; cash notes print a trade table whose rows start
// with "1-BOVESPA" and carry either a spot (VISTA) or an options (OPCAO)
// sub-marker. Each layout has its own Grammar.
package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/notas/market"
)

const (
	futuresMarker = "BM&F"
	optionsMarker = "OPCAO"
	spotMarker    = "VISTA"
	// Odd-lot rows share the spot grammar.
	fractionalMarker = "FRACIONARIO"
)

// Resolver turns a free-text asset specification into a ticker.
type Resolver interface {
	Resolve(spec string) (string, error)
}

// Line is one parsed trade line. Quantity is unsigned; the sign is applied
// when output rows are assembled.
type Line struct {
	Market        market.Market
	Side          market.Side
	Ticker        string
	Specification string
	Quantity      int64
	Price         decimal.Decimal
	Value         decimal.Decimal
	DayTrade      bool
	// Credit is the C/D column: true when the line credits the account.
	Credit bool
}

// Result is everything a note's text yields to the parser. Fees and
// WithheldTax are only set for futures notes, where they are printed as
// whole-note figures.
type Result struct {
	Market      market.Market
	Lines       []Line
	Fees        *decimal.Decimal
	WithheldTax *decimal.Decimal
}

// Grammar parses the lines of one market segment.
type Grammar interface {
	Market() market.Market
	// Match reports whether line belongs to this grammar.
	Match(line string) bool
	ParseLine(line string) (Line, error)
}

var (
	tableLine      = regexp.MustCompile(`(?m)1-BOVESPA(.*)$`)
	tableLineFixed = regexp.MustCompile(`(?m)7-BOVESPA FIX(.*)$`)
)

// Normalize applies the layout rewrites needed before parsing.
func Normalize(text string) string {
	return strings.ReplaceAll(text, fractionalMarker, spotMarker)
}

// IsFutures reports whether text is a futures note.
func IsFutures(text string) bool {
	return strings.Contains(text, futuresMarker)
}

// tableLines returns the cash-market trade table rows of text.
func tableLines(text string) []string {
	matches := tableLine.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		matches = tableLineFixed.FindAllStringSubmatch(text, -1)
	}
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, m[1])
	}
	return lines
}

// Detect classifies a note by its markers: futures, else the sub-marker of
// the first trade table row.
func Detect(text string) (market.Market, error) {
	if IsFutures(text) {
		return market.Futures, nil
	}
	lines := tableLines(Normalize(text))
	if len(lines) == 0 {
		return 0, market.NewError(market.KindOperationTypeUnrecognized, "no trade table found")
	}
	return classify(lines[0])
}

func classify(line string) (market.Market, error) {
	upper := strings.ToUpper(line)
	switch {
	case strings.Contains(upper, optionsMarker):
		return market.Options, nil
	case strings.Contains(upper, spotMarker):
		return market.Cash, nil
	}
	return 0, market.NewError(market.KindOperationTypeUnrecognized, "%q", strings.TrimSpace(line))
}

// Parse extracts every trade line of text. Tickers of cash and options rows
// are resolved through r.
func Parse(text string, r Resolver) (*Result, error) {
	if IsFutures(text) {
		return parseFutures(text)
	}
	return parseTable(Normalize(text), r)
}

func parseTable(text string, r Resolver) (*Result, error) {
	lines := tableLines(text)
	if len(lines) == 0 {
		return nil, market.NewError(market.KindOperationTypeUnrecognized, "no trade table found")
	}

	grammars := []Grammar{NewOptions(r), NewSpot(r)}
	first, err := classify(lines[0])
	if err != nil {
		return nil, err
	}

	res := &Result{Market: first}
	for _, line := range lines {
		g := pick(grammars, line)
		if g == nil {
			return nil, market.NewError(market.KindOperationTypeUnrecognized, "%q", strings.TrimSpace(line))
		}
		l, err := g.ParseLine(line)
		if err != nil {
			return nil, err
		}
		res.Lines = append(res.Lines, l)
	}
	return res, nil
}

func pick(grammars []Grammar, line string) Grammar {
	for _, g := range grammars {
		if g.Match(line) {
			return g
		}
	}
	return nil
}

func mismatch(line, field string) error {
	return market.NewError(market.KindLineGrammarMismatch, "%s in %q", field, strings.TrimSpace(line))
}

func parseQuantity(s, line string) (int64, error) {
	q, err := market.ParseAmount(s)
	if err != nil || !q.IsInteger() || q.IsNegative() {
		return 0, mismatch(line, "quantity")
	}
	return q.IntPart(), nil
}
