package parser

import (
	"regexp"
	"strings"

	"github.com/rustyeddy/notas/market"
)

var (
	spotSide = regexp.MustCompile(`(?i)([VC]) VISTA`)
	spotSpec = regexp.MustCompile(`(?i)VISTA\s+`)
	spotDay  = regexp.MustCompile(`(?i)VISTA.* [2#8FTI]*D[2#8FTI]* .*` + amt)

	optionsSide   = regexp.MustCompile(`(?i)([VC]) OPCAO`)
	optionsSeries = regexp.MustCompile(`(?i)\d{2}/\d{2}.* (\w{5}[0-9]{1,3})\s`)
	optionsSpec   = regexp.MustCompile(`(?i)OPCAO\s.*?\d{2}/\d{2}\s+`)
	optionsDay    = regexp.MustCompile(`(?i)OPCAO.* [2#8FTI]*D[2#8FTI]* .*` + amt)

	// Quantity, price and value close every table row, followed by C/D.
	rowTail = regexp.MustCompile(`(` + amt + `) (` + amt + `) (` + amt + `) ([CD])`)

	// Tokens of the observation column printed between the specification
	// and the quantity.
	obsToken = regexp.MustCompile(`^[2#8FTID]+$`)
)

// Spot parses cash-market rows:
//
//	1-BOVESPA C VISTA PETROBRAS PN N2 100 28,50 2.850,00 D
//
// The asset is printed as a free-text specification resolved to a ticker.
type Spot struct {
	resolver Resolver
}

// NewSpot returns the spot grammar resolving specifications through r.
func NewSpot(r Resolver) *Spot { return &Spot{resolver: r} }

func (*Spot) Market() market.Market { return market.Cash }

func (*Spot) Match(line string) bool {
	return strings.Contains(strings.ToUpper(line), spotMarker)
}

func (g *Spot) ParseLine(line string) (Line, error) {
	side, err := tableSide(spotSide, line)
	if err != nil {
		return Line{}, err
	}

	l, tail, err := tableTail(line)
	if err != nil {
		return Line{}, err
	}
	spec := specBefore(spotSpec, line, tail)
	if spec == "" {
		return Line{}, mismatch(line, "specification")
	}
	tk, err := g.resolver.Resolve(spec)
	if err != nil {
		return Line{}, err
	}
	l.Market = market.Cash
	l.Side = side
	l.Ticker = tk
	l.Specification = spec
	l.DayTrade = spotDay.MatchString(line)
	return l, nil
}

// Options parses option rows:
//
//	1-BOVESPA V OPCAO DE COMPRA 03/24 PETRC400 PN 40,00 PETR 100 1,20 120,00 C
//
// The option series code printed after the expiry is the ticker. Rows
// without a series code fall back to resolving the specification.
type Options struct {
	resolver Resolver
}

// NewOptions returns the options grammar; r is used for rows without a
// printed series code.
func NewOptions(r Resolver) *Options { return &Options{resolver: r} }

func (*Options) Market() market.Market { return market.Options }

func (*Options) Match(line string) bool {
	return strings.Contains(strings.ToUpper(line), optionsMarker)
}

func (g *Options) ParseLine(line string) (Line, error) {
	side, err := tableSide(optionsSide, line)
	if err != nil {
		return Line{}, err
	}

	l, tail, err := tableTail(line)
	if err != nil {
		return Line{}, err
	}

	var tk, spec string
	if m := optionsSeries.FindStringSubmatch(line); m != nil {
		tk = strings.ToUpper(m[1])
		spec = tk
	} else {
		spec = specBefore(optionsSpec, line, tail)
		if spec == "" {
			return Line{}, mismatch(line, "option series")
		}
		if tk, err = g.resolver.Resolve(spec); err != nil {
			return Line{}, err
		}
	}
	l.Market = market.Options
	l.Side = side
	l.Ticker = tk
	l.Specification = spec
	l.DayTrade = optionsDay.MatchString(line)
	return l, nil
}

func tableSide(re *regexp.Regexp, line string) (market.Side, error) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return "", mismatch(line, "side")
	}
	side, err := market.ParseSide(strings.ToUpper(m[1]))
	if err != nil {
		return "", mismatch(line, "side")
	}
	return side, nil
}

// tableTail parses the quantity, price, value and C/D columns and returns
// the offset where they start.
func tableTail(line string) (Line, int, error) {
	idx := rowTail.FindStringSubmatchIndex(line)
	if idx == nil {
		return Line{}, 0, mismatch(line, "quantity, price and value")
	}
	field := func(i int) string { return line[idx[2*i]:idx[2*i+1]] }

	qty, err := parseQuantity(field(1), line)
	if err != nil {
		return Line{}, 0, err
	}
	price, err := market.ParseAmount(field(2))
	if err != nil {
		return Line{}, 0, mismatch(line, "price")
	}
	value, err := market.ParseAmount(field(3))
	if err != nil {
		return Line{}, 0, mismatch(line, "value")
	}
	return Line{
		Quantity: qty,
		Price:    price,
		Value:    value,
		Credit:   field(4) == "C",
	}, idx[0], nil
}

// specBefore returns the specification printed between the end of marker
// and the row tail, with column padding collapsed and observation tokens
// dropped.
func specBefore(marker *regexp.Regexp, line string, tail int) string {
	loc := marker.FindStringIndex(line)
	if loc == nil || loc[1] > tail {
		return ""
	}
	fields := strings.Fields(line[loc[1]:tail])
	for len(fields) > 0 && obsToken.MatchString(strings.ToUpper(fields[len(fields)-1])) {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}
