package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/notas/market"
)

const amt = market.AmountPattern

var (
	futuresSideLine = regexp.MustCompile(`\n([CV] .*)`)
	futuresLine     = regexp.MustCompile(`(?i)^([CV]) (.+) @?([0-9]{2}/[0-9]{2}/[0-9]{4}) (\d+) (` + amt + `) (.+) (` + amt + `) ([CD]) (` + amt + `)`)

	futuresFees     = regexp.MustCompile(`(` + amt + `) \| D \n\nOutros`)
	futuresWithheld = regexp.MustCompile(`\|  (` + amt + `)  ` + amt + `  ` + amt + `  ` + amt + ` \| [DC]`)
)

const futuresDayTrade = "DAY TRADE"

// Futures parses BM&F contract lines:
//
//	C WDO F24 02/01/2024 1 4.950,0000 DAY TRADE 49,50 D 0,00
//
// side, contract, expiry, quantity, price, settlement type, value, C/D and
// the operational fee column.
type Futures struct{}

func (Futures) Market() market.Market { return market.Futures }

func (Futures) Match(line string) bool {
	return len(line) > 2 && (line[0] == 'C' || line[0] == 'V') && line[1] == ' '
}

func (Futures) ParseLine(line string) (Line, error) {
	m := futuresLine.FindStringSubmatch(line)
	if m == nil {
		return Line{}, mismatch(line, "futures line")
	}
	side, err := market.ParseSide(strings.ToUpper(m[1]))
	if err != nil {
		return Line{}, mismatch(line, "side")
	}
	qty, err := parseQuantity(m[4], line)
	if err != nil {
		return Line{}, err
	}
	price, err := market.ParseAmount(m[5])
	if err != nil {
		return Line{}, mismatch(line, "price")
	}
	value, err := market.ParseAmount(m[7])
	if err != nil {
		return Line{}, mismatch(line, "value")
	}

	return Line{
		Market:        market.Futures,
		Side:          side,
		Ticker:        strings.TrimSpace(m[2]),
		Specification: strings.TrimSpace(m[2]),
		Quantity:      qty,
		Price:         price,
		Value:         value,
		DayTrade:      strings.EqualFold(strings.TrimSpace(m[6]), futuresDayTrade),
		Credit:        strings.EqualFold(m[8], "C"),
	}, nil
}

func parseFutures(text string) (*Result, error) {
	fees, err := requiredAmount(futuresFees, text, "futures fees")
	if err != nil {
		return nil, err
	}
	withheld, err := requiredAmount(futuresWithheld, text, "projected withholding")
	if err != nil {
		return nil, err
	}

	res := &Result{Market: market.Futures, Fees: &fees, WithheldTax: &withheld}
	var g Futures
	for _, m := range futuresSideLine.FindAllStringSubmatch(text, -1) {
		l, err := g.ParseLine(m[1])
		if err != nil {
			return nil, err
		}
		res.Lines = append(res.Lines, l)
	}
	return res, nil
}

func requiredAmount(re *regexp.Regexp, text, field string) (decimal.Decimal, error) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero, market.NewError(market.KindRequiredAggregateFieldMissing, "%s", field)
	}
	d, err := market.ParseAmount(m[1])
	if err != nil {
		return decimal.Zero, &market.Error{Kind: market.KindRequiredAggregateFieldMissing, Detail: field, Cause: err}
	}
	return d, nil
}
