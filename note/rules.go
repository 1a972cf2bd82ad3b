package note

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/notas/market"
)

// rule is one named extraction pattern. Rules are grouped in ordered sets
// and the first rule that matches wins.
type rule struct {
	name string
	re   *regexp.Regexp
}

type rules []rule

// find returns the name and submatches of the first matching rule.
func (rs rules) find(text string) (string, []string, bool) {
	for _, r := range rs {
		if m := r.re.FindStringSubmatch(text); m != nil {
			return r.name, m, true
		}
	}
	return "", nil, false
}

const (
	amt  = market.AmountPattern
	date = `([0-9]{2}/[0-9]{2}/[0-9]{4})`

	dateLayout = "02/01/2006"
)

var numberRules = rules{
	{"folha-header", regexp.MustCompile(`Nr\. nota\n\nFolha\n\nData pregão\n\n(\d+)\n\n`)},
	{"nota-header", regexp.MustCompile(`Nr\. nota\n\n([\d.]+)\n\n`)},
}

var dateRules = rules{
	{"rico-header", regexp.MustCompile(date + `\n\nRico`)},
	{"clear-header", regexp.MustCompile(date + `\n\nCLEAR`)},
	{"data-pregao", regexp.MustCompile(`Data pregão\n` + date + `\n\n`)},
}

var withheldRules = rules{
	{"irrf-summary", regexp.MustCompile(`\n(` + amt + `)I\.R\.R\.F\.`)},
	{"irrf-operacional", regexp.MustCompile(`IRRF operacional .*\n\n(` + amt + `) `)},
}

var netRules = rules{
	{"liquido-para", regexp.MustCompile(`[DC]\n(` + amt + `).*Líquido para .+([DC])`)},
	{"custos-bmf", regexp.MustCompile(` (` + amt + `) \| ([DC]) \n\n\+Custos BM&F`)},
}

type brokerMarker struct {
	marker string
	broker market.Broker
}

var brokerMarkers = []brokerMarker{
	{"Rico Investimentos", market.Rico},
	{"CLEAR", market.Clear},
}

// findNumber returns the printed note number, if any.
func findNumber(text string) (string, bool) {
	_, m, ok := numberRules.find(text)
	if !ok {
		return "", false
	}
	return m[1], true
}

func findBroker(text string) (market.Broker, error) {
	for _, b := range brokerMarkers {
		if strings.Contains(text, b.marker) {
			return b.broker, nil
		}
	}
	return "", market.NewError(market.KindBrokerNotIdentified, "")
}

func findDate(text string) (time.Time, error) {
	_, m, ok := dateRules.find(text)
	if !ok {
		return time.Time{}, market.NewError(market.KindDateNotFound, "")
	}
	d, err := time.Parse(dateLayout, m[1])
	if err != nil {
		return time.Time{}, &market.Error{Kind: market.KindDateNotFound, Detail: m[1], Cause: err}
	}
	return d, nil
}

// findWithheldTax returns the IRRF figure of the note, if printed.
func findWithheldTax(text string) (*decimal.Decimal, error) {
	_, m, ok := withheldRules.find(text)
	if !ok {
		return nil, nil
	}
	d, err := market.ParseAmount(m[1])
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// findNetSettlement returns the net amount the note settles, negative when
// it is a debit to the account.
func findNetSettlement(text string) (*decimal.Decimal, error) {
	_, m, ok := netRules.find(text)
	if !ok {
		return nil, nil
	}
	d, err := market.ParseAmount(m[1])
	if err != nil {
		return nil, err
	}
	if m[2] == "D" {
		d = d.Neg()
	}
	return &d, nil
}
