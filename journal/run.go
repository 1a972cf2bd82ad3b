package journal

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/notas/note"
)

// Run summarizes one import: the documents read and what they yielded.
type Run struct {
	RunID     string
	Created   time.Time
	Documents []string

	Notes     int
	Trades    int
	DayTrades int

	Fees           decimal.Decimal
	WithheldTax    decimal.Decimal
	UnallocatedTax decimal.Decimal

	// Numbers handed to notes printed without one.
	Synthetic []string
	// Notes whose withheld tax no trade qualified for.
	Unallocated []string
}

// NewRun totals the allocated notes of a run.
func NewRun(id string, created time.Time, documents []string, notes []*note.CompiledNote) Run {
	r := Run{
		RunID:     id,
		Created:   created,
		Documents: documents,
		Notes:     len(notes),
	}
	for _, n := range notes {
		r.Trades += len(n.Trades)
		r.DayTrades += n.DayTrades()
		r.Fees = r.Fees.Add(n.AllocatedFees())
		for _, t := range n.Trades {
			r.WithheldTax = r.WithheldTax.Add(t.WithheldTax)
		}
		if n.Synthetic {
			r.Synthetic = append(r.Synthetic, n.Number)
		}
		if n.UnallocatedTax != nil {
			r.UnallocatedTax = r.UnallocatedTax.Add(*n.UnallocatedTax)
			r.Unallocated = append(r.Unallocated, n.Number)
		}
	}
	return r
}

var runOrgFuncs = template.FuncMap{
	"base":   filepath.Base,
	"brl":    FormatBRL,
	"orTime": orNow,
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

var runOrg = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

// FormatOrg renders the run as an Org-mode entry.
func (r Run) FormatOrg() (string, error) {
	buf := new(bytes.Buffer)
	if err := runOrg.Execute(buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// AppendOrg appends the run entry to the Org file at path.
func (r Run) AppendOrg(path string) error {
	s, err := r.FormatOrg()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(s); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

const RunOrgTemplate = `
* IMPORT: {{len .Documents}} document(s), {{.Notes}} note(s)
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:NOTES:       {{.Notes}}
:TRADES:      {{.Trades}}
:DAY_TRADES:  {{.DayTrades}}
:FEES:        {{brl .Fees}}
:IRRF:        {{brl .WithheldTax}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Documents
{{- range .Documents }}
- {{base .}}
{{- end }}

{{- if .Synthetic }}

** Notes without a printed number
{{- range .Synthetic }}
- [ ] {{.}}
{{- end }}
{{- end }}

{{- if .Unallocated }}

** Withheld tax without a qualifying sell: {{brl .UnallocatedTax}}
{{- range .Unallocated }}
- [ ] {{.}}
{{- end }}
{{- end }}
`
