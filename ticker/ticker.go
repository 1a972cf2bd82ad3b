// Package ticker resolves the free-text asset specification printed on a
// brokerage note ("PETROBRAS PN N2") into a B3 ticker ("PETR4").
//
// Resolution has two steps. The specification table maps a pattern to the
// base code; the table is ordered and the first matching entry wins. The
// share-class markers then pick the numeric suffix, again first match wins.
package ticker

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/notas/market"
)

//go:embed tickers.yaml
var defaultTable []byte

// Entry maps a specification pattern to a base ticker code. Patterns are
// regular expressions matched case-insensitively anywhere in the
// specification.
type Entry struct {
	Pattern string `yaml:"pattern"`
	Code    string `yaml:"code"`

	re *regexp.Regexp
}

// Table is an ordered, read-only specification table.
type Table struct {
	entries []Entry
}

type tableFile struct {
	Tickers []Entry `yaml:"tickers"`
}

// NewTable compiles the entries, keeping their order.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{entries: make([]Entry, 0, len(entries))}
	for i, e := range entries {
		if e.Pattern == "" || e.Code == "" {
			return nil, fmt.Errorf("ticker entry %d: pattern and code are required", i)
		}
		re, err := regexp.Compile("(?i)" + e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("ticker entry %d: %w", i, err)
		}
		e.re = re
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// Load reads a YAML table of the form
//
//	tickers:
//	  - pattern: PETROBRAS
//	    code: PETR
func Load(r io.Reader) (*Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode ticker table: %w", err)
	}
	return NewTable(f.Tickers)
}

// LoadFile loads a table from path.
func LoadFile(path string) (*Table, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ticker table: %w", err)
	}
	defer fh.Close()
	return Load(fh)
}

// Default returns the table embedded in the binary.
func Default() *Table {
	t, err := Load(strings.NewReader(string(defaultTable)))
	if err != nil {
		panic(err)
	}
	return t
}

// Entries returns a copy of the table rows in order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len is the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Base returns the base code of the first entry matching spec.
func (t *Table) Base(spec string) (string, error) {
	for _, e := range t.entries {
		if e.re.MatchString(spec) {
			return e.Code, nil
		}
	}
	return "", market.NewError(market.KindTickerNotFound, "specification %q", spec)
}

// Resolve returns the full upper-case ticker for spec.
func (t *Table) Resolve(spec string) (string, error) {
	base, err := t.Base(spec)
	if err != nil {
		return "", err
	}
	suffix, err := Suffix(spec)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(base + suffix), nil
}
