package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rustyeddy/notas/note"
)

// CSV writes the operation rows of a run to one file. Rows are sorted
// across notes, so the file is written on Close.
type CSV struct {
	path  string
	notes []*note.CompiledNote
}

// NewCSV returns a CSV journal writing to path. Missing parent folders are
// created on Close.
func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

func (j *CSV) RecordNote(n *note.CompiledNote) error {
	j.notes = append(j.notes, n)
	return nil
}

func (j *CSV) Close() error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(j.path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		_ = f.Close()
		return err
	}
	for _, r := range Assemble(j.notes) {
		if err := w.Write(r.Record()); err != nil {
			_ = f.Close()
			return fmt.Errorf("write row %s: %w", r.TradeID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
