package journal

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/notas/note"
)

// SheetName is the worksheet holding the operation rows.
const SheetName = "operacoes"

// XLSX writes the operation rows of a run to a workbook. Numeric columns
// are stored as numbers so the sheet can be summed directly.
type XLSX struct {
	path  string
	notes []*note.CompiledNote
}

func NewXLSX(path string) *XLSX {
	return &XLSX{path: path}
}

func (j *XLSX) RecordNote(n *note.CompiledNote) error {
	j.notes = append(j.notes, n)
	return nil
}

func (j *XLSX) Close() error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}
	for col, h := range Header {
		if err := setCell(f, col, 1, h); err != nil {
			return err
		}
	}
	for i, r := range Assemble(j.notes) {
		row := i + 2
		cells := []any{
			r.Ticker,
			r.Date.Format(rowDateLayout),
			r.Side.String(),
			r.Quantity,
			r.Price.InexactFloat64(),
			r.Fees.Round(feePlaces).InexactFloat64(),
			r.Broker.String(),
			r.WithheldTax.InexactFloat64(),
			r.Note,
			r.Value.InexactFloat64(),
			r.Market.Label(),
			r.DayTrade,
			r.Synthetic,
		}
		for col, v := range cells {
			if err := setCell(f, col, row, v); err != nil {
				return err
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return err
	}
	return f.SaveAs(j.path)
}

// setCell writes v at the zero-based column and one-based row.
func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(SheetName, cell, v)
}
