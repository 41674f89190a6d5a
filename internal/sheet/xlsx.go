package sheet

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/tradeflow/internal/model"
)

// XLSXOptions configures the XLSX reader.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// DefaultSheetName is the sheet written by WriteXLSX when none is given.
const DefaultSheetName = "Datos"

// ReadXLSX reads an XLSX file and returns all rows, header included, as raw text.
func ReadXLSX(path string, opts XLSXOptions) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	return readSheet(f, opts)
}

// ReadXLSXBytes is ReadXLSX for an in-memory workbook, e.g. an upload.
func ReadXLSXBytes(b []byte, opts XLSXOptions) ([][]string, error) {
	f, err := xlsx.OpenBinary(b)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open binary")
	}
	return readSheet(f, opts)
}

func readSheet(f *xlsx.File, opts XLSXOptions) ([][]string, error) {
	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex < 0 || opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell == nil {
			continue
		}
		cells[j] = cell.String()
	}
	return cells
}

// WriteXLSX writes t as a single-sheet workbook: one header row with the
// schema names followed by one row per record, no index column. Absent
// values are left as empty cells.
func WriteXLSX(w io.Writer, t *model.Table, sheetName string) error {
	f, err := buildWorkbook(t, sheetName)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Write(w), "xlsx: write")
}

// SaveXLSX writes t to path. See WriteXLSX.
func SaveXLSX(path string, t *model.Table, sheetName string) error {
	out, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "xlsx: create file")
	}
	if err := WriteXLSX(out, t, sheetName); err != nil {
		_ = out.Close()
		return err
	}
	return eris.Wrap(out.Close(), "xlsx: close file")
}

func buildWorkbook(t *model.Table, sheetName string) (*xlsx.File, error) {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: add sheet %q", sheetName)
	}

	hdr := sheet.AddRow()
	for _, name := range model.Schema {
		hdr.AddCell().SetString(name)
	}

	t.Each(func(r model.Record) {
		row := sheet.AddRow()
		for i := 0; i < model.FieldCount; i++ {
			fld := model.Field(i)
			cell := row.AddCell()
			c := r.Cell(fld)
			if !c.Valid {
				continue
			}
			switch fld.Kind() {
			case model.KindNumber:
				cell.SetFloat(c.Num)
			default:
				cell.SetString(r.String(fld))
			}
		}
	})
	return f, nil
}
