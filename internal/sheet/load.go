// Package sheet reads shipment spreadsheets (XLSX, CSV) and writes XLSX exports.
package sheet

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow/internal/model"
	"github.com/sells-group/tradeflow/internal/normalize"
)

// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .csv,
// nor a .zip holding exactly one of them.
var ErrUnsupportedFormat = eris.New("unsupported spreadsheet format")

// Options selects how a source file is read.
type Options struct {
	XLSX XLSXOptions
	CSV  CSVOptions
}

// Load reads the file at path and normalizes it.
func Load(ctx context.Context, path string, opts Options) (*model.Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sheet: read %s", path)
	}
	return LoadBytes(ctx, filepath.Base(path), b, opts)
}

// LoadBytes normalizes an in-memory file; name is only used for its extension.
func LoadBytes(ctx context.Context, name string, b []byte, opts Options) (*model.Table, error) {
	var (
		rows [][]string
		err  error
	)
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".zip" {
		inner, data, err := unzipSingle(b)
		if err != nil {
			return nil, eris.Wrapf(err, "sheet: unpack %s", name)
		}
		name, b = inner, data
		ext = strings.ToLower(filepath.Ext(name))
	}

	switch ext {
	case ".xlsx":
		rows, err = ReadXLSXBytes(b, opts.XLSX)
	case ".csv":
		rows, err = ReadCSV(ctx, bytes.NewReader(b), opts.CSV)
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "sheet: %q", ext)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sheet: parse %s", name)
	}

	tbl := normalize.Normalize(rows)
	zap.L().Info("sheet: loaded",
		zap.String("file", name),
		zap.Int("rows", tbl.Len()),
		zap.Int("columns", tbl.Width()),
	)
	return tbl, nil
}
