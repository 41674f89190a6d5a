// Package normalize turns raw spreadsheet rows into a typed shipment table.
package normalize

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/tradeflow/internal/model"
)

// Normalize converts raw rows into a Table. raw[0] is the source header and
// is discarded without being read: fields are named by column position only.
//
// Per cell, in order: missing tokens become absent; tariff and taxpayer codes
// are trimmed; measure fields are coerced to float64 and date to a day value,
// with unparseable cells becoming absent. Rows shorter than the schema leave
// trailing fields absent and columns past the schema are dropped. Normalize
// never fails.
func Normalize(raw [][]string) *model.Table {
	if len(raw) == 0 {
		return model.NewTable(nil, 0)
	}

	width := 0
	for _, row := range raw {
		if len(row) > width {
			width = len(row)
		}
	}

	body := raw[1:]
	records := make([]model.Record, 0, len(body))
	var dropped, unparsed int
	for _, row := range body {
		rec, bad := normalizeRow(row)
		unparsed += bad
		if len(row) > model.FieldCount {
			dropped++
		}
		records = append(records, rec)
	}

	zap.L().Debug("normalize: table ready",
		zap.Int("rows", len(records)),
		zap.Int("width", width),
		zap.Int("unparsed_cells", unparsed),
		zap.Int("rows_with_extra_columns", dropped),
	)

	return model.NewTable(records, width)
}

// normalizeRow returns the record and the number of non-missing cells that
// failed coercion.
func normalizeRow(row []string) (model.Record, int) {
	var cells [model.FieldCount]model.Cell
	bad := 0
	for i := 0; i < model.FieldCount && i < len(row); i++ {
		f := model.Field(i)
		raw := row[i]
		if IsMissing(raw) {
			continue
		}

		switch f.Kind() {
		case model.KindNumber:
			if v, ok := ParseNumber(raw); ok {
				cells[i] = model.NumberCell(v)
			} else {
				bad++
			}
		case model.KindDate:
			if t, ok := ParseDate(raw); ok {
				cells[i] = model.DateCell(t)
			} else {
				bad++
			}
		default:
			if isTrimmed(f) {
				raw = strings.TrimSpace(raw)
			}
			cells[i] = model.TextCell(raw)
		}
	}
	return model.NewRecord(cells), bad
}

func isTrimmed(f model.Field) bool {
	for _, t := range model.TrimmedFields {
		if t == f {
			return true
		}
	}
	return false
}
