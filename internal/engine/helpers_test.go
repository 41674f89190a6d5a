package engine

import (
	"time"

	"github.com/sells-group/tradeflow/internal/model"
)

// shipment is a compact test fixture; zero numeric values are absent.
type shipment struct {
	code, office, port, mode, country string
	exporter, importer                string
	date                              string
	gross, net, qty, fob              float64
}

func (s shipment) record() model.Record {
	var c [model.FieldCount]model.Cell
	text := func(f model.Field, v string) {
		if v != "" {
			c[f] = model.TextCell(v)
		}
	}
	num := func(f model.Field, v float64) {
		if v != 0 {
			c[f] = model.NumberCell(v)
		}
	}
	text(model.TariffCode, s.code)
	text(model.CustomsOffice, s.office)
	text(model.DestinationPort, s.port)
	text(model.TransportMode, s.mode)
	text(model.DestinationCountry, s.country)
	text(model.Exporter, s.exporter)
	text(model.Importer, s.importer)
	if s.date != "" {
		d, err := time.Parse(model.DateLayout, s.date)
		if err != nil {
			panic(err)
		}
		c[model.Date] = model.DateCell(d)
	}
	num(model.GrossWeight, s.gross)
	num(model.NetWeight, s.net)
	num(model.Qty1, s.qty)
	num(model.FOBTotal, s.fob)
	return model.NewRecord(c)
}

func table(rows ...shipment) *model.Table {
	recs := make([]model.Record, len(rows))
	for i, r := range rows {
		recs[i] = r.record()
	}
	return model.NewTable(recs, model.FieldCount)
}

func day(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// everything is a filter with no restrictions over a wide date range.
func everything() Filter {
	return Filter{Start: day("2000-01-01"), End: day("2100-12-31")}
}
