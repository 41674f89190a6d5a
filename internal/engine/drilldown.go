package engine

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/tradeflow/internal/model"
)

// Partition is the drill-down of a filtered table to one tariff code.
type Partition struct {
	Code         string        `json:"code" yaml:"code"`
	Rows         *model.Table  `json:"-" yaml:"-"`
	Summary      Summary       `json:"summary" yaml:"summary"`
	Series       []Point       `json:"series,omitempty" yaml:"series,omitempty"`
	Destinations []GroupTotal  `json:"destinations,omitempty" yaml:"destinations,omitempty"`
	TopExporters []EntityTotal `json:"top_exporters,omitempty" yaml:"top_exporters,omitempty"`
	TopImporters []EntityTotal `json:"top_importers,omitempty" yaml:"top_importers,omitempty"`
	Notices      []Notice      `json:"notices,omitempty" yaml:"notices,omitempty"`
	Records      *Listing      `json:"records" yaml:"records"`
}

// Listing is the rendered form of a table: schema names as columns and
// one row of export strings per record. Absent values are "".
type Listing struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// ListRecords renders every row of t in order.
func ListRecords(t *model.Table) *Listing {
	l := &Listing{
		Columns: append([]string(nil), model.Schema[:]...),
		Rows:    make([][]string, 0, t.Len()),
	}
	t.Each(func(r model.Record) {
		l.Rows = append(l.Rows, r.Strings())
	})
	return l
}

// SelectCode returns the rows of t whose tariff code equals code exactly.
func SelectCode(t *model.Table, code string) (*model.Table, error) {
	if err := requireFields(t, model.TariffCode); err != nil {
		return nil, err
	}
	return t.Subset(func(r model.Record) bool {
		v, ok := r.Text(model.TariffCode)
		return ok && v == code
	}), nil
}

// DrillDown scopes filtered to one tariff code and computes its summary,
// FOB time series, gross weight per destination country, the top n
// exporters and importers by FOB, and the listing of its records. ErrNoData means the code has no rows
// under the current filters.
func DrillDown(filtered *model.Table, code string, n int) (*Partition, error) {
	rows, err := SelectCode(filtered, code)
	if err != nil {
		return nil, err
	}
	if rows.Empty() {
		return nil, eris.Wrapf(ErrNoData, "engine: no records for code %s", code)
	}
	if n <= 0 {
		n = DefaultTopN
	}

	p := &Partition{Code: code, Rows: rows, Summary: Summarize(rows), Records: ListRecords(rows)}

	if p.Series, err = TimeSeries(rows); err != nil {
		p.Notices = append(p.Notices, noticeFor(ViewSeries, err))
	}
	if p.Destinations, err = DestinationWeights(rows); err != nil {
		p.Notices = append(p.Notices, noticeFor(ViewDestinations, err))
	}
	if p.TopExporters, err = topByFOB(rows, model.Exporter, n); err != nil {
		p.Notices = append(p.Notices, noticeFor(ViewExporters, err))
	}
	if p.TopImporters, err = topByFOB(rows, model.Importer, n); err != nil {
		p.Notices = append(p.Notices, noticeFor(ViewImporters, err))
	}
	return p, nil
}

func topByFOB(t *model.Table, entity model.Field, n int) ([]EntityTotal, error) {
	if err := requireFields(t, entity, model.FOBTotal); err != nil {
		return nil, err
	}
	totals, err := GroupEntities(t, entity)
	if err != nil {
		return nil, err
	}
	return TopBy(totals, ByFOB, n), nil
}
