package engine

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tradeflow/internal/model"
)

// MonthLayout is the year-month key used as pivot column.
const MonthLayout = "2006-01"

// Pivot is a destination-port × month grid of FOB sums. Cells[i][j] belongs
// to Ports[i] and Months[j]; combinations without rows hold 0.
type Pivot struct {
	Ports  []string    `json:"ports" yaml:"ports"`
	Months []string    `json:"months" yaml:"months"`
	Cells  [][]float64 `json:"cells" yaml:"cells"`
}

// Value returns the cell for port and month, or 0 if either is not in the grid.
func (p *Pivot) Value(port, month string) float64 {
	i := sort.SearchStrings(p.Ports, port)
	j := sort.SearchStrings(p.Months, month)
	if i >= len(p.Ports) || p.Ports[i] != port || j >= len(p.Months) || p.Months[j] != month {
		return 0
	}
	return p.Cells[i][j]
}

// MonthlyPivot builds the heat-map grid: rows are destination ports and
// columns months, both ascending. Rows without a port or date are skipped.
// A grid with no ports or no months is reported as ErrInsufficientData.
func MonthlyPivot(t *model.Table) (*Pivot, error) {
	if err := requireFields(t, model.DestinationPort, model.FOBTotal, model.Date); err != nil {
		return nil, err
	}
	if t.Empty() {
		return nil, eris.Wrap(ErrNoData, "engine: monthly pivot")
	}

	type key struct{ port, month string }
	sums := make(map[key]float64)
	ports := make(map[string]struct{})
	months := make(map[string]struct{})
	t.Each(func(r model.Record) {
		port, ok := r.Text(model.DestinationPort)
		if !ok {
			return
		}
		d, ok := r.Date()
		if !ok {
			return
		}
		m := d.Format(MonthLayout)
		v, _ := r.Number(model.FOBTotal)
		sums[key{port, m}] += v
		ports[port] = struct{}{}
		months[m] = struct{}{}
	})
	if len(ports) == 0 || len(months) == 0 {
		return nil, eris.Wrap(ErrInsufficientData, "engine: monthly pivot")
	}

	p := &Pivot{Ports: sortedKeys(ports), Months: sortedKeys(months)}
	p.Cells = make([][]float64, len(p.Ports))
	for i, port := range p.Ports {
		p.Cells[i] = make([]float64, len(p.Months))
		for j, m := range p.Months {
			p.Cells[i][j] = sums[key{port, m}]
		}
	}
	return p, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
