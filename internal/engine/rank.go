package engine

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tradeflow/internal/model"
)

// DefaultTopN is the length of every ranking.
const DefaultTopN = 10

// EntityTotal aggregates the measures of one exporter or importer.
type EntityTotal struct {
	Entity      string  `json:"entity" yaml:"entity"`
	NetWeight   float64 `json:"net_weight" yaml:"net_weight"`
	GrossWeight float64 `json:"gross_weight" yaml:"gross_weight"`
	FOB         float64 `json:"fob" yaml:"fob"`
}

// Ranking is two orderings of the same per-entity aggregate.
type Ranking struct {
	Entity      string        `json:"entity" yaml:"entity"`
	ByNetWeight []EntityTotal `json:"by_net_weight" yaml:"by_net_weight"`
	ByFOB       []EntityTotal `json:"by_fob" yaml:"by_fob"`
}

// GroupEntities sums the measures per present value of entity. Measures whose
// column is missing stay 0. Output order is by entity name.
func GroupEntities(t *model.Table, entity model.Field) ([]EntityTotal, error) {
	if err := requireFields(t, entity); err != nil {
		return nil, err
	}
	idx := make(map[string]int)
	var out []EntityTotal
	t.Each(func(r model.Record) {
		name, ok := r.Text(entity)
		if !ok {
			return
		}
		i, seen := idx[name]
		if !seen {
			i = len(out)
			idx[name] = i
			out = append(out, EntityTotal{Entity: name})
		}
		e := &out[i]
		if v, ok := r.Number(model.NetWeight); ok {
			e.NetWeight += v
		}
		if v, ok := r.Number(model.GrossWeight); ok {
			e.GrossWeight += v
		}
		if v, ok := r.Number(model.FOBTotal); ok {
			e.FOB += v
		}
	})
	if len(out) == 0 {
		return nil, eris.Wrapf(ErrNoData, "engine: group %s", entity.Name())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Entity < out[j].Entity })
	return out, nil
}

// TopBy returns the n largest totals by measure, ties broken by entity name.
// The input is not reordered.
func TopBy(totals []EntityTotal, measure func(EntityTotal) float64, n int) []EntityTotal {
	out := make([]EntityTotal, len(totals))
	copy(out, totals)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := measure(out[i]), measure(out[j])
		if a != b {
			return a > b
		}
		return out[i].Entity < out[j].Entity
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ByNetWeight is a TopBy measure.
func ByNetWeight(e EntityTotal) float64 { return e.NetWeight }

// ByFOB is a TopBy measure.
func ByFOB(e EntityTotal) float64 { return e.FOB }

// RankEntities groups t by entity once and returns the top n by net weight
// and the top n by FOB.
func RankEntities(t *model.Table, entity model.Field, n int) (*Ranking, error) {
	if err := requireFields(t, entity, model.NetWeight, model.FOBTotal); err != nil {
		return nil, err
	}
	totals, err := GroupEntities(t, entity)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultTopN
	}
	return &Ranking{
		Entity:      entity.Name(),
		ByNetWeight: TopBy(totals, ByNetWeight, n),
		ByFOB:       TopBy(totals, ByFOB, n),
	}, nil
}
