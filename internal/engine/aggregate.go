package engine

import (
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tradeflow/internal/model"
)

// Summary holds the headline totals of a view. Absent measures contribute 0,
// and an empty or column-less table reports 0 rather than "no data".
type Summary struct {
	Rows        int     `json:"rows" yaml:"rows"`
	FOBTotal    float64 `json:"fob_total" yaml:"fob_total"`
	GrossWeight float64 `json:"gross_weight" yaml:"gross_weight"`
	Qty1        float64 `json:"qty1" yaml:"qty1"`
}

// Summarize computes the headline totals.
func Summarize(t *model.Table) Summary {
	return Summary{
		Rows:        t.Len(),
		FOBTotal:    sumField(t, model.FOBTotal),
		GrossWeight: sumField(t, model.GrossWeight),
		Qty1:        sumField(t, model.Qty1),
	}
}

func sumField(t *model.Table, f model.Field) float64 {
	if !t.HasField(f) {
		return 0
	}
	var total float64
	t.Each(func(r model.Record) {
		if v, ok := r.Number(f); ok {
			total += v
		}
	})
	return total
}

// Point is one date of a time series.
type Point struct {
	Date  time.Time `json:"date" yaml:"date"`
	Value float64   `json:"value" yaml:"value"`
}

// TimeSeries sums FOB per declaration date, ascending by date. Rows without
// a date are skipped.
func TimeSeries(t *model.Table) ([]Point, error) {
	if err := requireFields(t, model.Date, model.FOBTotal); err != nil {
		return nil, err
	}
	sums := make(map[time.Time]float64)
	t.Each(func(r model.Record) {
		d, ok := r.Date()
		if !ok {
			return
		}
		v, _ := r.Number(model.FOBTotal)
		sums[d] += v
	})
	if len(sums) == 0 {
		return nil, eris.Wrap(ErrNoData, "engine: time series")
	}

	out := make([]Point, 0, len(sums))
	for d, v := range sums {
		out = append(out, Point{Date: d, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// GroupTotal is the sum of one measure for one key.
type GroupTotal struct {
	Key   string  `json:"key" yaml:"key"`
	Value float64 `json:"value" yaml:"value"`
}

// GroupSum sums measure per present value of key, descending by sum with
// ties broken by key. Rows with an absent key are not grouped.
func GroupSum(t *model.Table, key, measure model.Field) ([]GroupTotal, error) {
	if err := requireFields(t, key, measure); err != nil {
		return nil, err
	}
	sums := make(map[string]float64)
	t.Each(func(r model.Record) {
		k, ok := r.Text(key)
		if !ok {
			return
		}
		v, _ := r.Number(measure)
		sums[k] += v
	})
	if len(sums) == 0 {
		return nil, eris.Wrapf(ErrNoData, "engine: group %s", key.Name())
	}

	out := make([]GroupTotal, 0, len(sums))
	for k, v := range sums {
		out = append(out, GroupTotal{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

// OfficeWeights is gross weight per customs office, heaviest first.
func OfficeWeights(t *model.Table) ([]GroupTotal, error) {
	return GroupSum(t, model.CustomsOffice, model.GrossWeight)
}

// DestinationWeights is gross weight per destination country, heaviest first.
func DestinationWeights(t *model.Table) ([]GroupTotal, error) {
	return GroupSum(t, model.DestinationCountry, model.GrossWeight)
}
