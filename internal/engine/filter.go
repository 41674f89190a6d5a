// Package engine filters a normalized shipment table and computes the
// dashboard views over it. Every function is a pure read of its input.
package engine

import (
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow/internal/model"
)

// FilterFields are the categorical fields offered as multi-select filters.
var FilterFields = []model.Field{model.CustomsOffice, model.DestinationPort, model.TransportMode}

// DefaultRangeFloor is the earliest default start of the date filter.
var DefaultRangeFloor = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Selection is the state of one categorical filter: either unrestricted, or
// restricted to a set of values. A restriction to the empty set matches no rows.
type Selection struct {
	restricted bool
	values     map[string]struct{}
}

// Unrestricted matches every row, including rows where the field is absent.
func Unrestricted() Selection { return Selection{} }

// RestrictedTo matches rows whose value is one of values.
func RestrictedTo(values ...string) Selection {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return Selection{restricted: true, values: set}
}

// FromMultiSelect maps a multi-select control's state to a Selection. An
// empty control means "nothing chosen yet" and is treated as unrestricted.
func FromMultiSelect(values []string) Selection {
	if len(values) == 0 {
		return Unrestricted()
	}
	return RestrictedTo(values...)
}

// Restricted reports whether the selection limits rows.
func (s Selection) Restricted() bool { return s.restricted }

// Values returns the allowed values, sorted. Nil when unrestricted.
func (s Selection) Values() []string {
	if !s.restricted {
		return nil
	}
	out := make([]string, 0, len(s.values))
	for v := range s.values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Allows reports whether a cell passes the selection.
func (s Selection) Allows(c model.Cell, rendered string) bool {
	if !s.restricted {
		return true
	}
	if !c.Valid {
		return false
	}
	_, ok := s.values[rendered]
	return ok
}

// Filter is the full set of analyst predicates. Start and End are both
// required and inclusive at day granularity.
type Filter struct {
	Selections map[model.Field]Selection
	Start      time.Time
	End        time.Time
}

// Validate checks the date range.
func (f Filter) Validate() error {
	if f.Start.IsZero() || f.End.IsZero() {
		return eris.Wrap(ErrInvalidRange, "engine: start and end dates are required")
	}
	if truncDay(f.End).Before(truncDay(f.Start)) {
		return eris.Wrapf(ErrInvalidRange, "engine: end %s is before start %s",
			f.End.Format(model.DateLayout), f.Start.Format(model.DateLayout))
	}
	return nil
}

// Apply returns the rows of t that pass every restricted selection and whose
// date is present and inside [Start, End]. Restrictions on fields the table
// does not carry are ignored: there are no values to choose from.
func Apply(t *model.Table, f Filter) (*model.Table, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	type active struct {
		field model.Field
		sel   Selection
	}
	var checks []active
	for field, sel := range f.Selections {
		if !sel.Restricted() {
			continue
		}
		if !t.HasField(field) {
			zap.L().Debug("engine: ignoring filter on missing column", zap.String("field", field.Name()))
			continue
		}
		checks = append(checks, active{field: field, sel: sel})
	}

	start, end := truncDay(f.Start), truncDay(f.End)
	out := t.Subset(func(r model.Record) bool {
		for _, c := range checks {
			if !c.sel.Allows(r.Cell(c.field), r.String(c.field)) {
				return false
			}
		}
		d, ok := r.Date()
		if !ok {
			return false
		}
		return !d.Before(start) && !d.After(end)
	})
	return out, nil
}

// DefaultRange returns the date range the dashboard opens with: from the
// later of floor and the earliest date, to the latest date. If floor is past
// the latest date the full span is used. ok is false when no row has a date.
func DefaultRange(t *model.Table, floor time.Time) (start, end time.Time, ok bool) {
	min, max, ok := t.DateBounds()
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start = min
	if floor = truncDay(floor); floor.After(min) && !floor.After(max) {
		start = floor
	}
	return start, max, true
}

// Options returns the distinct present values of each requested field. A
// field missing from the table maps to an empty list.
func Options(t *model.Table, fields ...model.Field) map[model.Field][]string {
	out := make(map[model.Field][]string, len(fields))
	for _, f := range fields {
		vals := t.Distinct(f)
		if vals == nil {
			vals = []string{}
		}
		out[f] = vals
	}
	return out
}

func truncDay(t time.Time) time.Time {
	return model.DateCell(t).Time
}
