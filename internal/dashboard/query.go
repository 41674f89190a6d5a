package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tradeflow/internal/engine"
	"github.com/sells-group/tradeflow/internal/model"
)

// Query is the state of the filter controls. Empty selections mean "all",
// as in a multi-select with nothing picked. Empty dates fall back to the
// dataset's default range.
type Query struct {
	Offices []string `json:"offices,omitempty" yaml:"offices,omitempty"`
	Ports   []string `json:"ports,omitempty" yaml:"ports,omitempty"`
	Modes   []string `json:"modes,omitempty" yaml:"modes,omitempty"`
	Start   string   `json:"start,omitempty" yaml:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	End     string   `json:"end,omitempty" yaml:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Filter resolves q against t. floor is the earliest default start.
func (q Query) Filter(t *model.Table, floor time.Time) (engine.Filter, error) {
	f := engine.Filter{
		Selections: map[model.Field]engine.Selection{
			model.CustomsOffice:   engine.FromMultiSelect(q.Offices),
			model.DestinationPort: engine.FromMultiSelect(q.Ports),
			model.TransportMode:   engine.FromMultiSelect(q.Modes),
		},
	}

	defStart, defEnd, ok := engine.DefaultRange(t, floor)
	if !ok {
		// No dated rows: any range yields an empty view.
		defStart, defEnd = floor, floor
	}

	var err error
	if f.Start, err = parseBound(q.Start, defStart); err != nil {
		return engine.Filter{}, err
	}
	if f.End, err = parseBound(q.End, defEnd); err != nil {
		return engine.Filter{}, err
	}
	if err := f.Validate(); err != nil {
		return engine.Filter{}, err
	}
	return f, nil
}

func parseBound(s string, def time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(engine.ErrInvalidRange, "dashboard: date %q", s)
	}
	return d, nil
}

// CodeExportName is the download name for a single-code export.
func CodeExportName(code string) string {
	return fmt.Sprintf(codeExportPattern, sanitizeFileName(code))
}

func sanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
