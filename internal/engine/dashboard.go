package engine

import (
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow/internal/model"
)

// View names used in notices.
const (
	ViewSeries       = "series"
	ViewOffices      = "offices"
	ViewExporters    = "exporters"
	ViewImporters    = "importers"
	ViewHeatmap      = "heatmap"
	ViewDestinations = "destinations"
)

// Notice tells the caller why a view was not produced.
type Notice struct {
	View    string `json:"view" yaml:"view"`
	Reason  string `json:"reason" yaml:"reason"`
	Message string `json:"message" yaml:"message"`
}

// Notice reasons.
const (
	ReasonNoData       = "no_data"
	ReasonInsufficient = "insufficient_data"
	ReasonMissingField = "missing_column"
)

func noticeFor(view string, err error) Notice {
	n := Notice{View: view, Message: err.Error()}
	var mf *MissingFieldError
	switch {
	case errors.As(err, &mf):
		n.Reason = ReasonMissingField
		n.Message = mf.Error()
	case eris.Is(err, ErrInsufficientData):
		n.Reason = ReasonInsufficient
		n.Message = "not enough data to build " + view
	case eris.Is(err, ErrNoData):
		n.Reason = ReasonNoData
		n.Message = "no data for " + view + " with the applied filters"
	default:
		zap.L().Warn("engine: unexpected view error", zap.String("view", view), zap.Error(err))
	}
	return n
}

// Dashboard is every view of a filtered table. Views that could not be
// computed are nil and explained in Notices.
type Dashboard struct {
	Summary   Summary      `json:"summary" yaml:"summary"`
	Series    []Point      `json:"series,omitempty" yaml:"series,omitempty"`
	Offices   []GroupTotal `json:"offices,omitempty" yaml:"offices,omitempty"`
	Exporters *Ranking     `json:"exporters,omitempty" yaml:"exporters,omitempty"`
	Importers *Ranking     `json:"importers,omitempty" yaml:"importers,omitempty"`
	Heatmap   *Pivot       `json:"heatmap,omitempty" yaml:"heatmap,omitempty"`
	Notices   []Notice     `json:"notices,omitempty" yaml:"notices,omitempty"`
}

// BuildDashboard computes all views over filtered. It never fails: missing
// columns and empty results become notices.
func BuildDashboard(filtered *model.Table, topN int) *Dashboard {
	d := &Dashboard{Summary: Summarize(filtered)}
	var err error

	if d.Series, err = nonEmpty(filtered, TimeSeries); err != nil {
		d.Notices = append(d.Notices, noticeFor(ViewSeries, err))
	}
	if d.Offices, err = nonEmpty(filtered, OfficeWeights); err != nil {
		d.Notices = append(d.Notices, noticeFor(ViewOffices, err))
	}
	if d.Exporters, err = rankNonEmpty(filtered, model.Exporter, topN); err != nil {
		d.Notices = append(d.Notices, noticeFor(ViewExporters, err))
	}
	if d.Importers, err = rankNonEmpty(filtered, model.Importer, topN); err != nil {
		d.Notices = append(d.Notices, noticeFor(ViewImporters, err))
	}
	if d.Heatmap, err = nonEmpty(filtered, MonthlyPivot); err != nil {
		d.Notices = append(d.Notices, noticeFor(ViewHeatmap, err))
	}
	return d
}

// nonEmpty reports ErrNoData for an empty table before checking columns, so
// an empty filter result reads as "no data" rather than a schema problem.
func nonEmpty[T any](t *model.Table, view func(*model.Table) (T, error)) (T, error) {
	if t.Empty() {
		var zero T
		return zero, ErrNoData
	}
	return view(t)
}

func rankNonEmpty(t *model.Table, entity model.Field, n int) (*Ranking, error) {
	if t.Empty() {
		return nil, ErrNoData
	}
	return RankEntities(t, entity, n)
}
