package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tradeflow/internal/model"
)

func noticesByView(d *Dashboard) map[string]Notice {
	out := make(map[string]Notice)
	for _, n := range d.Notices {
		out[n.View] = n
	}
	return out
}

func TestBuildDashboard(t *testing.T) {
	tbl := table(
		shipment{office: "LIMA", port: "VALPARAISO", exporter: "ACME", importer: "SUR", date: "2025-01-10", gross: 10, net: 9, fob: 100},
		shipment{office: "CALLAO", port: "ARICA", exporter: "ANDES", importer: "SUR", date: "2025-02-10", gross: 20, net: 18, fob: 50},
	)
	d := BuildDashboard(tbl, 10)

	assert.Empty(t, d.Notices)
	assert.Equal(t, 2, d.Summary.Rows)
	assert.Equal(t, 150.0, d.Summary.FOBTotal)
	assert.Len(t, d.Series, 2)
	assert.Equal(t, "CALLAO", d.Offices[0].Key)
	require.NotNil(t, d.Exporters)
	assert.Equal(t, "ANDES", d.Exporters.ByNetWeight[0].Entity)
	assert.Equal(t, "ACME", d.Exporters.ByFOB[0].Entity)
	require.NotNil(t, d.Importers)
	assert.Equal(t, 27.0, d.Importers.ByNetWeight[0].NetWeight)
	require.NotNil(t, d.Heatmap)
	assert.Equal(t, []string{"ARICA", "VALPARAISO"}, d.Heatmap.Ports)
}

func TestBuildDashboard_Empty(t *testing.T) {
	d := BuildDashboard(table(), 10)

	assert.Equal(t, Summary{}, d.Summary)
	assert.Nil(t, d.Series)
	assert.Nil(t, d.Offices)
	assert.Nil(t, d.Exporters)
	assert.Nil(t, d.Importers)
	assert.Nil(t, d.Heatmap)

	notices := noticesByView(d)
	require.Len(t, notices, 5)
	for _, v := range []string{ViewSeries, ViewOffices, ViewExporters, ViewImporters, ViewHeatmap} {
		assert.Equal(t, ReasonNoData, notices[v].Reason, v)
	}
}

func TestBuildDashboard_EmptyNarrowTableIsNoData(t *testing.T) {
	d := BuildDashboard(model.NewTable(nil, 2), 10)
	for _, n := range d.Notices {
		assert.Equal(t, ReasonNoData, n.Reason, n.View)
	}
}

func TestBuildDashboard_MissingColumns(t *testing.T) {
	narrow := model.NewTable([]model.Record{
		shipment{office: "LIMA", exporter: "ACME", importer: "SUR", date: "2025-01-10", gross: 10, net: 9}.record(),
	}, int(model.NetWeight)+1)

	d := BuildDashboard(narrow, 10)
	assert.Equal(t, 10.0, d.Summary.GrossWeight)
	assert.Equal(t, 0.0, d.Summary.FOBTotal)
	require.NotNil(t, d.Offices)
	assert.Equal(t, "LIMA", d.Offices[0].Key)

	notices := noticesByView(d)
	assert.Equal(t, ReasonMissingField, notices[ViewSeries].Reason)
	assert.Contains(t, notices[ViewSeries].Message, "U$ FOB Tot")
	assert.Equal(t, ReasonMissingField, notices[ViewExporters].Reason)
	assert.Equal(t, ReasonMissingField, notices[ViewImporters].Reason)
	assert.Equal(t, ReasonMissingField, notices[ViewHeatmap].Reason)
	assert.NotContains(t, notices, ViewOffices)
}

func TestBuildDashboard_InsufficientHeatmap(t *testing.T) {
	d := BuildDashboard(table(shipment{office: "LIMA", exporter: "A", importer: "B", date: "2025-01-01", fob: 1}), 10)
	notices := noticesByView(d)
	require.Contains(t, notices, ViewHeatmap)
	assert.Equal(t, ReasonInsufficient, notices[ViewHeatmap].Reason)
	assert.Len(t, d.Notices, 1)
}
