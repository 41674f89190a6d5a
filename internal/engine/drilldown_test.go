package engine

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tradeflow/internal/model"
)

func TestSelectCode_Exact(t *testing.T) {
	tbl := table(
		shipment{code: "0804400000"},
		shipment{code: "08044000"},
		shipment{code: "0804400000"},
		shipment{},
	)
	out, err := SelectCode(tbl, "0804400000")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
}

func TestDrillDown(t *testing.T) {
	tbl := table(
		shipment{code: "0804400000", country: "CHILE", exporter: "ACME", importer: "SUR", date: "2025-01-02", gross: 100, fob: 50},
		shipment{code: "0804400000", country: "CHILE", exporter: "ANDES", importer: "SUR", date: "2025-01-03", gross: 40, fob: 80},
		shipment{code: "0804400000", country: "BOLIVIA", exporter: "ACME", importer: "NORTE", date: "2025-01-03", gross: 5, fob: 45},
		shipment{code: "0806100000", country: "CHILE", exporter: "ACME", importer: "SUR", date: "2025-01-03", gross: 1, fob: 1},
	)
	p, err := DrillDown(tbl, "0804400000", 10)
	require.NoError(t, err)

	assert.Equal(t, "0804400000", p.Code)
	assert.Equal(t, 3, p.Rows.Len())
	assert.Equal(t, Summary{Rows: 3, FOBTotal: 175, GrossWeight: 145}, p.Summary)
	assert.Equal(t, []Point{{Date: day("2025-01-02"), Value: 50}, {Date: day("2025-01-03"), Value: 125}}, p.Series)
	assert.Equal(t, []GroupTotal{{Key: "CHILE", Value: 140}, {Key: "BOLIVIA", Value: 5}}, p.Destinations)

	require.Len(t, p.TopExporters, 2)
	assert.Equal(t, "ACME", p.TopExporters[0].Entity)
	assert.Equal(t, 95.0, p.TopExporters[0].FOB)
	assert.Equal(t, 105.0, p.TopExporters[0].GrossWeight)
	assert.Equal(t, "SUR", p.TopImporters[0].Entity)
	assert.Empty(t, p.Notices)

	require.NotNil(t, p.Records)
	assert.Equal(t, model.Schema[:], p.Records.Columns)
	require.Len(t, p.Records.Rows, 3)
	assert.Equal(t, "ANDES", p.Records.Rows[1][model.Exporter])
	assert.Equal(t, "2025-01-03", p.Records.Rows[1][model.Date])
	assert.Equal(t, "80", p.Records.Rows[1][model.FOBTotal])
	assert.Equal(t, "", p.Records.Rows[1][model.NetWeight], "absent values list as empty")
}

func TestListRecords_Empty(t *testing.T) {
	l := ListRecords(table())
	assert.Len(t, l.Columns, model.FieldCount)
	assert.NotNil(t, l.Rows)
	assert.Empty(t, l.Rows)
}

func TestDrillDown_NoRows(t *testing.T) {
	_, err := DrillDown(table(shipment{code: "1"}), "2", 10)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNoData))
}

func TestDrillDown_MissingColumnsBecomeNotices(t *testing.T) {
	narrow := model.NewTable([]model.Record{
		shipment{code: "0804400000", date: "2025-01-01"}.record(),
	}, int(model.Date)+1)

	p, err := DrillDown(narrow, "0804400000", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Summary.Rows)
	assert.Nil(t, p.Series)

	views := make(map[string]string)
	for _, n := range p.Notices {
		views[n.View] = n.Reason
	}
	assert.Equal(t, map[string]string{
		ViewSeries:       ReasonMissingField,
		ViewDestinations: ReasonMissingField,
		ViewExporters:    ReasonMissingField,
		ViewImporters:    ReasonMissingField,
	}, views)
}
