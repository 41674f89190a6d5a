package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/tradeflow/internal/dashboard"
	"github.com/sells-group/tradeflow/internal/engine"
	"github.com/sells-group/tradeflow/internal/session"
)

func sampleView() *dashboard.View {
	return &dashboard.View{
		Dataset: &dashboard.Dataset{Name: "peru_chile.xlsx"},
		Start:   "2025-01-01",
		End:     "2025-03-31",
		Dashboard: &engine.Dashboard{
			Summary: engine.Summary{Rows: 1234, FOBTotal: 1234567.891, GrossWeight: 42},
			Series:  []engine.Point{{Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Value: 10}},
			Offices: []engine.GroupTotal{{Key: "CALLAO", Value: 300}},
			Exporters: &engine.Ranking{
				Entity:      "Exportador",
				ByNetWeight: []engine.EntityTotal{{Entity: "ACME SAC", NetWeight: 950}},
				ByFOB:       []engine.EntityTotal{{Entity: "ANDES SA", FOB: 900}},
			},
			Heatmap: &engine.Pivot{
				Ports:  []string{"VALPARAISO"},
				Months: []string{"2025-01", "2025-02"},
				Cells:  [][]float64{{150, 0}},
			},
			Notices: []engine.Notice{{View: engine.ViewImporters, Reason: engine.ReasonNoData, Message: "no data for importers with the applied filters"}},
		},
	}
}

func TestFormatDashboard(t *testing.T) {
	var buf bytes.Buffer
	formatDashboard(&buf, sampleView())
	out := buf.String()

	assert.Contains(t, out, "peru_chile.xlsx")
	assert.Contains(t, out, "2025-01-01 .. 2025-03-31")
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "1,234,567.89")
	assert.Contains(t, out, "2025-01-02")
	assert.Contains(t, out, "CALLAO")
	assert.Contains(t, out, "Exporters by net weight")
	assert.Contains(t, out, "ACME SAC")
	assert.Contains(t, out, "ANDES SA")
	assert.NotContains(t, out, "Importers by FOB")
	assert.Contains(t, out, "VALPARAISO")
	assert.Contains(t, out, "2025-02")
	assert.Contains(t, out, "importers: no data for importers")
}

func TestFormatMatches(t *testing.T) {
	var buf bytes.Buffer
	formatMatches(&buf, &session.SearchResult{Query: "0123", Matches: []engine.Match{{Code: "01234567", Score: 2.0 / 3}}})
	assert.Contains(t, buf.String(), "01234567")
	assert.Contains(t, buf.String(), "0.667")

	buf.Reset()
	formatMatches(&buf, &session.SearchResult{Query: "zzz"})
	assert.Contains(t, buf.String(), `No tariff codes similar to "zzz"`)
}

func TestFormatPartition(t *testing.T) {
	var buf bytes.Buffer
	formatPartition(&buf, &engine.Partition{
		Code:         "0804400000",
		Summary:      engine.Summary{Rows: 2, FOBTotal: 800},
		Destinations: []engine.GroupTotal{{Key: "CHILE", Value: 145}},
		TopExporters: []engine.EntityTotal{{Entity: "ACME", FOB: 500}},
	})
	out := buf.String()
	assert.Contains(t, out, "Tariff code 0804400000")
	assert.Contains(t, out, "CHILE")
	assert.Contains(t, out, "Top exporters by FOB")
	assert.NotContains(t, out, "Top importers by FOB")
}

func TestWriteStructured(t *testing.T) {
	var buf bytes.Buffer
	ok, err := writeStructured(&buf, formatText, sampleView())
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.Zero(t, buf.Len())

	ok, err = writeStructured(&buf, formatJSON, engine.Summary{Rows: 1})
	assert.True(t, ok)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows":1,"fob_total":0,"gross_weight":0,"qty1":0}`, buf.String())

	buf.Reset()
	ok, err = writeStructured(&buf, formatYAML, engine.Summary{Rows: 3, FOBTotal: 1.5})
	assert.True(t, ok)
	require.NoError(t, err)
	var back engine.Summary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, engine.Summary{Rows: 3, FOBTotal: 1.5}, back)

	_, err = writeStructured(&buf, "xml", nil)
	assert.Error(t, err)
}

func TestFormatListing(t *testing.T) {
	var buf bytes.Buffer
	formatListing(&buf, &engine.Listing{
		Columns: []string{"Partida Aduanera", "Aduana", "Naviera"},
		Rows: [][]string{
			{"0804400000", "LIMA", ""},
			{"0804400000", "", ""},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "Records")
	assert.Contains(t, out, "Partida Aduanera")
	assert.Contains(t, out, "LIMA")
	assert.NotContains(t, out, "Naviera")

	buf.Reset()
	formatListing(&buf, &engine.Listing{Columns: []string{"Aduana"}})
	assert.Zero(t, buf.Len())
	formatListing(&buf, nil)
	assert.Zero(t, buf.Len())
}
