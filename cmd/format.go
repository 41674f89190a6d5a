package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/tradeflow/internal/dashboard"
	"github.com/sells-group/tradeflow/internal/engine"
	"github.com/sells-group/tradeflow/internal/model"
	"github.com/sells-group/tradeflow/internal/session"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var numbers = message.NewPrinter(language.English)

// writeStructured encodes v as JSON or YAML. ok is false for text.
func writeStructured(w io.Writer, format string, v any) (ok bool, err error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, eris.Wrap(err, "encode yaml")
		}
		return true, enc.Close()
	case formatText, "":
		return false, nil
	default:
		return true, eris.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func amount(v float64) string {
	return numbers.Sprintf("%.2f", v)
}

func count(n int) string {
	return numbers.Sprintf("%d", n)
}

// formatSummary writes the headline metrics to w.
func formatSummary(w *tabwriter.Writer, s engine.Summary) {
	_, _ = fmt.Fprintf(w, "Rows:\t%s\n", count(s.Rows))
	_, _ = fmt.Fprintf(w, "FOB total (USD):\t%s\n", amount(s.FOBTotal))
	_, _ = fmt.Fprintf(w, "Gross weight (kg):\t%s\n", amount(s.GrossWeight))
	_, _ = fmt.Fprintf(w, "Qty 1:\t%s\n", amount(s.Qty1))
}

func section(w io.Writer, title string) {
	_, _ = fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

// formatDashboard writes every view of v as text tables.
func formatDashboard(out io.Writer, v *dashboard.View) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Dataset:\t%s\n", v.Dataset.Name)
	_, _ = fmt.Fprintf(w, "Range:\t%s .. %s\n", v.Start, v.End)
	formatSummary(w, v.Dashboard.Summary)
	_ = w.Flush()

	d := v.Dashboard
	if len(d.Series) > 0 {
		section(out, "FOB by date")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		_, _ = fmt.Fprintln(w, "DATE\tFOB\t")
		for _, p := range d.Series {
			_, _ = fmt.Fprintf(w, "%s\t%s\t\n", p.Date.Format(model.DateLayout), amount(p.Value))
		}
		_ = w.Flush()
	}
	if len(d.Offices) > 0 {
		section(out, "Gross weight by customs office")
		formatGroups(out, "OFFICE", "KG BRUTO", d.Offices)
	}
	if d.Exporters != nil {
		formatRanking(out, "Exporters", d.Exporters)
	}
	if d.Importers != nil {
		formatRanking(out, "Importers", d.Importers)
	}
	if d.Heatmap != nil {
		section(out, "FOB by destination port and month")
		formatPivot(out, d.Heatmap)
	}
	formatNotices(out, d.Notices)
}

func formatGroups(out io.Writer, keyHeader, valueHeader string, groups []engine.GroupTotal) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s\t%s\n", keyHeader, valueHeader)
	for _, g := range groups {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", g.Key, amount(g.Value))
	}
	_ = w.Flush()
}

func formatRanking(out io.Writer, title string, r *engine.Ranking) {
	section(out, title+" by net weight")
	formatEntities(out, r.ByNetWeight)
	section(out, title+" by FOB")
	formatEntities(out, r.ByFOB)
}

func formatEntities(out io.Writer, totals []engine.EntityTotal) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tENTITY\tKG NETO\tKG BRUTO\tFOB")
	for i, e := range totals {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, e.Entity, amount(e.NetWeight), amount(e.GrossWeight), amount(e.FOB))
	}
	_ = w.Flush()
}

func formatPivot(out io.Writer, p *engine.Pivot) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "PORT\t%s\n", strings.Join(p.Months, "\t"))
	for i, port := range p.Ports {
		cells := make([]string, len(p.Months))
		for j := range p.Months {
			cells[j] = amount(p.Cells[i][j])
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", port, strings.Join(cells, "\t"))
	}
	_ = w.Flush()
}

func formatNotices(out io.Writer, notices []engine.Notice) {
	if len(notices) == 0 {
		return
	}
	section(out, "Notices")
	for _, n := range notices {
		_, _ = fmt.Fprintf(out, "%s: %s\n", n.View, n.Message)
	}
}

// formatMatches writes the outcome of a code search.
func formatMatches(out io.Writer, r *session.SearchResult) {
	if len(r.Matches) == 0 {
		_, _ = fmt.Fprintf(out, "No tariff codes similar to %q.\n", r.Query)
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tCODE\tSCORE")
	for i, m := range r.Matches {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%.3f\n", i+1, m.Code, m.Score)
	}
	_ = w.Flush()
}

// formatPartition writes a tariff-code drill-down.
func formatPartition(out io.Writer, p *engine.Partition) {
	section(out, "Tariff code "+p.Code)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	formatSummary(w, p.Summary)
	_ = w.Flush()

	if len(p.Series) > 0 {
		section(out, "FOB by date")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "DATE\tFOB")
		for _, pt := range p.Series {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", pt.Date.Format(model.DateLayout), amount(pt.Value))
		}
		_ = w.Flush()
	}
	if len(p.Destinations) > 0 {
		section(out, "Gross weight by destination country")
		formatGroups(out, "COUNTRY", "KG BRUTO", p.Destinations)
	}
	if len(p.TopExporters) > 0 {
		section(out, "Top exporters by FOB")
		formatEntities(out, p.TopExporters)
	}
	if len(p.TopImporters) > 0 {
		section(out, "Top importers by FOB")
		formatEntities(out, p.TopImporters)
	}
	formatNotices(out, p.Notices)
}

// formatListing writes the records of a drill-down. Columns that are empty
// in every row are left out.
func formatListing(out io.Writer, l *engine.Listing) {
	if l == nil || len(l.Rows) == 0 {
		return
	}
	section(out, "Records")

	var cols []int
	for j := range l.Columns {
		for _, row := range l.Rows {
			if j < len(row) && row[j] != "" {
				cols = append(cols, j)
				break
			}
		}
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	cells := make([]string, len(cols))
	for i, j := range cols {
		cells[i] = l.Columns[j]
	}
	_, _ = fmt.Fprintln(w, strings.Join(cells, "\t"))
	for _, row := range l.Rows {
		for i, j := range cols {
			cells[i] = row[j]
		}
		_, _ = fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	_ = w.Flush()
}
