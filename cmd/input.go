package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/tradeflow/internal/config"
	"github.com/sells-group/tradeflow/internal/dashboard"
	"github.com/sells-group/tradeflow/internal/session"
	"github.com/sells-group/tradeflow/internal/sheet"
)

// sheetOptions maps the input config to reader options.
func sheetOptions(c *config.Config) sheet.Options {
	opts := sheet.Options{
		XLSX: sheet.XLSXOptions{SheetIndex: c.Input.SheetIndex, SheetName: c.Input.SheetName},
		CSV:  sheet.CSVOptions{Charset: c.Input.CSVCharset},
	}
	if r := []rune(c.Input.CSVDelimiter); len(r) == 1 {
		opts.CSV.Delimiter = r[0]
	}
	return opts
}

// serviceConfig maps the config to dashboard settings.
func serviceConfig(c *config.Config) (dashboard.Config, error) {
	start, err := c.Dashboard.DefaultStartDate()
	if err != nil {
		return dashboard.Config{}, err
	}
	return dashboard.Config{
		TopN:         c.Dashboard.TopN,
		MatchLimit:   c.Search.Limit,
		MatchCutoff:  c.Search.Cutoff,
		DefaultStart: start,
		SheetName:    c.Export.SheetName,
		Load:         sheetOptions(c),
	}, nil
}

// newService builds a dashboard service, loading path when it is not empty.
func newService(ctx context.Context, c *config.Config, path string) (*dashboard.Service, error) {
	sc, err := serviceConfig(c)
	if err != nil {
		return nil, err
	}
	svc := dashboard.NewService(sc, session.NewMemoryStore())
	if path == "" {
		return svc, nil
	}
	if _, err := svc.LoadFile(ctx, path); err != nil {
		return nil, err
	}
	return svc, nil
}

// addInputFlag registers the required --input flag.
func addInputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "source spreadsheet (.xlsx or .csv)")
	_ = cmd.MarkFlagRequired("input")
}

func inputPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("input")
	if path == "" {
		return "", eris.Wrap(dashboard.ErrNoInput, "--input")
	}
	return path, nil
}

// addQueryFlags registers the dashboard filter flags.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("office", nil, "customs office(s) to include (default all)")
	cmd.Flags().StringSlice("dest-port", nil, "destination port(s) to include (default all)")
	cmd.Flags().StringSlice("mode", nil, "transport mode(s) to include (default all)")
	cmd.Flags().String("start", "", "first declaration date, YYYY-MM-DD (default later of dashboard.default_start and the first date)")
	cmd.Flags().String("end", "", "last declaration date, YYYY-MM-DD (default the last date)")
}

func queryFromFlags(cmd *cobra.Command) dashboard.Query {
	var q dashboard.Query
	q.Offices, _ = cmd.Flags().GetStringSlice("office")
	q.Ports, _ = cmd.Flags().GetStringSlice("dest-port")
	q.Modes, _ = cmd.Flags().GetStringSlice("mode")
	q.Start, _ = cmd.Flags().GetString("start")
	q.End, _ = cmd.Flags().GetString("end")
	return q
}
