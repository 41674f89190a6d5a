package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the dashboard for a filtered view",
	Long:  "Loads a customs export, applies the office, port, mode and date filters, and prints the summary, time series, rankings and monthly pivot.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := inputPath(cmd)
		if err != nil {
			return err
		}
		svc, err := newService(cmd.Context(), cfg, path)
		if err != nil {
			return err
		}

		view, err := svc.View(queryFromFlags(cmd))
		if err != nil {
			return eris.Wrap(err, "report")
		}

		format, _ := cmd.Flags().GetString("format")
		out := cmd.OutOrStdout()
		if ok, err := writeStructured(out, format, view); ok || err != nil {
			return err
		}
		formatDashboard(out, view)
		return nil
	},
	Annotations: map[string]string{validateAnnotation: "report"},
}

func init() {
	addInputFlag(reportCmd)
	addQueryFlags(reportCmd)
	reportCmd.Flags().StringP("format", "f", formatText, "output format: text, json or yaml")
	rootCmd.AddCommand(reportCmd)
}
