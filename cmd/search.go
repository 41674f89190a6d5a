package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/tradeflow/internal/engine"
	"github.com/sells-group/tradeflow/internal/session"
)

// searchOutput is the structured result of the search command.
type searchOutput struct {
	Search    *session.SearchResult `json:"search" yaml:"search"`
	Selection *engine.Partition     `json:"selection,omitempty" yaml:"selection,omitempty"`
}

var searchCmd = &cobra.Command{
	Use:   "search <code>",
	Short: "Find tariff codes similar to a partial code",
	Long:  "Matches the query against every distinct tariff code of the unfiltered dataset. With --select, drills the filtered view down to one code.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := inputPath(cmd)
		if err != nil {
			return err
		}
		svc, err := newService(cmd.Context(), cfg, path)
		if err != nil {
			return err
		}

		res, err := svc.Search(args[0])
		if err != nil {
			return eris.Wrap(err, "search")
		}
		result := searchOutput{Search: res}

		if code, _ := cmd.Flags().GetString("select"); strings.TrimSpace(code) != "" {
			p, err := svc.Selection(queryFromFlags(cmd), strings.TrimSpace(code))
			if err != nil {
				return eris.Wrap(err, "search: select")
			}
			result.Selection = p
		}

		format, _ := cmd.Flags().GetString("format")
		out := cmd.OutOrStdout()
		if ok, err := writeStructured(out, format, result); ok || err != nil {
			return err
		}
		formatMatches(out, res)
		if result.Selection != nil {
			formatPartition(out, result.Selection)
			if records, _ := cmd.Flags().GetBool("records"); records {
				formatListing(out, result.Selection.Records)
			}
		}
		return nil
	},
	Annotations: map[string]string{validateAnnotation: "search"},
}

func init() {
	addInputFlag(searchCmd)
	addQueryFlags(searchCmd)
	searchCmd.Flags().String("select", "", "tariff code to drill down into")
	searchCmd.Flags().Bool("records", false, "with --select, list the code's records (always included in json/yaml)")
	searchCmd.Flags().StringP("format", "f", formatText, "output format: text, json or yaml")
	rootCmd.AddCommand(searchCmd)
}
