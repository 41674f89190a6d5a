package main

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered view as a workbook",
	Long:  "Applies the dashboard filters and writes the remaining rows, or only those of --code, to a single-sheet workbook.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := inputPath(cmd)
		if err != nil {
			return err
		}
		svc, err := newService(cmd.Context(), cfg, path)
		if err != nil {
			return err
		}

		code, _ := cmd.Flags().GetString("code")
		d, err := svc.Export(queryFromFlags(cmd), strings.TrimSpace(code))
		if err != nil {
			return eris.Wrap(err, "export")
		}

		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			dir, _ := cmd.Flags().GetString("dir")
			out = filepath.Join(dir, d.FileName)
		}
		if err := d.Save(out); err != nil {
			return eris.Wrap(err, "export")
		}

		zap.L().Info("export written",
			zap.String("output", out),
			zap.Int("rows", d.Table.Len()),
		)
		return nil
	},
	Annotations: map[string]string{validateAnnotation: "export"},
}

func init() {
	addInputFlag(exportCmd)
	addQueryFlags(exportCmd)
	exportCmd.Flags().String("code", "", "export only this tariff code")
	exportCmd.Flags().StringP("output", "o", "", "output workbook (default the download name in --dir)")
	exportCmd.Flags().String("dir", ".", "directory for the default output name")
	rootCmd.AddCommand(exportCmd)
}
