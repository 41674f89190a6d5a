package main

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow/internal/sheet"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize a raw export and write a cleaned workbook",
	Long:  "Reads a customs export, names columns by position, blanks missing-value tokens, coerces numbers and dates, and writes the result as a single-sheet workbook.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := inputPath(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = cleanedName(path)
		}

		tbl, err := sheet.Load(cmd.Context(), path, sheetOptions(cfg))
		if err != nil {
			return eris.Wrap(err, "clean")
		}
		if err := sheet.SaveXLSX(out, tbl, cfg.Export.SheetName); err != nil {
			return eris.Wrap(err, "clean")
		}

		zap.L().Info("cleaned workbook written",
			zap.String("input", path),
			zap.String("output", out),
			zap.Int("rows", tbl.Len()),
		)
		return nil
	},
	Annotations: map[string]string{validateAnnotation: "clean"},
}

// cleanedName derives the output path: raw.xlsx -> raw_limpio.xlsx.
func cleanedName(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_limpio.xlsx"
}

func init() {
	addInputFlag(cleanCmd)
	cleanCmd.Flags().StringP("output", "o", "", "output workbook (default <input>_limpio.xlsx)")
	rootCmd.AddCommand(cleanCmd)
}
