package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crewcall/crewcall/internal/config"
	"github.com/crewcall/crewcall/internal/export"
)

func newExportCommand() *cobra.Command {
	var (
		format  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Export an archived run's contacts",
		Long: `Export an archived run's contacts as CSV, JSON, or an XLSX workbook.

When --out is omitted, CSV and JSON go to stdout; XLSX requires --out.
When --format is omitted it is inferred from the --out extension.

Examples:
  crewcall export 7c2f... --format csv
  crewcall export 7c2f... -o contacts.xlsx
  crewcall export 7c2f... --format json -o contacts.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(config.ResolveOptions{})
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			fmtName := format
			if fmtName == "" && outPath != "" {
				fmtName = strings.TrimPrefix(filepath.Ext(outPath), ".")
			}
			if fmtName == "" {
				fmtName = "csv"
			}
			f, err := export.ParseFormat(fmtName)
			if err != nil {
				return err
			}
			if f == export.FormatXLSX && outPath == "" {
				return fmt.Errorf("xlsx export requires --out")
			}

			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("opening archive: %w", err)
			}
			defer func() { _ = st.Close() }()

			run, err := st.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run %q not found", args[0])
			}
			contacts, err := st.ContactsForRun(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			data, err := export.New(logger).Export(run, contacts, f)
			if err != nil {
				return err
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d contact(s) to %s\n", len(contacts), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "export format: csv, json, xlsx (default inferred from --out)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	return cmd
}
