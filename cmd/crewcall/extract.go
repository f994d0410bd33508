package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/crewcall/crewcall/internal/config"
	"github.com/crewcall/crewcall/internal/extract"
	"github.com/crewcall/crewcall/internal/ingest"
	"github.com/crewcall/crewcall/internal/store"
)

func newExtractCommand() *cobra.Command {
	var (
		threshold      string
		minQuality     string
		nameSimilarity string
		multiPass      bool
		preferRoles    []string
		documentType   string
		productionType string
		save           bool
		output         string
		recursive      bool
	)

	cmd := &cobra.Command{
		Use:   "extract <file-or-dir>",
		Short: "Extract contacts from a call sheet",
		Long: `Extract structured contacts from a call sheet file.

Reads .txt, .md (front matter hints honored), .csv, and .tsv files; pass "-"
to read from stdin, or a directory to process every sheet in it. The structure
of each sheet is detected automatically and the matching extraction strategies
are applied.

Examples:
  # Extract and print a table
  crewcall extract callsheet.txt

  # JSON output for scripting
  crewcall extract callsheet.txt -o json

  # Keep only high-confidence contacts and archive the run
  crewcall extract callsheet.txt --threshold 0.8 --save

  # Process a whole folder of sheets
  crewcall extract ./sheets --recursive --save

  # Enable the linking pass for sheets with facts split across lines
  crewcall extract callsheet.txt --multi-pass`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(config.ResolveOptions{
				CLIThreshold:      threshold,
				CLIMinQuality:     minQuality,
				CLINameSimilarity: nameSimilarity,
				CLIDocumentType:   documentType,
				CLIProductionType: productionType,
			})
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			opts := engineOptions(cfg)
			if cmd.Flags().Changed("multi-pass") {
				opts.UseMultiPass = multiPass
			}
			if len(preferRoles) > 0 {
				opts.RolePreferences = preferRoles
			}

			docs, loadErrs, err := loadInputs(cmd, args[0], recursive)
			if err != nil {
				return err
			}
			for _, loadErr := range loadErrs {
				logger.Warn().Err(loadErr).Msg("skipping unreadable file")
			}
			if len(docs) == 0 {
				return fmt.Errorf("no readable call sheets at %s", args[0])
			}

			var st *store.Store
			if save {
				st, err = openStore(cfg)
				if err != nil {
					return fmt.Errorf("opening archive: %w", err)
				}
				defer func() { _ = st.Close() }()
			}

			engine := extract.NewEngine(extract.WithLogger(logger))
			w := cmd.OutOrStdout()

			for i, doc := range docs {
				docOpts := opts
				if doc.DocumentType != "" && !cmd.Flags().Changed("document-type") {
					docOpts.DocumentType = extract.DocumentType(doc.DocumentType)
				}
				if doc.ProductionType != "" && !cmd.Flags().Changed("production-type") {
					docOpts.ProductionType = extract.ProductionType(doc.ProductionType)
				}

				result := engine.Extract(doc.Text, docOpts)

				runID := ""
				if save {
					runID, err = st.SaveRun(cmd.Context(), store.Run{
						SourceFile:        doc.SourceFile,
						StructureType:     result.Metadata.StructureType,
						DocumentType:      string(docOpts.DocumentType),
						ProductionType:    string(docOpts.ProductionType),
						SectionsFound:     result.Metadata.SectionsFound,
						RawCandidates:     result.Metadata.TotalRawCandidates,
						DuplicatesRemoved: result.Metadata.DuplicatesRemoved,
						ContactCount:      len(result.Contacts),
						AverageConfidence: result.Metadata.AverageConfidence,
						Notes:             result.Metadata.Notes,
					}, result.Contacts)
					if err != nil {
						return fmt.Errorf("archiving run for %s: %w", doc.SourceFile, err)
					}
					logger.Info().Str("run_id", runID).Int("contacts", len(result.Contacts)).Msg("run archived")
				}

				if len(docs) > 1 && output != "json" {
					if i > 0 {
						fmt.Fprintln(w)
					}
					fmt.Fprintf(w, "== %s ==\n", doc.SourceFile)
				}
				if output == "json" {
					if err := printExtractJSON(w, result, runID); err != nil {
						return err
					}
				} else if err := printExtractTable(w, result, runID); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&threshold, "threshold", "", "minimum confidence for returned contacts (0..1)")
	cmd.Flags().StringVar(&minQuality, "min-quality", "", "minimum weighted field quality (0..1)")
	cmd.Flags().StringVar(&nameSimilarity, "name-similarity", "", "fuzzy name merge threshold (0..1)")
	cmd.Flags().BoolVar(&multiPass, "multi-pass", false, "join facts split across adjacent lines and attach reports-to hints")
	cmd.Flags().StringSliceVar(&preferRoles, "prefer-roles", nil, "boost contacts whose role matches (comma-separated)")
	cmd.Flags().StringVar(&documentType, "document-type", "", "document hint: call_sheet, crew_list, contact_page")
	cmd.Flags().StringVar(&productionType, "production-type", "", "production hint: editorial, commercial, film")
	cmd.Flags().BoolVar(&save, "save", false, "archive the run and its contacts")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "when given a directory, descend into subdirectories")

	return cmd
}

// loadInputs reads the named file or directory through the format readers;
// "-" reads stdin. Directory scans skip unreadable files and report them
// as loadErrs instead of aborting.
func loadInputs(cmd *cobra.Command, path string, recursive bool) (docs []ingest.Document, loadErrs []error, err error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []ingest.Document{{Text: string(data), SourceFile: "stdin"}}, nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if info.IsDir() {
		docs, loadErrs = ingest.LoadDir(cmd.Context(), path, recursive)
		return docs, loadErrs, nil
	}

	doc, err := ingest.Load(cmd.Context(), path)
	if err != nil {
		return nil, nil, err
	}
	return []ingest.Document{doc}, nil, nil
}

func printExtractJSON(w io.Writer, result extract.Result, runID string) error {
	payload := struct {
		RunID    string            `json:"run_id,omitempty"`
		Contacts []extract.Contact `json:"contacts"`
		Metadata extract.Metadata  `json:"metadata"`
	}{RunID: runID, Contacts: result.Contacts, Metadata: result.Metadata}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func printExtractTable(w io.Writer, result extract.Result, runID string) error {
	meta := result.Metadata
	fmt.Fprintf(w, "Structure: %s", meta.StructureType)
	if meta.SectionsFound > 0 {
		fmt.Fprintf(w, " (%d sections)", meta.SectionsFound)
	}
	fmt.Fprintln(w)
	for _, note := range meta.Notes {
		fmt.Fprintf(w, "Note: %s\n", note)
	}

	if len(result.Contacts) == 0 {
		fmt.Fprintln(w, "No contacts found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tROLE\tDEPARTMENT\tEMAIL\tPHONE\tCOMPANY\tCONF")
	for _, c := range result.Contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%.2f %s\n",
			c.Name, c.Role, c.Department, c.Email, c.Phone, c.Company, c.Confidence, c.Level)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d contact(s), %d duplicate(s) merged, avg confidence %.2f\n",
		len(result.Contacts), meta.DuplicatesRemoved, meta.AverageConfidence)
	if runID != "" {
		fmt.Fprintf(w, "Archived as run %s\n", runID)
	}
	if hints := reportsToHints(result.Contacts); len(hints) > 0 {
		fmt.Fprintln(w)
		for _, h := range hints {
			fmt.Fprintln(w, h)
		}
	}
	return nil
}

func reportsToHints(contacts []extract.Contact) []string {
	var hints []string
	for _, c := range contacts {
		if c.ReportsTo != "" {
			hints = append(hints, fmt.Sprintf("%s reports to %s", c.Name, c.ReportsTo))
		}
	}
	return hints
}
