package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/crewcall/crewcall/internal/config"
)

func newConfigCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration and where each value came from",
		Long: `Show the effective configuration after merging the config file,
CREWCALL_* environment variables, and command-line flags. Each value is
annotated with the source that set it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(config.ResolveOptions{})
			if err != nil {
				return err
			}

			if output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Config file: %s\n\n", cfg.ConfigPath)
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SETTING\tVALUE\tSOURCE")
			rows := []struct {
				name string
				val  config.ResolvedValue
			}{
				{"db_path", cfg.DBPath},
				{"confidence_threshold", cfg.ConfidenceThreshold},
				{"min_quality_score", cfg.MinQualityScore},
				{"name_similarity", cfg.NameSimilarity},
				{"multi_pass", cfg.MultiPass},
				{"role_preferences", cfg.RolePreferences},
				{"document_type", cfg.DocumentType},
				{"production_type", cfg.ProductionType},
				{"log_level", cfg.LogLevel},
				{"log_format", cfg.LogFormat},
			}
			for _, r := range rows {
				val := r.val.Value
				if val == "" {
					val = "-"
				}
				src := string(r.val.Source)
				if r.val.From != "" {
					src = fmt.Sprintf("%s (%s)", src, r.val.From)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.name, val, src)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json")

	return cmd
}
