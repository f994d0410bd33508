package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/crewcall/crewcall/internal/config"
	"github.com/crewcall/crewcall/internal/store"
)

func newRunsCommand() *cobra.Command {
	var (
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List archived extraction runs or show one run",
		Long: `List archived extraction runs, newest first. Pass a run ID to show
that run with its full contact list.

Examples:
  crewcall runs
  crewcall runs --limit 5
  crewcall runs 7c2f... -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(config.ResolveOptions{})
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("opening archive: %w", err)
			}
			defer func() { _ = st.Close() }()

			if len(args) == 1 {
				return showRun(cmd, st, args[0], output)
			}

			runs, err := st.ListRuns(cmd.Context(), store.ListOpts{Limit: limit})
			if err != nil {
				return err
			}
			if output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}
			return printRunsTable(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json")

	cmd.AddCommand(newRunsDeleteCommand())
	cmd.AddCommand(newRunsSearchCommand())
	cmd.AddCommand(newRunsStatsCommand())

	return cmd
}

func showRun(cmd *cobra.Command, st *store.Store, id, output string) error {
	run, err := st.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %q not found", id)
	}
	contacts, err := st.ContactsForRun(cmd.Context(), id)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{"run": run, "contacts": contacts})
	}

	fmt.Fprintf(w, "Run %s\n", run.ID)
	fmt.Fprintf(w, "  Source:     %s\n", run.SourceFile)
	fmt.Fprintf(w, "  Structure:  %s\n", run.StructureType)
	fmt.Fprintf(w, "  Contacts:   %d (%d duplicate(s) merged)\n", run.ContactCount, run.DuplicatesRemoved)
	fmt.Fprintf(w, "  Confidence: %.2f average\n", run.AverageConfidence)
	fmt.Fprintf(w, "  Created:    %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	for _, note := range run.Notes {
		fmt.Fprintf(w, "  Note:       %s\n", note)
	}

	if len(contacts) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tROLE\tDEPARTMENT\tEMAIL\tPHONE\tCONF")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\n", c.Name, c.Role, c.Department, c.Email, c.Phone, c.Confidence)
	}
	return tw.Flush()
}

func printRunsTable(w io.Writer, runs []*store.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No archived runs. Use 'crewcall extract --save' to archive one.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tSTRUCTURE\tCONTACTS\tAVG CONF\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\t%s\n",
			r.ID, r.SourceFile, r.StructureType, r.ContactCount, r.AverageConfidence,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func newRunsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete an archived run and its contacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(config.ResolveOptions{})
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("opening archive: %w", err)
			}
			defer func() { _ = st.Close() }()

			if err := st.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
			return nil
		},
	}
}

func newRunsSearchCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search archived contacts by name, email, role, or company",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(config.ResolveOptions{})
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("opening archive: %w", err)
			}
			defer func() { _ = st.Close() }()

			query := args[0]
			for _, a := range args[1:] {
				query += " " + a
			}
			contacts, err := st.SearchContacts(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(contacts) == 0 {
				fmt.Fprintln(w, "No matching contacts.")
				return nil
			}
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tROLE\tEMAIL\tPHONE\tCOMPANY")
			for _, c := range contacts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.Name, c.Role, c.Email, c.Phone, c.Company)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of contacts to return")
	return cmd
}

func newRunsStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show archive statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(config.ResolveOptions{})
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("opening archive: %w", err)
			}
			defer func() { _ = st.Close() }()

			stats, err := st.Stats(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Runs:     %d\n", stats.RunCount)
			fmt.Fprintf(w, "Contacts: %d\n", stats.ContactCount)
			fmt.Fprintf(w, "Average:  %.1f contacts per run\n", stats.AvgContacts)
			return nil
		},
	}
}
