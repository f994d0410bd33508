// Package main provides the crewcall CLI entry point.
// crewcall extracts structured contact records from messy production
// call sheets and keeps an archive of past extraction runs.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/crewcall/crewcall/internal/config"
	"github.com/crewcall/crewcall/internal/extract"
	"github.com/crewcall/crewcall/internal/logging"
	"github.com/crewcall/crewcall/internal/store"
)

const version = "0.2.0"

// Global flags shared by every subcommand.
var (
	cfgFile  string
	dbPath   string
	logLevel string
	jsonLogs bool
)

var rootCmd = &cobra.Command{
	Use:   "crewcall",
	Short: "Extract contact records from production call sheets",
	Long: `crewcall pulls structured contacts (name, role, email, phone, company,
department) out of messy call sheet text: tab or pipe tables, slash-delimited
rosters, key-value blocks, sectioned sheets, and freeform notes.

COMMON WORKFLOWS:
  Extract a sheet:      crewcall extract callsheet.txt
  Archive the run:      crewcall extract callsheet.txt --save
  Review past runs:     crewcall runs
  Export to Excel:      crewcall export <run-id> --format xlsx -o contacts.xlsx
  Serve over MCP:       crewcall serve

Configuration is read from ~/.crewcall/config.yaml, then CREWCALL_* environment
variables, then flags (later sources win).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.crewcall/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default ~/.crewcall/crewcall.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error, quiet")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit logs as JSON instead of console format")

	rootCmd.AddCommand(newExtractCommand())
	rootCmd.AddCommand(newRunsCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the crewcall version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("crewcall %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveConfig merges config file, environment, and the global flags.
func resolveConfig(extra config.ResolveOptions) (config.ResolvedConfig, error) {
	extra.ConfigPath = cfgFile
	if extra.CLIDBPath == "" {
		extra.CLIDBPath = dbPath
	}
	if extra.CLILogLevel == "" {
		extra.CLILogLevel = logLevel
	}
	return config.ResolveConfig(extra)
}

func newLogger(cfg config.ResolvedConfig) zerolog.Logger {
	return logging.New(logging.Config{
		Level: cfg.LogLevel.Value,
		JSON:  jsonLogs || cfg.LogFormat.Value == "json",
	})
}

// openStore opens the archive database at the resolved path.
func openStore(cfg config.ResolvedConfig) (*store.Store, error) {
	path := cfg.DBPath.Value
	if path == "" {
		path = config.DefaultDBPath()
	}
	return store.Open(store.Config{DBPath: path})
}

// engineOptions translates resolved configuration into engine tunables.
func engineOptions(cfg config.ResolvedConfig) extract.Options {
	opts := extract.DefaultOptions()
	opts.ConfidenceThreshold = cfg.ConfidenceThreshold.Float(opts.ConfidenceThreshold)
	opts.MinQualityScore = cfg.MinQualityScore.Float(opts.MinQualityScore)
	opts.NameSimilarity = cfg.NameSimilarity.Float(opts.NameSimilarity)
	opts.UseMultiPass = cfg.MultiPass.Bool(opts.UseMultiPass)
	opts.RolePreferences = cfg.RolePreferences.List()
	if v := cfg.DocumentType.Value; v != "" {
		opts.DocumentType = extract.DocumentType(v)
	}
	if v := cfg.ProductionType.Value; v != "" {
		opts.ProductionType = extract.ProductionType(v)
	}
	return opts
}
