package main

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/crewcall/crewcall/internal/config"
	"github.com/crewcall/crewcall/internal/extract"
	"github.com/crewcall/crewcall/internal/mcp"
)

func newServeCommand() *cobra.Command {
	var noArchive bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction engine over MCP (stdio)",
		Long: `Serve crewcall as a Model Context Protocol server on stdio, for agent
hosts like Claude Desktop. Exposes the crewcall_extract, crewcall_runs,
crewcall_search, and crewcall_stats tools plus a recent-runs resource.

Example host configuration:
  {"command": "crewcall", "args": ["serve"]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(config.ResolveOptions{})
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			serverCfg := mcp.ServerConfig{
				Engine:  extract.NewEngine(extract.WithLogger(logger)),
				Options: engineOptions(cfg),
				Version: version,
			}
			if !noArchive {
				st, err := openStore(cfg)
				if err != nil {
					return fmt.Errorf("opening archive: %w", err)
				}
				defer func() { _ = st.Close() }()
				serverCfg.Store = st
			}

			logger.Info().Str("version", version).Msg("starting MCP server on stdio")
			return server.ServeStdio(mcp.NewServer(serverCfg))
		},
	}

	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "serve without a database; archive tools are disabled")

	return cmd
}
