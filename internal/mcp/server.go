// Package mcp provides a Model Context Protocol server for crewcall.
//
// It exposes the extraction engine and the run archive as MCP tools
// (extract, runs, search, stats) and the most recent runs as an MCP
// resource, over stdio transport for agent hosts.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/crewcall/crewcall/internal/extract"
	"github.com/crewcall/crewcall/internal/store"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Engine  *extract.Engine
	Store   *store.Store // optional; archive tools are skipped when nil
	Options extract.Options
	Version string
}

// dbMu serializes tool calls that touch the database. The mcp-go
// library dispatches handlers concurrently via goroutines, and SQLite
// supports only one writer at a time; a global mutex keeps extractions
// archived before the runs tools can see them.
var dbMu sync.Mutex

// NewServer creates a configured MCP server with all crewcall tools and
// resources.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"crewcall",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	engine := cfg.Engine
	if engine == nil {
		engine = extract.NewEngine()
	}

	registerExtractTool(s, engine, cfg.Store, cfg.Options)
	if cfg.Store != nil {
		registerRunsTool(s, cfg.Store)
		registerSearchTool(s, cfg.Store)
		registerStatsTool(s, cfg.Store)
		registerRecentResource(s, cfg.Store)
	}

	return s
}

// --- Tools ---

func registerExtractTool(s *server.MCPServer, engine *extract.Engine, st *store.Store, defaults extract.Options) {
	tool := mcp.NewTool("crewcall_extract",
		mcp.WithDescription("Extract structured contact records (name, role, email, phone, company, department) from raw call sheet text. Handles tabular, slash-delimited, key-value, sectioned, and freeform layouts."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The raw call sheet text to extract contacts from"),
		),
		mcp.WithNumber("threshold",
			mcp.Description("Minimum confidence for returned contacts, 0..1 (default: 0.3)"),
		),
		mcp.WithBoolean("multi_pass",
			mcp.Description("Enable the linking pass that joins facts split across adjacent lines and attaches reports-to hints (default: false)"),
		),
		mcp.WithString("document_type",
			mcp.Description("Document context hint: call_sheet, crew_list, contact_page, or unknown"),
		),
		mcp.WithString("production_type",
			mcp.Description("Production context hint: editorial, commercial, film, or unknown"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Archive the run and its contacts in the local database (default: false)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}
		if strings.TrimSpace(text) == "" {
			return mcp.NewToolResultError("text cannot be empty"), nil
		}

		opts := defaults
		if thresholdVal, err := req.RequireFloat("threshold"); err == nil && thresholdVal > 0 {
			if thresholdVal > 1 {
				thresholdVal = 1
			}
			opts.ConfidenceThreshold = thresholdVal
		}
		if multi, err := req.RequireBool("multi_pass"); err == nil {
			opts.UseMultiPass = multi
		}
		if dt, err := req.RequireString("document_type"); err == nil && dt != "" {
			opts.DocumentType = extract.DocumentType(dt)
		}
		if pt, err := req.RequireString("production_type"); err == nil && pt != "" {
			opts.ProductionType = extract.ProductionType(pt)
		}

		result := engine.Extract(text, opts)

		payload := map[string]interface{}{
			"contacts": result.Contacts,
			"metadata": result.Metadata,
		}

		save := false
		if v, err := req.RequireBool("save"); err == nil {
			save = v
		}
		if save {
			if st == nil {
				return mcp.NewToolResultError("save requested but no database is configured"), nil
			}
			dbMu.Lock()
			runID, err := st.SaveRun(ctx, store.Run{
				SourceFile:        "mcp-extract",
				StructureType:     result.Metadata.StructureType,
				DocumentType:      string(opts.DocumentType),
				ProductionType:    string(opts.ProductionType),
				SectionsFound:     result.Metadata.SectionsFound,
				RawCandidates:     result.Metadata.TotalRawCandidates,
				DuplicatesRemoved: result.Metadata.DuplicatesRemoved,
				ContactCount:      len(result.Contacts),
				AverageConfidence: result.Metadata.AverageConfidence,
				Notes:             result.Metadata.Notes,
			}, result.Contacts)
			dbMu.Unlock()
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("archive error: %v", err)), nil
			}
			payload["run_id"] = runID
		}

		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerRunsTool(s *server.MCPServer, st *store.Store) {
	tool := mcp.NewTool("crewcall_runs",
		mcp.WithDescription("List archived extraction runs, or fetch one run with its full contact list by ID."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("id",
			mcp.Description("Run ID to fetch. Empty = list recent runs."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of runs to list (default: 20, max: 100)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		if id, err := req.RequireString("id"); err == nil && id != "" {
			run, err := st.GetRun(ctx, id)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("run lookup error: %v", err)), nil
			}
			if run == nil {
				return mcp.NewToolResultError(fmt.Sprintf("run %q not found", id)), nil
			}
			contacts, err := st.ContactsForRun(ctx, id)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("contacts lookup error: %v", err)), nil
			}
			payload := map[string]interface{}{"run": run, "contacts": contacts}
			data, _ := json.MarshalIndent(payload, "", "  ")
			return mcp.NewToolResultText(string(data)), nil
		}

		opts := store.ListOpts{Limit: 20}
		if limitVal, err := req.RequireFloat("limit"); err == nil {
			limit := int(limitVal)
			if limit > 100 {
				limit = 100
			}
			if limit > 0 {
				opts.Limit = limit
			}
		}

		runs, err := st.ListRuns(ctx, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("runs error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(runs, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerSearchTool(s *server.MCPServer, st *store.Store) {
	tool := mcp.NewTool("crewcall_search",
		mcp.WithDescription("Search archived contacts by name, email, role, or company (case-insensitive substring match). Returns the most recently extracted matches first."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query string"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of contacts to return (default: 20, max: 100)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		limit := 20
		if limitVal, err := req.RequireFloat("limit"); err == nil {
			if l := int(limitVal); l > 0 {
				limit = l
			}
			if limit > 100 {
				limit = 100
			}
		}

		contacts, err := st.SearchContacts(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search error: %v", err)), nil
		}
		if contacts == nil {
			contacts = []extract.Contact{}
		}

		data, _ := json.MarshalIndent(contacts, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerStatsTool(s *server.MCPServer, st *store.Store) {
	tool := mcp.NewTool("crewcall_stats",
		mcp.WithDescription("Get archive statistics: total runs, total contacts, and average contacts per run."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		stats, err := st.Stats(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("stats error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(stats, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

// --- Resources ---

func registerRecentResource(s *server.MCPServer, st *store.Store) {
	resource := mcp.NewResource(
		"crewcall://recent",
		"Recent Runs",
		mcp.WithResourceDescription("The 20 most recent extraction runs."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		runs, err := st.ListRuns(ctx, store.ListOpts{Limit: 20})
		if err != nil {
			return nil, fmt.Errorf("listing recent runs: %w", err)
		}

		type recentRun struct {
			ID            string  `json:"id"`
			Source        string  `json:"source"`
			Structure     string  `json:"structure"`
			Contacts      int     `json:"contacts"`
			AvgConfidence float64 `json:"avg_confidence"`
			CreatedAt     string  `json:"created_at"`
		}
		recent := make([]recentRun, 0, len(runs))
		for _, r := range runs {
			recent = append(recent, recentRun{
				ID:            r.ID,
				Source:        r.SourceFile,
				Structure:     r.StructureType,
				Contacts:      r.ContactCount,
				AvgConfidence: r.AverageConfidence,
				CreatedAt:     r.CreatedAt.Format(time.RFC3339),
			})
		}

		data, _ := json.MarshalIndent(recent, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
