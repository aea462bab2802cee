// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/internal/modelio"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Factorscope MCP server without starting it.
// This is exposed for unit testing.
//
// When a model path is configured the artifact is loaded once here and held
// for the life of the server; a bad artifact fails startup instead of the
// first risk call. The reload_model tool is the only way to pick up a newer
// artifact file.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) (*server.MCPServer, error) {
	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}
	if baseCfg.ModelPath != "" {
		loader, err := modelio.NewLoader(baseCfg.ModelPath)
		if err != nil {
			return nil, err
		}
		h.loader = loader
	}

	s := server.NewMCPServer(
		"Factorscope Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	// --- 1. Tool: get_oee ---
	s.AddTool(mcp.NewTool("get_oee",
		mcp.WithDescription("Compute daily OEE (availability, performance, quality) per machine over a time range."),
		mcp.WithString("machine", mcp.Description("Restrict to one machine ID.")),
		mcp.WithString("line", mcp.Description("Restrict to one production line.")),
		mcp.WithString("start", mcp.Description("Range start as RFC3339 (defaults to 30 days before end).")),
		mcp.WithString("end", mcp.Description("Range end as RFC3339 (defaults to now).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetOEE)

	// --- 2. Tool: get_downtime_pareto ---
	s.AddTool(mcp.NewTool("get_downtime_pareto",
		mcp.WithDescription("Rank downtime reasons by total duration with cumulative percentages."),
		mcp.WithString("machine", mcp.Description("Restrict to one machine ID.")),
		mcp.WithString("line", mcp.Description("Restrict to one production line.")),
		mcp.WithString("start", mcp.Description("Range start as RFC3339.")),
		mcp.WithString("end", mcp.Description("Range end as RFC3339.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results.")),
	), h.handleGetDowntimePareto)

	// --- 3. Tool: get_energy ---
	s.AddTool(mcp.NewTool("get_energy",
		mcp.WithDescription("Compute daily energy KPIs (kWh, peak kW, kWh per good unit) with peak spike alerts."),
		mcp.WithString("machine", mcp.Description("Restrict to one machine ID.")),
		mcp.WithString("line", mcp.Description("Restrict to one production line.")),
		mcp.WithString("start", mcp.Description("Range start as RFC3339.")),
		mcp.WithString("end", mcp.Description("Range end as RFC3339.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results.")),
	), h.handleGetEnergy)

	// --- 4. Tool: get_machine_risk ---
	s.AddTool(mcp.NewTool("get_machine_risk",
		mcp.WithDescription("Score machine failure risk with the configured model, ranked by probability."),
		mcp.WithString("machine", mcp.Description("Restrict to one machine ID.")),
		mcp.WithString("line", mcp.Description("Restrict to one production line.")),
		mcp.WithString("end", mcp.Description("As-of time as RFC3339 (defaults to now).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results.")),
	), h.handleGetMachineRisk)

	// --- 5. Tool: reload_model ---
	s.AddTool(mcp.NewTool("reload_model",
		mcp.WithDescription("Re-read the risk model artifact from disk. The previous model stays active if the new file is invalid."),
	), h.handleReloadModel)

	return s, nil
}

// StartMCPServer starts the Factorscope MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s, err := NewMCPServer(baseCfg, mgr)
	if err != nil {
		return err
	}
	return server.ServeStdio(s)
}
