package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/factorscope/factorscope/core"
	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/internal/modelio"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers. The loader is
// nil when no model path is configured; risk tools report that instead of
// failing the whole server.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	loader  *modelio.Loader
}

// applyScope copies the common scoping arguments onto a cloned config.
// Invalid timestamps fail here so the analysis never runs on a half-applied range.
func (h *toolHandler) applyScope(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if m := request.GetString("machine", ""); m != "" {
		cfg.MachineID = m
	}
	if l := request.GetString("line", ""); l != "" {
		cfg.Line = l
	}
	if e := request.GetString("end", ""); e != "" {
		t, err := time.Parse(contract.DateTimeFormat, e)
		if err != nil {
			return nil, fmt.Errorf("invalid end %q: %w", e, err)
		}
		cfg.EndTime = t
		cfg.StartTime = t.AddDate(0, 0, -contract.DefaultLookbackDays)
	}
	if s := request.GetString("start", ""); s != "" {
		t, err := time.Parse(contract.DateTimeFormat, s)
		if err != nil {
			return nil, fmt.Errorf("invalid start %q: %w", s, err)
		}
		cfg.StartTime = t
	}
	if !cfg.StartTime.Before(cfg.EndTime) {
		return nil, fmt.Errorf("start %s must be before end %s",
			cfg.StartTime.Format(contract.DateTimeFormat), cfg.EndTime.Format(contract.DateTimeFormat))
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	return cfg, nil
}

func (h *toolHandler) handleGetOEE(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyScope(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	rows, err := core.GetOEEResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(core.LimitKPIRows(rows, cfg.ResultLimit), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetDowntimePareto(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyScope(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	buckets, err := core.GetParetoResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(core.LimitBuckets(buckets, cfg.ResultLimit), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetEnergy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyScope(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	rows, err := core.GetEnergyResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(core.LimitEnergyRows(rows, cfg.ResultLimit), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetMachineRisk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.loader == nil {
		return mcp.NewToolResultError("no model configured: start the server with --model-path"), nil
	}
	cfg, err := h.applyScope(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	scores, err := core.GetRiskResultsWithClassifier(core.WithSuppressHeader(ctx), cfg, h.mgr, h.loader.Classifier())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("risk scoring failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(core.LimitScores(scores, cfg.ResultLimit), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleReloadModel(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.loader == nil {
		return mcp.NewToolResultError("no model configured: start the server with --model-path"), nil
	}
	if err := h.loader.Reload(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("model reload failed, previous model stays active: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("model reloaded, now serving version %s", h.loader.Classifier().Version())), nil
}
