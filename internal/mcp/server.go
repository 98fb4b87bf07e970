// Package mcp exposes message normalization as Model Context Protocol tools
// over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/lifebox/lifebox-cli/internal/analyze"
	"github.com/lifebox/lifebox-cli/internal/model"
)

// Tool names.
const (
	ToolNormalize = "lifebox_normalize"
	ToolAnalyze   = "lifebox_analyze"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Service *analyze.Service
	Version string
}

// NewServer creates an MCP server with the normalize and analyze tools.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}
	svc := cfg.Service
	if svc == nil {
		svc = analyze.NewService(nil, nil)
	}

	s := server.NewMCPServer(
		"lifebox",
		ver,
		server.WithToolCapabilities(false),
	)

	registerNormalizeTool(s, svc)
	registerAnalyzeTool(s, svc)

	return s
}

// ServeStdio blocks serving s on stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func registerNormalizeTool(s *server.MCPServer, svc *analyze.Service) {
	tool := mcp.NewTool(ToolNormalize,
		mcp.WithDescription("Normalize a message and an optional model draft into one task record (title, due date, amount, phones, urls, risk, suggested actions). Makes no model call."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Raw message text (email, SMS, notification, OCR or ASR output)"),
		),
		mcp.WithString("model_output",
			mcp.Description("Raw model output to merge; may contain prose or code fences around the JSON object"),
		),
		mcp.WithString("source_hint",
			mcp.Description("Where the message came from (e.g. 'line', 'gmail')"),
		),
		mcp.WithString("locale",
			mcp.Description("Message locale, informational only"),
		),
	)

	s.AddTool(tool, func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		rec := svc.Normalize(analyze.NormalizeRequest{
			Text:        text,
			ModelOutput: req.GetString("model_output", ""),
			SourceHint:  req.GetString("source_hint", ""),
			Locale:      req.GetString("locale", ""),
		})
		return recordResult(rec)
	})
}

func registerAnalyzeTool(s *server.MCPServer, svc *analyze.Service) {
	tool := mcp.NewTool(ToolAnalyze,
		mcp.WithDescription("Draft a task record with the configured language model, then normalize it against the message text. Falls back to rule-based extraction when the model is unavailable."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Raw message text"),
		),
		mcp.WithString("source_hint",
			mcp.Description("Where the message came from"),
		),
		mcp.WithString("locale",
			mcp.Description("Message locale (default: ja-JP)"),
		),
		mcp.WithString("now",
			mcp.Description("Current time passed to the model as context (default: server clock)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		rec, err := svc.Analyze(ctx, analyze.Request{
			Text:       text,
			SourceHint: req.GetString("source_hint", ""),
			Locale:     req.GetString("locale", ""),
			Now:        req.GetString("now", ""),
		})
		if err != nil {
			if errors.Is(err, analyze.ErrInvalidRequest) {
				return mcp.NewToolResultError(strings.TrimSpace(err.Error())), nil
			}
			zap.L().Error("mcp: analyze failed", zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("analyze error: %v", err)), nil
		}
		return recordResult(rec)
	})
}

func recordResult(rec model.TaskRecord) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode record: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
