package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Tjoosten/ApiGen/pkg/templating"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve reference resolution as an MCP tool on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout exposing the
resolve_reference tool, which resolves a doc comment reference against the
catalog and returns the target's URL and link.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	config, logger, err := setup()
	if err != nil {
		return err
	}
	tm, err := newTemplateManager(cmd.Context(), config, logger)
	if err != nil {
		return err
	}

	logger.Info("MCP server starting on stdio")
	if err = server.ServeStdio(newMCPServer(tm, logger)); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}

// newMCPServer creates the MCP server and registers its tools.
func newMCPServer(tm *templating.TemplateManager, logger *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"apigen",
		Version,
		server.WithToolCapabilities(false),
	)

	resolveTool := mcp.NewTool("resolve_reference",
		mcp.WithDescription("Resolve a documentation reference such as \"Foo::bar()\", \"$prop\" or \"Baz\" as written in the doc comment of a catalog element, and return the documentation URL and HTML link of its target."),
		mcp.WithString("reference",
			mcp.Required(),
			mcp.Description("The reference text, e.g. \"Bar::baz()\""),
		),
		mcp.WithString("context",
			mcp.Required(),
			mcp.Description("Catalog path of the element whose doc comment contains the reference, e.g. \"Foo\\Bar\" or \"Foo\\Bar::baz()\""),
		),
	)

	h := &resolveHandler{tm: tm, logger: logger}
	s.AddTool(resolveTool, h.Handle)
	return s
}

type resolveHandler struct {
	tm     *templating.TemplateManager
	logger *slog.Logger
}

// Handle answers a resolve_reference call with a JSON encoded Resolution.
func (h *resolveHandler) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reference, err := req.RequireString("reference")
	if err != nil {
		return mcp.NewToolResultError("reference is required"), nil
	}
	contextPath, err := req.RequireString("context")
	if err != nil {
		return mcp.NewToolResultError("context is required"), nil
	}

	result, err := resolveReference(h.tm, reference, contextPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	h.logger.DebugContext(ctx, "Reference resolved via MCP", "reference", reference, "context", contextPath, "resolved", result.Resolved)

	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode resolution: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
