// Package mcpserver exposes scanning and rule listing as MCP tools.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"baseline/internal/config"
	"baseline/internal/engine"
	"baseline/internal/report"
	"baseline/internal/slogutil"
)

// DefaultFilename is the virtual file name used for inline content.
const DefaultFilename = "stdin.tsx"

// Options configures the server.
type Options struct {
	// ConfigPath is the rule file every tool call reads.
	ConfigPath string
	Version    string
	Workers    int
	Logger     *slog.Logger
}

type handlers struct {
	opts   Options
	logger *slog.Logger
}

// New creates an MCP server with the baseline tools and resources registered.
func New(opts Options) *server.MCPServer {
	s := server.NewMCPServer(
		"baseline",
		opts.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)
	h := &handlers{opts: opts, logger: slogutil.OrDiscard(opts.Logger)}

	s.AddTool(
		mcplib.NewTool("baseline_scan",
			mcplib.WithDescription("Scan files for rule violations. Returns structured violations with fix suggestions."),
			mcplib.WithArray("paths",
				mcplib.Description("File or directory paths to scan (default: current directory)"),
				mcplib.WithStringItems(),
			),
			mcplib.WithString("content", mcplib.Description("Inline file content to scan (alternative to paths)")),
			mcplib.WithString("filename", mcplib.Description("Virtual filename for glob matching when using content")),
		),
		h.scan,
	)
	s.AddTool(
		mcplib.NewTool("baseline_list_rules",
			mcplib.WithDescription("List all configured rules after presets and plugins are resolved."),
		),
		h.listRules,
	)
	s.AddResource(
		mcplib.NewResource(
			"baseline://presets",
			"Presets",
			mcplib.WithResourceDescription("Built-in rule presets available to extends"),
			mcplib.WithMIMEType("application/json"),
		),
		h.presets,
	)
	return s
}

// ServeIO runs the server over the given streams until in closes or ctx is done.
func ServeIO(ctx context.Context, opts Options, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(New(opts)).Listen(ctx, in, out)
}

func (h *handlers) load() (*config.File, error) {
	f, err := config.Load(h.opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (h *handlers) scan(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	f, err := h.load()
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}
	specs, err := f.Specs()
	if err != nil {
		return errorResult(fmt.Sprintf("Error resolving rules: %v", err)), nil
	}
	eng, err := engine.New(engine.Options{Workers: h.opts.Workers, Exclude: f.Baseline.Exclude, Logger: h.logger})
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}

	var res *engine.Result
	if content := request.GetString("content", ""); content != "" {
		res, err = eng.ScanSource(ctx, specs, request.GetString("filename", DefaultFilename), content)
	} else {
		paths := request.GetStringSlice("paths", nil)
		if len(paths) == 0 {
			paths = []string{"."}
		}
		res, err = eng.Scan(ctx, specs, paths)
	}
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, io.Discard, res, report.FormatJSON, report.Options{Version: h.opts.Version}); err != nil {
		return nil, err
	}
	return textResult(buf.String()), nil
}

type ruleSummary struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Glob     string `json:"glob,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (h *handlers) listRules(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	f, err := h.load()
	if err != nil {
		return errorResult(fmt.Sprintf("Error reading config: %v", err)), nil
	}
	entries, err := f.Resolve()
	if err != nil {
		return errorResult(fmt.Sprintf("Error resolving rules: %v", err)), nil
	}
	out := make([]ruleSummary, 0, len(entries))
	for _, e := range entries {
		sev := e.Severity
		if sev == "" {
			sev = "warning"
		}
		out = append(out, ruleSummary{ID: e.ID, Type: e.Type, Severity: sev, Glob: e.Glob, Message: e.Message})
	}
	return jsonResult(map[string]any{"rules": out})
}

func (h *handlers) presets(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	catalog := make(map[string][]string)
	for _, name := range config.AvailablePresets() {
		entries, err := config.PresetRules(name)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
		catalog[name] = ids
	}
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling presets: %w", err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      "baseline://presets",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// jsonResult marshals v and returns it as text content.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return textResult(string(data)), nil
}

func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
