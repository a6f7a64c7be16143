package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"baseline/internal/report"
)

const testConfig = `
[baseline]
extends = ["ai-safety"]

[[rule]]
id = "no-eval"
type = "banned-pattern"
severity = "error"
pattern = "eval("
glob = "**/*.{ts,tsx}"
message = "Avoid eval"
`

func newHandlers(t *testing.T, cfg string) (*handlers, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "baseline.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return &handlers{opts: Options{ConfigPath: path, Version: "test"}}, dir
}

func call(args map[string]any) mcplib.CallToolRequest {
	var req mcplib.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

func TestServerHasTools(t *testing.T) {
	s := New(Options{ConfigPath: "baseline.toml", Version: "test"})
	require.NotNil(t, s)

	tools := s.ListTools()
	for _, name := range []string{"baseline_scan", "baseline_list_rules"} {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}
	assert.Len(t, tools, 2)
}

func TestScan_Content(t *testing.T) {
	h, _ := newHandlers(t, testConfig)

	res, err := h.scan(context.Background(), call(map[string]any{
		"content":  "const x = eval(input)\n",
		"filename": "src/a.ts",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	var doc report.JSONReport
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &doc))
	require.Len(t, doc.Violations, 1)
	assert.Equal(t, "no-eval", doc.Violations[0].RuleID)
	assert.Equal(t, 11, doc.Violations[0].Column)
}

func TestScan_Paths(t *testing.T) {
	h, dir := newHandlers(t, testConfig)
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.tsx"), []byte("eval(1)\neval(2)\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b.css"), []byte("eval(3)\n"), 0o644))

	res, err := h.scan(context.Background(), call(map[string]any{"paths": []any{src}}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	var doc report.JSONReport
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &doc))
	assert.Len(t, doc.Violations, 2)
	assert.Equal(t, 1, doc.Summary.FilesScanned)
}

func TestScan_BadConfig(t *testing.T) {
	h := &handlers{opts: Options{ConfigPath: filepath.Join(t.TempDir(), "missing.toml")}}
	res, err := h.scan(context.Background(), call(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "config file not found")
}

func TestListRules(t *testing.T) {
	h, _ := newHandlers(t, testConfig)

	res, err := h.listRules(context.Background(), call(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var doc struct {
		Rules []ruleSummary `json:"rules"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &doc))
	require.Len(t, doc.Rules, 4)
	assert.Equal(t, "no-moment", doc.Rules[0].ID)
	assert.Equal(t, ruleSummary{ID: "no-eval", Type: "banned-pattern", Severity: "error", Glob: "**/*.{ts,tsx}", Message: "Avoid eval"}, doc.Rules[3])
}

func TestListRules_UnknownPreset(t *testing.T) {
	h, _ := newHandlers(t, "[baseline]\nextends = [\"nope\"]\n")
	res, err := h.listRules(context.Background(), call(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "unknown preset 'nope'")
}

func TestPresetsResource(t *testing.T) {
	h := &handlers{}
	contents, err := h.presets(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	trc, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	var catalog map[string][]string
	require.NoError(t, json.Unmarshal([]byte(trc.Text), &catalog))
	assert.Contains(t, catalog["ai-safety"], "no-lodash")
	assert.Len(t, catalog["security"], 10)
}
