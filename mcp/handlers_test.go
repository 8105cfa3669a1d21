package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ludo-technologies/libfinder/domain"
	"github.com/ludo-technologies/libfinder/mcp"
	"github.com/ludo-technologies/libfinder/service"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	addSource = "int add(int a, int b) {\n    return a + b;\n}\n"
	subSource = "int sub(int a, int b) {\n    if (a > b) {\n        return a - b;\n    }\n    return b - a;\n}\n"
)

type handlerFunc func(*mcp.HandlerSet, context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error)

type workspace struct {
	source string
	dump   string
}

func setupWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	ws := workspace{
		source: filepath.Join(dir, "src", "math.c"),
		dump:   filepath.Join(dir, "dump.json"),
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(ws.source), 0o755))
	require.NoError(t, os.WriteFile(ws.source, []byte(addSource+"\n"+subSource), 0o644))

	data, err := json.Marshal([]map[string]string{
		{"name": "FUN_00401000", "text": addSource},
		{"name": "FUN_00402000", "text": subSource},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(ws.dump, data, 0o644))
	return ws
}

func callTool(t *testing.T, arguments interface{}, fn handlerFunc, opts ...mcp.Option) *mcplib.CallToolResult {
	t.Helper()
	opts = append([]mcp.Option{mcp.WithFileReader(service.NewFileReader())}, opts...)
	h := mcp.NewHandlerSet(mcp.NewDependencies("", opts...))
	req := mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{
			Arguments: arguments,
		},
	}
	res, err := fn(h, context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcplib.CallToolResult) string {
	return mcplib.GetTextFromContent(res.Content[0])
}

func TestHandleMatchFunctions(t *testing.T) {
	ws := setupWorkspace(t)

	tests := map[string]struct {
		arguments    interface{}
		isError      bool
		expectPrefix string
		check        func(t *testing.T, text string)
	}{
		"invalid_arguments_format": {
			arguments:    "not-a-map",
			isError:      true,
			expectPrefix: "invalid arguments format",
		},
		"path_missing": {
			arguments:    map[string]interface{}{"candidates": ws.dump},
			isError:      true,
			expectPrefix: "path parameter is required",
		},
		"path_not_exist": {
			arguments:    map[string]interface{}{"path": "/non/existing/path", "candidates": ws.dump},
			isError:      true,
			expectPrefix: "path does not exist",
		},
		"candidates_missing": {
			arguments:    map[string]interface{}{"path": ws.source},
			isError:      true,
			expectPrefix: "candidates parameter is required",
		},
		"success": {
			arguments: map[string]interface{}{"path": ws.source, "candidates": ws.dump},
			check: func(t *testing.T, text string) {
				var result struct {
					Matches []struct {
						Reference string  `json:"reference"`
						Best      string  `json:"best"`
						Score     float64 `json:"score"`
					} `json:"matches"`
					Summary map[string]interface{} `json:"summary"`
				}
				require.NoError(t, json.Unmarshal([]byte(text), &result))
				require.Len(t, result.Matches, 2)
				best := map[string]string{}
				for _, m := range result.Matches {
					best[m.Reference] = m.Best
				}
				assert.Equal(t, map[string]string{"add": "FUN_00401000", "sub": "FUN_00402000"}, best)
				assert.EqualValues(t, 2, result.Summary["references_matched"])
			},
		},
		"candidates_array_and_max_results": {
			arguments: map[string]interface{}{
				"path":        ws.source,
				"candidates":  []interface{}{ws.dump},
				"max_results": float64(1),
				"check_calls": false,
			},
			check: func(t *testing.T, text string) {
				var result map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(text), &result))
				assert.Len(t, result["matches"], 1)
			},
		},
		"invalid_alias_scope": {
			arguments: map[string]interface{}{
				"path":        ws.source,
				"candidates":  ws.dump,
				"alias_scope": "nearby",
			},
			isError:      true,
			expectPrefix: "matching failed",
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			res := callTool(t, tc.arguments, (*mcp.HandlerSet).HandleMatchFunctions)
			assert.Equal(t, tc.isError, res.IsError, resultText(res))
			if tc.expectPrefix != "" {
				assert.True(t, strings.HasPrefix(resultText(res), tc.expectPrefix), resultText(res))
			}
			if tc.check != nil {
				tc.check(t, resultText(res))
			}
		})
	}
}

func TestHandleCompareFunctions(t *testing.T) {
	ws := setupWorkspace(t)

	t.Run("inline_code", func(t *testing.T) {
		res := callTool(t, map[string]interface{}{
			"reference_code": addSource,
			"candidate_code": addSource,
			"candidate_name": "copy",
		}, (*mcp.HandlerSet).HandleCompareFunctions)
		require.False(t, res.IsError, resultText(res))

		var report domain.ComparisonReport
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &report))
		assert.Equal(t, "reference", report.Reference)
		assert.Equal(t, "copy", report.Candidate)
		assert.InDelta(t, 2.0, report.Score, 1e-9)
		assert.True(t, report.Similar)
	})

	t.Run("files", func(t *testing.T) {
		res := callTool(t, map[string]interface{}{
			"reference_path": ws.source,
			"reference_name": "sub",
			"candidate_path": ws.dump,
			"candidate_name": "FUN_00402000",
		}, (*mcp.HandlerSet).HandleCompareFunctions)
		require.False(t, res.IsError, resultText(res))

		var report domain.ComparisonReport
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &report))
		assert.Equal(t, "sub", report.Reference)
		assert.Equal(t, "FUN_00402000", report.Candidate)
		assert.True(t, report.Preconditions)
	})

	t.Run("ambiguous_reference", func(t *testing.T) {
		res := callTool(t, map[string]interface{}{
			"reference_path": ws.source,
			"candidate_path": ws.dump,
			"candidate_name": "FUN_00402000",
		}, (*mcp.HandlerSet).HandleCompareFunctions)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "choose one of: add, sub")
	})

	t.Run("missing_sides", func(t *testing.T) {
		res := callTool(t, map[string]interface{}{"candidate_code": addSource}, (*mcp.HandlerSet).HandleCompareFunctions)
		assert.True(t, res.IsError)
		assert.Equal(t, "reference_path or reference_code is required", resultText(res))

		res = callTool(t, map[string]interface{}{"reference_code": addSource}, (*mcp.HandlerSet).HandleCompareFunctions)
		assert.True(t, res.IsError)
		assert.Equal(t, "candidate_path or candidate_code is required", resultText(res))
	})

	t.Run("mixed_inline_and_path", func(t *testing.T) {
		res := callTool(t, map[string]interface{}{
			"reference_code": addSource,
			"candidate_path": ws.dump,
		}, (*mcp.HandlerSet).HandleCompareFunctions)
		assert.True(t, res.IsError)
	})

	t.Run("malformed_inline", func(t *testing.T) {
		res := callTool(t, map[string]interface{}{
			"reference_code": "int add(int a, int b)",
			"candidate_code": addSource,
		}, (*mcp.HandlerSet).HandleCompareFunctions)
		assert.True(t, res.IsError)
		assert.True(t, strings.HasPrefix(resultText(res), "comparison failed"))
	})

	t.Run("path_not_exist", func(t *testing.T) {
		res := callTool(t, map[string]interface{}{
			"reference_path": "/non/existing/file.c",
			"candidate_path": ws.dump,
		}, (*mcp.HandlerSet).HandleCompareFunctions)
		assert.True(t, res.IsError)
		assert.True(t, strings.HasPrefix(resultText(res), "path does not exist"))
	})
}

func TestHandleExtractFunctions(t *testing.T) {
	ws := setupWorkspace(t)

	res := callTool(t, map[string]interface{}{"path": filepath.Dir(ws.source)}, (*mcp.HandlerSet).HandleExtractFunctions)
	require.False(t, res.IsError, resultText(res))

	var resp domain.ExtractionResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &resp))
	require.Len(t, resp.Functions, 2)
	assert.Equal(t, "add", resp.Functions[0].Name)
	assert.Equal(t, "sub", resp.Functions[1].Name)
	assert.Contains(t, resp.Functions[1].Tokens, "if")

	res = callTool(t, map[string]interface{}{"path": "/non/existing/path"}, (*mcp.HandlerSet).HandleExtractFunctions)
	assert.True(t, res.IsError)

	res = callTool(t, 42, (*mcp.HandlerSet).HandleExtractFunctions)
	assert.True(t, res.IsError)
	assert.Equal(t, "invalid arguments format", resultText(res))
}

func TestHandleTools_ResultFormat(t *testing.T) {
	ws := setupWorkspace(t)

	res := callTool(t,
		map[string]interface{}{"path": filepath.Dir(ws.source), "format": "yaml"},
		(*mcp.HandlerSet).HandleExtractFunctions)
	require.False(t, res.IsError, resultText(res))
	var resp domain.ExtractionResponse
	require.NoError(t, yaml.Unmarshal([]byte(resultText(res)), &resp))
	require.Len(t, resp.Functions, 2)
	assert.Equal(t, "add", resp.Functions[0].Name)

	res = callTool(t,
		map[string]interface{}{"path": ws.source, "candidates": ws.dump, "format": "YAML"},
		(*mcp.HandlerSet).HandleMatchFunctions)
	require.False(t, res.IsError, resultText(res))
	var summary map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(resultText(res)), &summary))
	assert.Contains(t, summary, "matches")

	res = callTool(t,
		map[string]interface{}{"path": filepath.Dir(ws.source), "format": "csv"},
		(*mcp.HandlerSet).HandleExtractFunctions)
	assert.True(t, res.IsError)
	assert.True(t, strings.HasPrefix(resultText(res), "unsupported format: csv"))
}

func TestHandleMatchFunctions_CallTimeout(t *testing.T) {
	ws := setupWorkspace(t)
	res := callTool(t,
		map[string]interface{}{"path": ws.source, "candidates": ws.dump},
		(*mcp.HandlerSet).HandleMatchFunctions,
		mcp.WithCallTimeout(time.Nanosecond),
	)
	assert.True(t, res.IsError)
	assert.True(t, strings.HasPrefix(resultText(res), "matching failed"))
}

func TestRegisterTools(t *testing.T) {
	s := server.NewMCPServer("libfinder", "test", server.WithToolCapabilities(true))
	var tools []server.ServerTool
	assert.NotPanics(t, func() { tools = mcp.RegisterTools(s, nil) })

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Tool.Name)
		assert.NotEmpty(t, tool.Tool.Description)
		assert.NotNil(t, tool.Handler)
	}
	assert.Equal(t, []string{"match_functions", "compare_functions", "extract_functions"}, names)
}
