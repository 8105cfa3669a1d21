package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools adds every libfinder tool to s and returns them. A nil
// handler set uses default dependencies.
func RegisterTools(s *server.MCPServer, h *HandlerSet) []server.ServerTool {
	tools := Tools(h)
	s.AddTools(tools...)
	return tools
}

// Tools binds the tool definitions to h.
func Tools(h *HandlerSet) []server.ServerTool {
	if h == nil {
		h = NewHandlerSet(nil)
	}
	return []server.ServerTool{
		{Tool: matchTool(), Handler: h.HandleMatchFunctions},
		{Tool: compareTool(), Handler: h.HandleCompareFunctions},
		{Tool: extractTool(), Handler: h.HandleExtractFunctions},
	}
}

func matchTool() mcp.Tool {
	return mcp.NewTool("match_functions",
		mcp.WithDescription("Match the functions of C source files against decompiled candidate functions and report the best match and aliases for each"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the reference source code (file or directory)")),
		mcp.WithString("candidates",
			mcp.Required(),
			mcp.Description("Decompiler export file, JSON/YAML function dump or directory; separate several paths with commas")),
		mcp.WithNumber("alias_threshold",
			mcp.Description("Maximum score distance from the best match for a candidate to count as an alias (default: 0.75)")),
		mcp.WithString("alias_scope",
			mcp.Description("Which candidates may become aliases: all, similar (default: all)")),
		mcp.WithBoolean("check_calls",
			mcp.Description("Require matching call sequences when filtering candidates (default: true)")),
		mcp.WithBoolean("show_unmatched",
			mcp.Description("Include reference functions without any match (default: false)")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively scan directories (default: true)")),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of matches to return, 0 = no limit (default: 0)")),
		mcp.WithString("format",
			mcp.Description("Result encoding: json or yaml (default: json)")),
	)
}

func compareTool() mcp.Tool {
	return mcp.NewTool("compare_functions",
		mcp.WithDescription("Compare one reference function with one candidate function and report cosine, sequence ratio and heuristic verdicts"),
		mcp.WithString("reference_path",
			mcp.Description("File holding the reference function")),
		mcp.WithString("reference_name",
			mcp.Description("Name of the reference function (optional when the file holds one function)")),
		mcp.WithString("candidate_path",
			mcp.Description("File holding the candidate function")),
		mcp.WithString("candidate_name",
			mcp.Description("Name of the candidate function (optional when the file holds one function)")),
		mcp.WithString("reference_code",
			mcp.Description("Inline reference function text, used instead of reference_path")),
		mcp.WithString("candidate_code",
			mcp.Description("Inline candidate function text, used instead of candidate_path")),
		mcp.WithBoolean("check_calls",
			mcp.Description("Include the call sequence check in the similarity verdict (default: true)")),
		mcp.WithString("format",
			mcp.Description("Result encoding: json or yaml (default: json)")),
	)
}

func extractTool() mcp.Tool {
	return mcp.NewTool("extract_functions",
		mcp.WithDescription("List the functions found in C source files with their parameter profiles and structural tokens"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the source code (file or directory)")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively scan directories (default: true)")),
		mcp.WithString("format",
			mcp.Description("Result encoding: json or yaml (default: json)")),
	)
}
