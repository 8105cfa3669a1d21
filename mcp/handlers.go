package mcp

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ludo-technologies/libfinder/app"
	"github.com/ludo-technologies/libfinder/domain"
	"github.com/ludo-technologies/libfinder/service"
	"github.com/mark3labs/mcp-go/mcp"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies("")
	}
	return &HandlerSet{deps: deps}
}

// toolArgs wraps the raw argument map and records which arguments were
// supplied so they override configuration file values
type toolArgs struct {
	raw      map[string]interface{}
	explicit map[string]bool
}

func parseArgs(request mcp.CallToolRequest) (*toolArgs, bool) {
	raw, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, false
	}
	return &toolArgs{raw: raw, explicit: map[string]bool{}}, true
}

func (a *toolArgs) str(key string) (string, bool) {
	v, ok := a.raw[key].(string)
	return v, ok
}

func (a *toolArgs) float(key, flag string) (float64, bool) {
	v, ok := a.raw[key].(float64)
	if ok && flag != "" {
		a.explicit[flag] = true
	}
	return v, ok
}

func (a *toolArgs) boolean(key, flag string) (bool, bool) {
	v, ok := a.raw[key].(bool)
	if ok && flag != "" {
		a.explicit[flag] = true
	}
	return v, ok
}

// paths accepts a comma separated string or an array of strings
func (a *toolArgs) paths(key string) []string {
	var out []string
	switch v := a.raw[key].(type) {
	case string:
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func pathError(path string) *mcp.CallToolResult {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path))
	}
	return nil
}

// result encodes v in the format named by the "format" argument, JSON
// when absent
func (a *toolArgs) result(v interface{}) (*mcp.CallToolResult, error) {
	format, _ := a.str("format")
	var (
		text string
		err  error
	)
	switch domain.OutputFormat(strings.ToLower(format)) {
	case "", domain.OutputFormatJSON:
		text, err = service.EncodeJSON(v)
	case domain.OutputFormatYAML:
		text, err = service.EncodeYAML(v)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format: %s (use json or yaml)", format)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// baseRequest starts from the defaults; config file values are merged in
// by the use case and explicit arguments win over both
func (h *HandlerSet) baseRequest(paths []string) domain.MatchRequest {
	req := *domain.DefaultMatchRequest()
	req.Paths = paths
	req.ConfigPath = h.deps.ConfigPath()
	req.OutputFormat = domain.OutputFormatJSON
	return req
}

// HandleMatchFunctions handles the match_functions tool
func (h *HandlerSet) HandleMatchFunctions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, cancel := h.deps.callContext(ctx)
	defer cancel()

	args, ok := parseArgs(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args.str("path")
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	if res := pathError(path); res != nil {
		return res, nil
	}

	candidates := args.paths("candidates")
	if len(candidates) == 0 {
		return mcp.NewToolResultError("candidates parameter is required"), nil
	}
	for _, c := range candidates {
		if res := pathError(c); res != nil {
			return res, nil
		}
	}
	args.explicit[service.FlagCandidates] = true

	req := h.baseRequest([]string{path})
	req.CandidatePaths = candidates
	if v, ok := args.float("alias_threshold", service.FlagAliasThreshold); ok {
		req.AliasThreshold = v
	}
	if v, ok := args.str("alias_scope"); ok {
		req.AliasScope = domain.AliasScope(v)
		args.explicit[service.FlagAliasScope] = true
	}
	if v, ok := args.boolean("check_calls", service.FlagCheckCalls); ok {
		req.CheckCalls = v
	}
	if v, ok := args.boolean("show_unmatched", service.FlagShowUnmatched); ok {
		req.ShowUnmatched = v
	}
	if v, ok := args.boolean("recursive", service.FlagRecursive); ok {
		req.Recursive = v
	}
	maxResults := 0
	if v, ok := args.float("max_results", ""); ok {
		maxResults = int(v)
	}

	uc, err := h.deps.BuildMatchUseCase(args.explicit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create matcher: %v", err)), nil
	}

	result, err := uc.MatchAndReturn(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("matching failed: %v", err)), nil
	}

	return args.result(formatMatchSummary(result, maxResults))
}

// HandleCompareFunctions handles the compare_functions tool
func (h *HandlerSet) HandleCompareFunctions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, cancel := h.deps.callContext(ctx)
	defer cancel()

	args, ok := parseArgs(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	refCode, _ := args.str("reference_code")
	candCode, _ := args.str("candidate_code")
	refPath, _ := args.str("reference_path")
	candPath, _ := args.str("candidate_path")
	refName, _ := args.str("reference_name")
	candName, _ := args.str("candidate_name")

	if refCode == "" && refPath == "" {
		return mcp.NewToolResultError("reference_path or reference_code is required"), nil
	}
	if candCode == "" && candPath == "" {
		return mcp.NewToolResultError("candidate_path or candidate_code is required"), nil
	}

	req := h.baseRequest(nil)
	if v, ok := args.boolean("check_calls", service.FlagCheckCalls); ok {
		req.CheckCalls = v
	}

	// Inline code skips file loading entirely
	if refCode != "" && candCode != "" {
		reference := domain.Function{Name: nameOr(refName, "reference"), Text: refCode}
		candidate := domain.Function{Name: nameOr(candName, "candidate"), Text: candCode}
		report, err := service.NewMatchService(nil, nil).Compare(ctx, reference, candidate, req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
		}
		return args.result(report)
	}
	if refCode != "" || candCode != "" {
		return mcp.NewToolResultError("reference_code and candidate_code must be given together"), nil
	}

	for _, p := range []string{refPath, candPath} {
		if res := pathError(p); res != nil {
			return res, nil
		}
	}

	uc, err := h.deps.BuildMatchUseCase(args.explicit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create matcher: %v", err)), nil
	}

	req.Paths = []string{refPath}
	report, err := uc.CompareAndReturn(ctx, app.CompareRequest{
		ReferencePath: refPath,
		ReferenceName: refName,
		CandidatePath: candPath,
		CandidateName: candName,
		Match:         req,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return args.result(report)
}

// HandleExtractFunctions handles the extract_functions tool
func (h *HandlerSet) HandleExtractFunctions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, cancel := h.deps.callContext(ctx)
	defer cancel()

	args, ok := parseArgs(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args.str("path")
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	if res := pathError(path); res != nil {
		return res, nil
	}

	req := h.baseRequest([]string{path})
	if v, ok := args.boolean("recursive", service.FlagRecursive); ok {
		req.Recursive = v
	}

	uc, err := h.deps.BuildMatchUseCase(args.explicit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create extractor: %v", err)), nil
	}

	result, err := uc.ExtractAndReturn(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("extraction failed: %v", err)), nil
	}
	return args.result(result)
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// formatMatchSummary flattens a match response for tool output
func formatMatchSummary(result *domain.MatchResponse, maxResults int) map[string]interface{} {
	type Match struct {
		Reference string   `json:"reference" yaml:"reference"`
		Origin    string   `json:"origin" yaml:"origin"`
		Best      string   `json:"best,omitempty" yaml:"best,omitempty"`
		BestFrom  string   `json:"best_origin,omitempty" yaml:"best_origin,omitempty"`
		Score     float64  `json:"score" yaml:"score"`
		Aliases   []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	}

	matches := []Match{}
	for _, m := range result.Matches {
		if maxResults > 0 && len(matches) >= maxResults {
			break
		}
		entry := Match{
			Reference: m.Reference,
			Origin:    m.ReferenceOrigin,
			Aliases:   m.AliasNames(),
		}
		if m.Best != nil {
			entry.Best = m.Best.Name
			entry.BestFrom = m.Best.Origin
			entry.Score = m.Best.Score
		}
		matches = append(matches, entry)
	}

	summary := map[string]interface{}{}
	if s := result.Statistics; s != nil {
		summary = map[string]interface{}{
			"files_analyzed":      s.FilesAnalyzed,
			"references_analyzed": s.ReferencesAnalyzed,
			"references_matched":  s.ReferencesMatched,
			"candidates_loaded":   s.CandidatesLoaded,
			"match_rate":          s.MatchRate(),
			"average_score":       s.AverageScore,
			"total_aliases":       s.TotalAliases,
		}
	}

	out := map[string]interface{}{
		"matches": matches,
		"summary": summary,
	}
	if len(result.Warnings) > 0 {
		out["warnings"] = result.Warnings
	}
	return out
}
