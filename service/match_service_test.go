package service

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/libfinder/domain"
	"github.com/ludo-technologies/libfinder/internal/analyzer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	addText = "int add(int a,int b){ return a+b; }"
	sumText = "int sum(int* arr,int n){ int s=0; for(int i=0;i<n;i++){ s+=arr[i]; } return s; }"
)

func newTestMatchService() (*MatchServiceImpl, *bytes.Buffer) {
	svc := NewMatchService(NewFileReader(), nil)
	var warnings bytes.Buffer
	svc.SetWarningWriter(&warnings)
	return svc, &warnings
}

func TestMatchService_MatchFunctions(t *testing.T) {
	svc, warnings := newTestMatchService()

	refs := []domain.Function{
		{Name: "add", Text: addText, Origin: "math.c:1"},
		{Name: "bad", Text: "int bad(void)", Origin: "math.c:9"},
	}
	cands := []domain.Function{
		{Name: "FUN_copy", Text: addText, Origin: "export.c"},
		{Name: "broken", Text: "int broken(int a)", Origin: "export.c"},
		{Name: "FUN_sum", Text: sumText, Origin: "export.c"},
	}

	resp, err := svc.MatchFunctions(context.Background(), refs, cands, *domain.DefaultMatchRequest())
	require.NoError(t, err)
	assert.True(t, resp.Success)

	stats := resp.Statistics
	assert.Equal(t, 3, stats.CandidatesLoaded)
	assert.Equal(t, 1, stats.CandidatesSkipped)
	assert.Equal(t, 1, stats.ReferencesSkipped)
	assert.Equal(t, 1, stats.ReferencesAnalyzed)
	assert.Equal(t, 1, stats.ReferencesMatched)
	assert.InDelta(t, 2.0, stats.AverageScore, 1e-12)

	require.Len(t, resp.Matches, 1)
	m := resp.Matches[0]
	assert.Equal(t, "add", m.Reference)
	assert.Equal(t, "math.c:1", m.ReferenceOrigin)
	assert.Equal(t, len(addText), m.ReferenceLength)
	require.NotNil(t, m.Best)
	assert.Equal(t, "FUN_copy", m.Best.Name)
	assert.Equal(t, "export.c", m.Best.Origin)
	assert.Equal(t, len(addText), m.Best.Length)
	assert.InDelta(t, 2.0, m.Best.Score, 1e-12)
	assert.Equal(t, 8, m.Best.NameDistance)

	require.Len(t, resp.Warnings, 2)
	assert.Contains(t, warnings.String(), "Warning: skipping candidate broken")
	assert.Contains(t, warnings.String(), "Warning: skipping reference bad")
}

func TestMatchService_ShowUnmatchedAndSort(t *testing.T) {
	svc, _ := newTestMatchService()
	refs := []domain.Function{
		{Name: "add", Text: addText},
		{Name: "sum", Text: sumText},
	}
	cands := []domain.Function{{Name: "FUN_sum", Text: sumText}}

	req := *domain.DefaultMatchRequest()
	resp, err := svc.MatchFunctions(context.Background(), refs, cands, req)
	require.NoError(t, err)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "sum", resp.Matches[0].Reference)
	assert.Equal(t, 2, resp.Statistics.ReferencesAnalyzed)
	assert.InDelta(t, 0.5, resp.Statistics.MatchRate(), 1e-12)

	req.ShowUnmatched = true
	resp, err = svc.MatchFunctions(context.Background(), refs, cands, req)
	require.NoError(t, err)
	require.Len(t, resp.Matches, 2)
	assert.Equal(t, "sum", resp.Matches[0].Reference)
	assert.Equal(t, "add", resp.Matches[1].Reference)
	assert.False(t, resp.Matches[1].IsMatched())

	req.SortBy = domain.SortMatchesByName
	resp, err = svc.MatchFunctions(context.Background(), refs, cands, req)
	require.NoError(t, err)
	assert.Equal(t, "add", resp.Matches[0].Reference)
	assert.Equal(t, "sum", resp.Matches[1].Reference)
}

func TestMatchService_HideAliases(t *testing.T) {
	svc, _ := newTestMatchService()
	refs := []domain.Function{{Name: "add", Text: addText}}
	cands := []domain.Function{
		{Name: "first", Text: addText},
		{Name: "second", Text: addText},
	}

	req := *domain.DefaultMatchRequest()
	resp, err := svc.MatchFunctions(context.Background(), refs, cands, req)
	require.NoError(t, err)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, []string{"second"}, resp.Matches[0].AliasNames())
	assert.Equal(t, 1, resp.Statistics.TotalAliases)

	req.ShowAliases = false
	resp, err = svc.MatchFunctions(context.Background(), refs, cands, req)
	require.NoError(t, err)
	assert.Empty(t, resp.Matches[0].Aliases)
	assert.Equal(t, 1, resp.Statistics.TotalAliases)
}

func TestMatchService_Cancelled(t *testing.T) {
	svc, _ := newTestMatchService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.MatchFunctions(ctx,
		[]domain.Function{{Name: "add", Text: addText}},
		[]domain.Function{{Name: "FUN_copy", Text: addText}},
		*domain.DefaultMatchRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatchService_Match(t *testing.T) {
	dir := t.TempDir()
	src := createTestFile(t, dir, "src/math.c", "int add(int a, int b) {\n    return a + b;\n}\n")
	dump := createTestFile(t, dir, "dump.json",
		`[{"name": "FUN_00401000", "text": "int add(int a, int b) {\n    return a + b;\n}\n"}]`)

	svc, _ := newTestMatchService()
	req := *domain.DefaultMatchRequest()
	req.Paths = []string{src}
	req.CandidatePaths = []string{dump}

	resp, err := svc.Match(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Statistics.FilesAnalyzed)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "FUN_00401000", resp.Matches[0].Best.Name)
	assert.Equal(t, src+":1", resp.Matches[0].ReferenceOrigin)
	assert.NotEmpty(t, resp.GeneratedAt)
}

func TestMatchService_MatchInvalidRequest(t *testing.T) {
	svc, _ := newTestMatchService()
	req := *domain.DefaultMatchRequest()
	req.CandidatePaths = nil

	_, err := svc.Match(context.Background(), req)
	require.Error(t, err)
	assert.True(t, domain.HasErrorCode(err, domain.ErrCodeInvalidInput))

	req.CandidatePaths = []string{filepath.Join(t.TempDir(), "missing.json")}
	req.Paths = []string{filepath.Join(t.TempDir(), "missing.c")}
	_, err = svc.Match(context.Background(), req)
	require.Error(t, err)
	assert.True(t, domain.HasErrorCode(err, domain.ErrCodeFileNotFound))
}

func TestMatchService_Compare(t *testing.T) {
	svc, _ := newTestMatchService()
	req := *domain.DefaultMatchRequest()

	report, err := svc.Compare(context.Background(),
		domain.Function{Name: "add", Text: addText},
		domain.Function{Name: "FUN_copy", Text: addText}, req)
	require.NoError(t, err)
	assert.Equal(t, "add", report.Reference)
	assert.Equal(t, "FUN_copy", report.Candidate)
	assert.InDelta(t, 1.0, report.Cosine, 1e-12)
	assert.InDelta(t, 1.0, report.SequenceRatio, 1e-12)
	assert.InDelta(t, 2.0, report.Score, 1e-12)
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, report.ReferenceParameters)
	assert.True(t, report.Similar)
	assert.True(t, report.SimilarLoose)

	_, err = svc.Compare(context.Background(),
		domain.Function{Name: "add", Text: addText},
		domain.Function{Name: "headless", Text: "int headless(int a)"}, req)
	require.Error(t, err)
	assert.True(t, domain.HasErrorCode(err, domain.ErrCodeMalformedFunction))
	assert.ErrorIs(t, err, analyzer.ErrMalformedFunction)
	assert.Contains(t, err.Error(), "headless")
}

func TestMatchService_Extract(t *testing.T) {
	dir := t.TempDir()
	src := createTestFile(t, dir, "math.c",
		"int add(int a, int b) {\n    return a + b;\n}\n\nint loop(int n) {\n    while (n) {\n        n = step(n);\n    }\n    return n;\n}\n")

	svc, _ := newTestMatchService()
	req := *domain.DefaultMatchRequest()
	req.Paths = []string{src}

	resp, err := svc.Extract(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Functions, 2)

	assert.Equal(t, "add", resp.Functions[0].Name)
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, resp.Functions[0].Parameters)
	assert.Empty(t, resp.Functions[0].Tokens)

	assert.Equal(t, "loop", resp.Functions[1].Name)
	assert.Equal(t, []string{"while", "if", "break", "step(n)"}, resp.Functions[1].Tokens)
	assert.Empty(t, resp.Warnings)

	_, err = svc.Extract(context.Background(), domain.MatchRequest{})
	assert.True(t, domain.HasErrorCode(err, domain.ErrCodeInvalidInput))
}

func TestMatchService_ReportsProgress(t *testing.T) {
	bar := NewMatchProgressBar(&bytes.Buffer{})
	svc := NewMatchService(NewFileReader(), bar)
	svc.SetWarningWriter(nil)

	refs := []domain.Function{
		{Name: "add", Text: addText},
		{Name: "bad", Text: "int bad(void)"},
		{Name: "sum", Text: sumText},
	}
	cands := []domain.Function{{Name: "FUN_copy", Text: addText}}

	_, err := svc.MatchFunctions(context.Background(), refs, cands, *domain.DefaultMatchRequest())
	require.NoError(t, err)

	done, matched := bar.Tally()
	assert.Equal(t, 3, done)
	assert.Equal(t, 1, matched)
}
