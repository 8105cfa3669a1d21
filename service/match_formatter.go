package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ludo-technologies/libfinder/domain"
)

// MatchOutputFormatterImpl implements the domain.MatchOutputFormatter interface
type MatchOutputFormatterImpl struct {
	utils *FormatUtils
}

// NewMatchOutputFormatter creates a new match output formatter
func NewMatchOutputFormatter() *MatchOutputFormatterImpl {
	return &MatchOutputFormatterImpl{utils: NewFormatUtils()}
}

// Write formats a match response according to the specified format
func (f *MatchOutputFormatterImpl) Write(response *domain.MatchResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText, "":
		return f.writeMatchesText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.writeMatchesCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// WriteComparison formats a single comparison report
func (f *MatchOutputFormatterImpl) WriteComparison(report *domain.ComparisonReport, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText, "":
		return f.writeComparisonText(report, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, report)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, report)
	case domain.OutputFormatCSV:
		return f.writeComparisonCSV(report, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// WriteExtraction formats an extraction listing
func (f *MatchOutputFormatterImpl) WriteExtraction(response *domain.ExtractionResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText, "":
		return f.writeExtractionText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.writeExtractionCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *MatchOutputFormatterImpl) writeMatchesText(response *domain.MatchResponse, writer io.Writer) error {
	var b strings.Builder
	b.WriteString(f.utils.FormatMainHeader("Function Match Results"))

	if stats := response.Statistics; stats != nil {
		b.WriteString(f.utils.FormatSectionHeader("Summary"))
		b.WriteString(f.utils.FormatLabel("Files analyzed", stats.FilesAnalyzed))
		b.WriteString(f.utils.FormatLabel("References analyzed", stats.ReferencesAnalyzed))
		b.WriteString(f.utils.FormatLabel("References matched", stats.ReferencesMatched))
		b.WriteString(f.utils.FormatLabel("Match rate", f.utils.FormatPercentage(stats.MatchRate()*100)))
		b.WriteString(f.utils.FormatLabel("Candidates loaded", stats.CandidatesLoaded))
		if stats.ReferencesSkipped > 0 || stats.CandidatesSkipped > 0 {
			b.WriteString(f.utils.FormatLabel("Skipped (ref/cand)",
				fmt.Sprintf("%d/%d", stats.ReferencesSkipped, stats.CandidatesSkipped)))
		}
		if stats.ReferencesMatched > 0 {
			b.WriteString(f.utils.FormatLabel("Average score", fmt.Sprintf("%.3f", stats.AverageScore)))
		}
		b.WriteString(f.utils.FormatLabel("Duration", f.utils.FormatDuration(response.Duration)))
		b.WriteString(f.utils.FormatSectionSeparator())
	}

	if len(response.Matches) == 0 {
		b.WriteString("No matches found.\n")
	} else {
		b.WriteString(f.utils.FormatSectionHeader("Matches"))
		b.WriteString(f.utils.FormatTableHeader("REFERENCE -> CANDIDATE", "SCORE", "LENGTH (candidate vs reference)"))
		for _, m := range response.Matches {
			if !m.IsMatched() {
				fmt.Fprintf(&b, "%s%s: unmatched\n", strings.Repeat(" ", SectionPadding), m.Reference)
				continue
			}
			fmt.Fprintf(&b, "%s%s -> %s (score: %s, length: %d vs %d)\n",
				strings.Repeat(" ", SectionPadding), m.Reference, m.Best.Name,
				f.utils.FormatScoreWithColor(m.Best.Score), m.Best.Length, m.ReferenceLength)
			if len(m.Aliases) > 0 {
				fmt.Fprintf(&b, "%saliases: %s\n", strings.Repeat(" ", ItemPadding), strings.Join(m.AliasNames(), ", "))
			}
		}
		b.WriteString(f.utils.FormatSectionSeparator())
	}

	b.WriteString(f.utils.FormatWarningsSection(response.Warnings))
	if len(response.Errors) > 0 {
		b.WriteString(f.utils.FormatSectionHeader("Errors"))
		for _, e := range response.Errors {
			fmt.Fprintf(&b, "%s%s\n", strings.Repeat(" ", SectionPadding), e)
		}
	}

	if _, err := io.WriteString(writer, b.String()); err != nil {
		return domain.NewOutputError("failed to write text output", err)
	}
	return nil
}

func (f *MatchOutputFormatterImpl) writeMatchesCSV(response *domain.MatchResponse, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)

	header := []string{"reference", "reference_origin", "reference_length", "best_name", "best_origin", "best_length", "score", "name_distance", "similar_count", "aliases"}
	if err := csvWriter.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	for _, m := range response.Matches {
		record := []string{m.Reference, m.ReferenceOrigin, strconv.Itoa(m.ReferenceLength), "", "", "", "", "", strconv.Itoa(m.SimilarCount), ""}
		if m.Best != nil {
			record[3] = m.Best.Name
			record[4] = m.Best.Origin
			record[5] = strconv.Itoa(m.Best.Length)
			record[6] = strconv.FormatFloat(m.Best.Score, 'f', 6, 64)
			record[7] = strconv.Itoa(m.Best.NameDistance)
			record[9] = strings.Join(m.AliasNames(), ";")
		}
		if err := csvWriter.Write(record); err != nil {
			return domain.NewOutputError("failed to write CSV record", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return domain.NewOutputError("failed to flush CSV output", err)
	}
	return nil
}

func (f *MatchOutputFormatterImpl) writeComparisonText(r *domain.ComparisonReport, writer io.Writer) error {
	var b strings.Builder
	b.WriteString(f.utils.FormatMainHeader(fmt.Sprintf("Comparison: %s vs %s", r.Reference, r.Candidate)))

	b.WriteString(f.utils.FormatSectionHeader("Score"))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Cosine", fmt.Sprintf("%.3f", r.Cosine)))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Sequence ratio", fmt.Sprintf("%.3f", r.SequenceRatio)))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Combined", f.utils.FormatScoreWithColor(r.Score)))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Length", fmt.Sprintf("%d vs %d", r.ReferenceLength, r.CandidateLength)))
	b.WriteString(f.utils.FormatSectionSeparator())

	b.WriteString(f.utils.FormatSectionHeader("Structure"))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Reference parameters", formatProfile(r.ReferenceParameters)))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Candidate parameters", formatProfile(r.CandidateParameters)))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Reference tokens", formatTokens(r.ReferenceTokens)))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Candidate tokens", formatTokens(r.CandidateTokens)))
	b.WriteString(f.utils.FormatSectionSeparator())

	b.WriteString(f.utils.FormatSectionHeader("Verdicts"))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Preconditions", f.utils.FormatVerdict(r.Preconditions)))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Similar parameters", f.utils.FormatVerdict(r.SimilarParameters)))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Similar keywords", f.utils.FormatVerdict(r.SimilarKeywords)))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Similar calls", f.utils.FormatVerdict(r.SimilarCalls)))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Similar", f.utils.FormatVerdict(r.Similar)))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Similar (no calls)", f.utils.FormatVerdict(r.SimilarLoose)))

	if _, err := io.WriteString(writer, b.String()); err != nil {
		return domain.NewOutputError("failed to write text output", err)
	}
	return nil
}

func (f *MatchOutputFormatterImpl) writeComparisonCSV(r *domain.ComparisonReport, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	rows := [][]string{
		{"reference", "candidate", "cosine", "sequence_ratio", "score", "preconditions", "similar_parameters", "similar_keywords", "similar_calls", "similar", "similar_loose"},
		{
			r.Reference,
			r.Candidate,
			strconv.FormatFloat(r.Cosine, 'f', 6, 64),
			strconv.FormatFloat(r.SequenceRatio, 'f', 6, 64),
			strconv.FormatFloat(r.Score, 'f', 6, 64),
			strconv.FormatBool(r.Preconditions),
			strconv.FormatBool(r.SimilarParameters),
			strconv.FormatBool(r.SimilarKeywords),
			strconv.FormatBool(r.SimilarCalls),
			strconv.FormatBool(r.Similar),
			strconv.FormatBool(r.SimilarLoose),
		},
	}
	if err := csvWriter.WriteAll(rows); err != nil {
		return domain.NewOutputError("failed to write CSV output", err)
	}
	return nil
}

func (f *MatchOutputFormatterImpl) writeExtractionText(response *domain.ExtractionResponse, writer io.Writer) error {
	var b strings.Builder
	b.WriteString(f.utils.FormatMainHeader("Extracted Functions"))

	if len(response.Functions) == 0 {
		b.WriteString("No functions found.\n")
	}
	for _, fn := range response.Functions {
		fmt.Fprintf(&b, "%s (%s, %d chars)\n", fn.Name, fn.Origin, fn.Length)
		if fn.Error != "" {
			b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "error", fn.Error))
			continue
		}
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "parameters", formatProfile(fn.Parameters)))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "tokens", formatTokens(fn.Tokens)))
	}
	b.WriteString(f.utils.FormatSectionSeparator())
	b.WriteString(f.utils.FormatWarningsSection(response.Warnings))

	if _, err := io.WriteString(writer, b.String()); err != nil {
		return domain.NewOutputError("failed to write text output", err)
	}
	return nil
}

func (f *MatchOutputFormatterImpl) writeExtractionCSV(response *domain.ExtractionResponse, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	if err := csvWriter.Write([]string{"name", "origin", "length", "parameters", "tokens", "error"}); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}
	for _, fn := range response.Functions {
		record := []string{fn.Name, fn.Origin, strconv.Itoa(fn.Length), formatProfile(fn.Parameters), strings.Join(fn.Tokens, " "), fn.Error}
		if err := csvWriter.Write(record); err != nil {
			return domain.NewOutputError("failed to write CSV record", err)
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return domain.NewOutputError("failed to flush CSV output", err)
	}
	return nil
}

// formatProfile renders a parameter profile with names in sorted order
func formatProfile(profile map[string]int) string {
	if len(profile) == 0 {
		return "-"
	}
	names := make([]string, 0, len(profile))
	for name := range profile {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, profile[name])
	}
	return strings.Join(parts, " ")
}

func formatTokens(tokens []string) string {
	if len(tokens) == 0 {
		return "-"
	}
	return strings.Join(tokens, " ")
}
