package analyzer

import (
	"math"
	"sort"

	"github.com/pmezard/go-difflib/difflib"
	"gonum.org/v1/gonum/floats"
)

// SimilarityScore holds the two components of the combined score
type SimilarityScore struct {
	Cosine        float64
	SequenceRatio float64
}

// Total returns the combined score in [0, 2]
func (s SimilarityScore) Total() float64 {
	return s.Cosine + s.SequenceRatio
}

// Score returns the combined similarity of two function texts: cosine
// similarity of their word counts plus the character sequence match ratio.
// Both texts are normalized first. Score(a, b) == Score(b, a).
func Score(text1, text2 string) float64 {
	return ScoreComponents(text1, text2).Total()
}

// ScoreComponents returns both components of Score
func ScoreComponents(text1, text2 string) SimilarityScore {
	a, b := Normalize(text1), Normalize(text2)
	return SimilarityScore{
		Cosine:        cosineSimilarity(wordCounts(a), wordCounts(b)),
		SequenceRatio: sequenceRatio(a, b),
	}
}

// ScoreFeatures scores two already extracted functions
func ScoreFeatures(f1, f2 *FunctionFeatures) SimilarityScore {
	return SimilarityScore{
		Cosine:        cosineSimilarity(f1.words, f2.words),
		SequenceRatio: sequenceRatio(f1.Text, f2.Text),
	}
}

func cosineSimilarity(c1, c2 map[string]int) float64 {
	if len(c1) == 0 || len(c2) == 0 {
		return 0.0
	}

	vocab := make([]string, 0, len(c1)+len(c2))
	for w := range c1 {
		vocab = append(vocab, w)
	}
	for w := range c2 {
		if _, ok := c1[w]; !ok {
			vocab = append(vocab, w)
		}
	}
	sort.Strings(vocab)

	v1 := make([]float64, len(vocab))
	v2 := make([]float64, len(vocab))
	for i, w := range vocab {
		v1[i] = float64(c1[w])
		v2[i] = float64(c2[w])
	}

	n1 := floats.Dot(v1, v1)
	n2 := floats.Dot(v2, v2)
	if n1 == 0 || n2 == 0 {
		return 0.0
	}
	return floats.Dot(v1, v2) / math.Sqrt(n1*n2)
}

// sequenceRatio computes 2*M/T over the longest matching blocks of the two
// texts, character by character. The matcher's junk heuristic depends on
// argument order, so the pair is ordered first.
func sequenceRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a > b {
		a, b = b, a
	}
	return difflib.NewMatcher(splitChars(a), splitChars(b)).Ratio()
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
