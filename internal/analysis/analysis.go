// Package analysis computes score summaries over a solution set, used
// by the CLI score command and the report exporters.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

// GroupScore is the scored identity of one group.
type GroupScore struct {
	N     int
	Side  float64
	Score float64
}

// Summary aggregates the scores of every group in a solution set.
type Summary struct {
	Groups []GroupScore // ascending by n
	Total  float64
	Mean   float64
	StdDev float64
	Median float64
	Worst  GroupScore // highest score, the group dominating the total
}

// Summarize scores every group and aggregates. Panics-free on an empty
// set: the zero Summary is returned.
func Summarize(solutions map[int]*model.Layout) Summary {
	var s Summary
	if len(solutions) == 0 {
		return s
	}
	s.Groups = make([]GroupScore, 0, len(solutions))
	for n, l := range solutions {
		s.Groups = append(s.Groups, GroupScore{N: n, Side: l.Side(), Score: l.Score()})
	}
	sort.Slice(s.Groups, func(i, j int) bool { return s.Groups[i].N < s.Groups[j].N })

	scores := make([]float64, len(s.Groups))
	s.Worst = s.Groups[0]
	for i, g := range s.Groups {
		scores[i] = g.Score
		s.Total += g.Score
		if g.Score > s.Worst.Score {
			s.Worst = g
		}
	}
	s.Mean = stat.Mean(scores, nil)
	if len(scores) > 1 {
		s.StdDev = stat.StdDev(scores, nil)
	}

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return s
}

// WorstGroups returns the k groups with the highest score, descending.
// These are the best candidates for extra search budget.
func WorstGroups(solutions map[int]*model.Layout, k int) []GroupScore {
	s := Summarize(solutions)
	ranked := append([]GroupScore(nil), s.Groups...)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

// Improvement returns the per-group score deltas between two solution
// sets, positive when after is better, keyed by n. Groups missing from
// either side are skipped.
func Improvement(before, after map[int]*model.Layout) map[int]float64 {
	deltas := make(map[int]float64)
	for n, b := range before {
		a, ok := after[n]
		if !ok {
			continue
		}
		deltas[n] = b.Score() - a.Score()
	}
	return deltas
}
