// Package debugtrace implements the debug breakdown component (spec C10):
// deterministic rendering of a ranked entry's score decomposition, A/B
// comparison between two configurations over the same candidate vector,
// and aggregate statistics across a result set.
package debugtrace

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tomoshibi/kotoba/pkg/model"
)

// featureContribution is one line of a rendered breakdown.
type featureContribution struct {
	name  string
	value float64
}

// Render formats a ScoreBreakdown deterministically: the bucket rule and
// total first, then each feature's contribution sorted by signed value
// descending, so penalties come last (ties broken by name, for determinism).
func Render(bucket model.Bucket, breakdown model.ScoreBreakdown) string {
	contributions := make([]featureContribution, 0, len(breakdown.FeatureScores))
	for name, v := range breakdown.FeatureScores {
		contributions = append(contributions, featureContribution{name: name, value: v})
	}
	sort.Slice(contributions, func(i, j int) bool {
		if contributions[i].value != contributions[j].value {
			return contributions[i].value > contributions[j].value
		}
		return contributions[i].name < contributions[j].name
	})

	var b strings.Builder
	fmt.Fprintf(&b, "bucket=%s rule=%s total=%.3f\n", bucket, breakdown.BucketRule, breakdown.Total)
	for _, c := range contributions {
		fmt.Fprintf(&b, "  %-28s %+.3f\n", c.name, c.value)
	}
	return b.String()
}

// Comparison is the per-entry outcome of comparing a ranked entry's score
// under two configurations (identified by name by the caller).
type Comparison struct {
	EntryID    int64
	ScoreA     float64
	ScoreB     float64
	BucketA    model.Bucket
	BucketB    model.Bucket
	ScoreDelta float64
}

// Compare pairs up entries present in both result sets by id and reports
// the score/bucket delta for each. Entries present in only one set are
// skipped: there is nothing to diff.
func Compare(resultsA, resultsB []model.RankedEntry) []Comparison {
	byID := make(map[int64]model.RankedEntry, len(resultsB))
	for _, r := range resultsB {
		byID[r.Entry.ID] = r
	}

	comparisons := make([]Comparison, 0, len(resultsA))
	for _, a := range resultsA {
		b, ok := byID[a.Entry.ID]
		if !ok {
			continue
		}
		comparisons = append(comparisons, Comparison{
			EntryID:    a.Entry.ID,
			ScoreA:     a.Score,
			ScoreB:     b.Score,
			BucketA:    a.Bucket,
			BucketB:    b.Bucket,
			ScoreDelta: b.Score - a.Score,
		})
	}
	return comparisons
}

// Stats aggregates a result set for a quick quality glance: bucket
// distribution and score extremes.
type Stats struct {
	BucketCounts map[model.Bucket]int
	MinScore     float64
	MaxScore     float64
	MeanScore    float64
	Count        int
}

// Aggregate computes Stats over a ranked result set. An empty input
// returns a zero Stats with Count 0.
func Aggregate(results []model.RankedEntry) Stats {
	stats := Stats{BucketCounts: make(map[model.Bucket]int)}
	if len(results) == 0 {
		return stats
	}

	stats.MinScore = results[0].Score
	stats.MaxScore = results[0].Score
	var sum float64
	for _, r := range results {
		stats.BucketCounts[r.Bucket]++
		sum += r.Score
		if r.Score < stats.MinScore {
			stats.MinScore = r.Score
		}
		if r.Score > stats.MaxScore {
			stats.MaxScore = r.Score
		}
	}
	stats.Count = len(results)
	stats.MeanScore = sum / float64(len(results))
	return stats
}
