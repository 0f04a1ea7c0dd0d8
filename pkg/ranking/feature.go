package ranking

import (
	"math"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/tomoshibi/kotoba/pkg/model"
)

// Feature computes the raw, unweighted contribution of a candidate entry
// for one scoring dimension (spec §4.5). The engine applies the
// configured weight and clamps to [MinScore, MaxScore] afterward; Raw
// itself always returns a value already on the feature's natural scale
// (e.g. 0 or 100 for exactMatch, the level table's value for jlpt, which
// is 0..10 with the default table).
type Feature interface {
	Name() string
	Raw(entry model.Entry, ctx model.ScoringContext) float64
}

type exactMatchFeature struct{}

func (exactMatchFeature) Name() string { return "exactMatch" }
func (exactMatchFeature) Raw(_ model.Entry, ctx model.ScoringContext) float64 {
	if ctx.IsExactHeadword {
		return 100
	}
	return 0
}

type lemmaMatchFeature struct{}

func (lemmaMatchFeature) Name() string { return "lemmaMatch" }
func (lemmaMatchFeature) Raw(_ model.Entry, ctx model.ScoringContext) float64 {
	if ctx.IsLemmaMatch && !ctx.IsExactHeadword {
		return 35
	}
	return 0
}

type prefixMatchFeature struct{}

func (prefixMatchFeature) Name() string { return "prefixMatch" }
func (prefixMatchFeature) Raw(_ model.Entry, ctx model.ScoringContext) float64 {
	if ctx.MatchType == model.MatchPrefix {
		return 30
	}
	return 0
}

// containsMatchFeature scores a substring match, optionally refined by
// Levenshtein-based similarity when useEdlib is set (so "near" substring
// matches still separate from exact substring matches of equal length).
type containsMatchFeature struct {
	useEdlib bool
}

func (f containsMatchFeature) Name() string { return "containsMatch" }
func (f containsMatchFeature) Raw(entry model.Entry, ctx model.ScoringContext) float64 {
	if ctx.MatchType != model.MatchContains {
		return 0
	}
	if !f.useEdlib {
		return 10
	}
	similarity, err := edlib.StringsSimilarity(ctx.QueryNormalized, entry.Headword, edlib.Levenshtein)
	if err != nil {
		return 10
	}
	return 10 * float64(similarity)
}

type jlptFeature struct {
	scores map[string]float64
}

func (f jlptFeature) Name() string { return "jlpt" }
func (f jlptFeature) Raw(entry model.Entry, _ model.ScoringContext) float64 {
	if entry.JLPTLevel == model.JLPTNone {
		return 0
	}
	if s, ok := f.scores[string(entry.JLPTLevel)]; ok {
		return s
	}
	return 0
}

// frequencyFeature converts a 1-based frequency rank (lower is more
// common) into a 0..15 score using one of four smoothing curves.
type frequencyFeature struct {
	smoothing string
	midpoint  float64
}

const frequencyMaxScore = 15.0

func (f frequencyFeature) Name() string { return "frequency" }
func (f frequencyFeature) Raw(entry model.Entry, _ model.ScoringContext) float64 {
	if entry.FrequencyRank == nil {
		return 0
	}
	rank := float64(*entry.FrequencyRank)
	switch f.smoothing {
	case "stepwise":
		switch {
		case rank <= 500:
			return frequencyMaxScore
		case rank <= 2000:
			return frequencyMaxScore * 0.6
		case rank <= 5000:
			return frequencyMaxScore * 0.3
		default:
			return 0
		}
	case "linear":
		v := frequencyMaxScore * (1 - rank/10000)
		if v < 0 {
			return 0
		}
		return v
	case "logarithmic":
		v := frequencyMaxScore * (1 - math.Log10(rank+1)/4)
		if v < 0 {
			return 0
		}
		return v
	case "sigmoid":
		fallthrough
	default:
		return frequencyMaxScore / (1 + math.Exp(math.Log(rank+1)-f.midpoint))
	}
}

var posPriorityTable = map[string]float64{
	"verb": 8, "v": 8,
	"adjective": 6, "adj": 6, "i-adjective": 6, "na-adjective": 6,
	"noun": 4, "n": 4,
	"particle": 2, "prt": 2,
}

type posPriorityFeature struct{}

func (posPriorityFeature) Name() string { return "posPriority" }
func (posPriorityFeature) Raw(entry model.Entry, _ model.ScoringContext) float64 {
	best := 0.0
	for _, s := range entry.Senses {
		pos := strings.ToLower(s.PartOfSpeech)
		for key, score := range posPriorityTable {
			if strings.Contains(pos, key) && score > best {
				best = score
			}
		}
	}
	return best
}

type commonWordFeature struct{}

func (commonWordFeature) Name() string { return "commonWord" }
func (commonWordFeature) Raw(entry model.Entry, _ model.ScoringContext) float64 {
	if entry.FrequencyRank != nil && *entry.FrequencyRank <= 1000 {
		return 5
	}
	return 0
}

type entryTypeFeature struct{}

func (entryTypeFeature) Name() string { return "entryType" }
func (entryTypeFeature) Raw(entry model.Entry, _ model.ScoringContext) float64 {
	if isExpressionEntry(entry) {
		return 0
	}
	return 4
}

type surfaceLengthFeature struct{}

func (surfaceLengthFeature) Name() string { return "surfaceLength" }
func (surfaceLengthFeature) Raw(entry model.Entry, _ model.ScoringContext) float64 {
	n := len([]rune(entry.Headword)) - 1
	if n <= 0 {
		return 0
	}
	if n > 5 {
		n = 5
	}
	return -float64(n)
}

var commonPatternSuffixes = []string{"的", "性", "化", "者", "感"}

type commonPatternPenaltyFeature struct{}

func (commonPatternPenaltyFeature) Name() string { return "commonPatternPenalty" }
func (commonPatternPenaltyFeature) Raw(entry model.Entry, _ model.ScoringContext) float64 {
	for _, suf := range commonPatternSuffixes {
		if strings.HasSuffix(entry.Headword, suf) {
			return -10
		}
	}
	return 0
}

type rareWordPenaltyFeature struct{}

func (rareWordPenaltyFeature) Name() string { return "rareWordPenalty" }
func (rareWordPenaltyFeature) Raw(entry model.Entry, _ model.ScoringContext) float64 {
	if entry.IsRareKanji() {
		return -8
	}
	return 0
}

type archaicWordPenaltyFeature struct{}

func (archaicWordPenaltyFeature) Name() string { return "archaicWordPenalty" }
func (archaicWordPenaltyFeature) Raw(entry model.Entry, _ model.ScoringContext) float64 {
	if entryHasSenseMarker(entry, archaicMarkers) {
		return -12
	}
	return 0
}

type specializedDomainPenaltyFeature struct{}

func (specializedDomainPenaltyFeature) Name() string { return "specializedDomainPenalty" }
func (specializedDomainPenaltyFeature) Raw(entry model.Entry, _ model.ScoringContext) float64 {
	if entryHasSenseMarker(entry, domainMarkers) {
		return -6
	}
	return 0
}

type vulgarSlangPenaltyFeature struct{}

func (vulgarSlangPenaltyFeature) Name() string { return "vulgarSlangPenalty" }
func (vulgarSlangPenaltyFeature) Raw(entry model.Entry, _ model.ScoringContext) float64 {
	if entryHasSenseMarker(entry, vulgarMarkers) {
		return -8
	}
	return 0
}

func entryHasSenseMarker(entry model.Entry, markers []string) bool {
	for _, s := range entry.Senses {
		if senseHasMarker(s.UsageNotes, s.PartOfSpeech, markers) {
			return true
		}
	}
	return false
}

func isExpressionEntry(entry model.Entry) bool {
	if strings.ContainsAny(entry.Headword, " ・") {
		return true
	}
	return entryHasSenseMarker(entry, expressionMarkers)
}
