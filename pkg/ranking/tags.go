package ranking

import "strings"

// These tag sets classify a sense by scanning its part-of-speech and
// usage-note free text for known markers. They are intentionally small,
// enumerated sets rather than a classifier: dictionary usage notes are
// terse and drawn from a limited vocabulary.

var expressionMarkers = []string{
	"expression", "expressions", "phrase", "idiom", "saying", "proverb",
	"成句", "慣用句", "熟語",
}

var domainMarkers = []string{
	"medicine", "medical", "law", "legal", "chemistry", "physics", "biology",
	"computing", "linguistics", "botany", "zoology", "mathematics", "finance",
	"military", "anatomy", "geology", "astronomy",
	"医学", "法律", "化学", "物理学", "生物学", "言語学", "植物学", "動物学",
	"数学", "金融", "軍事", "解剖学", "地質学", "天文学",
}

var archaicMarkers = []string{
	"archaic", "obsolete", "rare", "old-fashioned", "dated",
	"古語", "廃語",
}

var vulgarMarkers = []string{
	"vulgar", "slang", "vulgar slang", "crude", "taboo", "tabooed",
	"俗語", "下品",
}

func containsAnyMarker(text string, markers []string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, m := range markers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

func senseHasMarker(usageNotes, partOfSpeech string, markers []string) bool {
	return containsAnyMarker(usageNotes, markers) || containsAnyMarker(partOfSpeech, markers)
}
