package intent

// englishWhitelist is the enumerated set of high-value English single
// words that tip a romaji query towards English intent (spec §4.3).
var englishWhitelist = map[string]bool{
	"go": true, "do": true, "be": true, "am": true, "is": true, "are": true,
	"was": true, "were": true, "eat": true, "run": true, "see": true,
	"get": true, "make": true, "take": true, "come": true, "know": true,
	"think": true, "look": true, "want": true, "give": true, "use": true,
	"find": true, "tell": true, "ask": true, "work": true, "feel": true,
	"try": true, "leave": true, "call": true, "star": true, "car": true,
	"bus": true, "train": true, "game": true, "play": true, "phone": true,
	"music": true, "movie": true, "wear": true, "wake": true, "sleep": true,
}

// japaneseParticleBlacklist is the enumerated set of Japanese romanized
// particles that must never be treated as English.
var japaneseParticleBlacklist = map[string]bool{
	"wa": true, "ga": true, "wo": true, "o": true, "ni": true, "de": true,
	"to": true, "ya": true, "ka": true, "ne": true, "yo": true,
}

// antiHeuristicPrefixes are romaji prefixes that, followed immediately by
// "be" or "ku", suggest Japanese verb romanization (e.g. "taberu", "kaku")
// rather than English.
var antiHeuristicPrefixes = []string{"ta", "ka", "sa", "na", "ha", "ma", "ya", "ra"}

// CoreHeadwords maps an English base word to its ordered sequence of
// canonical Japanese headwords.
var CoreHeadwords = map[string][]string{
	"eat":     {"食べる"},
	"go":      {"行く"},
	"come":    {"来る"},
	"wake up": {"目覚める", "目を覚ます"},
	"sleep":   {"寝る", "眠る"},
	"wear":    {"着る", "履く", "被る", "掛ける", "締める"},
	"drink":   {"飲む"},
	"see":     {"見る"},
	"do":      {"する"},
	"read":    {"読む"},
	"write":   {"書く"},
	"speak":   {"話す"},
	"hear":    {"聞く"},
	"buy":     {"買う"},
	"sell":    {"売る"},
	"give":    {"あげる", "くれる"},
	"run":     {"走る"},
	"walk":    {"歩く"},
}

// HonorificWhitelist holds, per English base verb, suppletive honorific and
// humble forms that the reverse-search strict filter must keep even though
// the headword lacks the base verb's core kanji.
var HonorificWhitelist = map[string]map[string]bool{
	"eat":   {"頂く": true, "召し上がる": true, "召す": true},
	"go":    {"参る": true, "いらっしゃる": true},
	"come":  {"参る": true, "いらっしゃる": true, "見える": true},
	"see":   {"拝見する": true, "ご覧になる": true},
	"do":    {"いたす": true, "なさる": true},
	"sleep": {"お休みになる": true},
}

// CoreKanji holds, per English base word, the set of kanji considered
// semantically related; used by the strict verb-definition filter.
var CoreKanji = map[string]map[rune]bool{
	"come":  {'来': true},
	"go":    {'行': true},
	"wear":  {'着': true, '履': true, '被': true, '掛': true, '締': true},
	"eat":   {'食': true},
	"drink": {'飲': true},
	"see":   {'見': true},
	"read":  {'読': true},
	"write": {'書': true},
	"speak": {'話': true},
	"hear":  {'聞': true},
	"buy":   {'買': true},
	"sell":  {'売': true},
}
