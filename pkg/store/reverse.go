package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tomoshibi/kotoba/pkg/intent"
	"github.com/tomoshibi/kotoba/pkg/model"
)

// reverseCandidateRow is one (entry, sense) pairing fetched from the store
// before word-boundary filtering and priority computation.
type reverseCandidateRow struct {
	entry model.Entry
	sense model.Sense
}

type reverseScoredEntry struct {
	entry              model.Entry
	firstMatchingSense int
	matchPriority      int
	parentheticalPrio  int
	posWeight          int
	semanticPrio       int
	idiomPrio          int
}

// SearchReverse implements spec §4.4.2: it finds entries whose English or
// Chinese definitions plausibly match query, ranks the (entry, sense) rows
// by the priority cascade, aggregates per entry_id by min, sorts by the
// outer ordering, then applies the in-memory core-word reordering, strict
// definition filter, and verb-strictness refinement.
func (s *SQLiteStore) SearchReverse(
	ctx context.Context, query string, limit int, isEnglish bool, _ string, coreSet []string,
) ([]model.Entry, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	rows, err := s.fetchReverseCandidates(ctx, q)
	if err != nil {
		return nil, err
	}

	byEntry := map[int64]*reverseScoredEntry{}
	order := make([]int64, 0)
	for _, row := range rows {
		def := strings.ToLower(row.sense.DefinitionEnglish)
		matched := wordBoundaryMatch(def, q) || containsChineseMatch(row.sense, q)
		if !matched {
			continue
		}
		if !numberQueryGuardPasses(def, q) {
			continue
		}

		mp := reverseMatchPriority(def, q)
		pp := parentheticalPriority(def, q)
		pw := posWeight(row.sense.PartOfSpeech)
		sp := semanticPriority(def)
		ip := idiomPriority(def)

		se, exists := byEntry[row.entry.ID]
		if !exists {
			se = &reverseScoredEntry{
				entry:              row.entry,
				firstMatchingSense: row.sense.SenseOrder,
				matchPriority:      mp,
				parentheticalPrio:  pp,
				posWeight:          pw,
				semanticPrio:       sp,
				idiomPrio:          ip,
			}
			byEntry[row.entry.ID] = se
			order = append(order, row.entry.ID)
			continue
		}
		se.matchPriority = minInt(se.matchPriority, mp)
		se.parentheticalPrio = minInt(se.parentheticalPrio, pp)
		se.posWeight = minInt(se.posWeight, pw)
		se.semanticPrio = minInt(se.semanticPrio, sp)
		se.idiomPrio = minInt(se.idiomPrio, ip)
		if row.sense.SenseOrder < se.firstMatchingSense {
			se.firstMatchingSense = row.sense.SenseOrder
		}
	}

	coreLookup := map[string]bool{}
	for _, w := range coreSet {
		coreLookup[w] = true
	}

	entries := make([]*reverseScoredEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, byEntry[id])
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]

		amem, bmem := 1, 1
		if coreLookup[a.entry.Headword] {
			amem = 0
		}
		if coreLookup[b.entry.Headword] {
			bmem = 0
		}
		if amem != bmem {
			return amem < bmem
		}

		aje, ajr := jlptExistsAndRank(a.entry, q)
		bje, bjr := jlptExistsAndRank(b.entry, q)
		if aje != bje {
			return aje < bje
		}

		if a.semanticPrio != b.semanticPrio {
			return a.semanticPrio < b.semanticPrio
		}
		if a.parentheticalPrio != b.parentheticalPrio {
			return a.parentheticalPrio < b.parentheticalPrio
		}
		if a.firstMatchingSense != b.firstMatchingSense {
			return a.firstMatchingSense < b.firstMatchingSense
		}
		if ajr != bjr {
			return ajr < bjr
		}

		amvb := mainVerbBoost(a.entry)
		bmvb := mainVerbBoost(b.entry)
		if amvb != bmvb {
			return amvb < bmvb
		}
		if a.idiomPrio != b.idiomPrio {
			return a.idiomPrio < b.idiomPrio
		}

		afreq, bfreq := a.entry.FrequencyRank, b.entry.FrequencyRank
		switch {
		case afreq == nil && bfreq != nil:
			return false
		case afreq != nil && bfreq == nil:
			return true
		case afreq != nil && bfreq != nil && *afreq != *bfreq:
			return *afreq < *bfreq
		}

		if a.posWeight != b.posWeight {
			return a.posWeight < b.posWeight
		}

		if isEnglish {
			akata := isPureKatakana(a.entry.Headword)
			bkata := isPureKatakana(b.entry.Headword)
			if akata != bkata {
				return !akata
			}
		}

		if a.matchPriority != b.matchPriority {
			return a.matchPriority < b.matchPriority
		}

		if !a.entry.CreatedAt.Equal(b.entry.CreatedAt) {
			return a.entry.CreatedAt.Before(b.entry.CreatedAt)
		}
		return a.entry.ID < b.entry.ID
	})

	result := make([]model.Entry, 0, len(entries))
	for _, se := range entries {
		result = append(result, se.entry)
	}

	result = reorderCoreWordsFirst(result, coreSet)
	result, err = s.applyStrictDefinitionFilter(ctx, result, q)
	if err != nil {
		return nil, err
	}
	result, err = s.applyVerbStrictnessRefinement(ctx, result, query, q)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// reorderCoreWordsFirst moves entries whose headword is in coreSet to the
// front, preserving coreSet's order among them and the existing relative
// order of everything else (spec §4.4.2 step (a)).
func reorderCoreWordsFirst(entries []model.Entry, coreSet []string) []model.Entry {
	if len(coreSet) == 0 {
		return entries
	}
	byHeadword := map[string][]model.Entry{}
	var rest []model.Entry
	for _, e := range entries {
		if contains(coreSet, e.Headword) {
			byHeadword[e.Headword] = append(byHeadword[e.Headword], e)
		} else {
			rest = append(rest, e)
		}
	}
	out := make([]model.Entry, 0, len(entries))
	for _, w := range coreSet {
		out = append(out, byHeadword[w]...)
	}
	out = append(out, rest...)
	return out
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// applyStrictDefinitionFilter keeps only entries with at least one sense
// whose English definition contains the exact word q, or whose Chinese
// definition (as a semicolon list) exactly equals q (spec §4.4.2 step (b)).
func (s *SQLiteStore) applyStrictDefinitionFilter(ctx context.Context, entries []model.Entry, q string) ([]model.Entry, error) {
	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		senses, err := s.FetchSenses(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		keep := false
		for _, sn := range senses {
			if containsExactWord(strings.ToLower(sn.DefinitionEnglish), q) {
				keep = true
				break
			}
			if chineseListExactlyContains(sn.DefinitionChineseSimplified, q) ||
				chineseListExactlyContains(sn.DefinitionChineseTraditional, q) {
				keep = true
				break
			}
		}
		if keep {
			out = append(out, e)
		}
	}
	return out, nil
}

func containsExactWord(def, q string) bool {
	return wordBoundaryMatch(def, q)
}

func chineseListExactlyContains(list, q string) bool {
	if list == "" {
		return false
	}
	for _, part := range strings.Split(list, ";") {
		if strings.TrimSpace(part) == q {
			return true
		}
	}
	return false
}

// applyVerbStrictnessRefinement implements spec §4.4.2 step (c): for
// queries beginning with "to ", accept a sense only if its definition
// starts with "to q" followed by nothing, ";", or " ("; when the
// definition is multi-verb, additionally require a core-kanji or
// honorific-whitelist match.
func (s *SQLiteStore) applyVerbStrictnessRefinement(
	ctx context.Context, entries []model.Entry, rawQuery, q string, //nolint:unparam // rawQuery reserved for future casing-sensitive refinements
) ([]model.Entry, error) {
	if !strings.HasPrefix(q, "to ") {
		return entries, nil
	}
	base := strings.TrimPrefix(q, "to ")

	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		senses, err := s.FetchSenses(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		accept := false
		for _, sn := range senses {
			def := strings.ToLower(sn.DefinitionEnglish)
			prefix := "to " + base
			if !strings.HasPrefix(def, prefix) {
				continue
			}
			rest := def[len(prefix):]
			if rest != "" && rest[0] != ';' && !strings.HasPrefix(rest, " (") {
				continue
			}
			if !isMultiVerbDefinition(def) {
				accept = true
				break
			}
			coreKanji := intent.CoreKanjiFor(base)
			honorific := intent.HonorificFormsFor(base)
			if headwordHasAnyKanji(e.Headword, coreKanji) || (honorific != nil && honorific[e.Headword]) {
				accept = true
				break
			}
		}
		if accept {
			out = append(out, e)
		}
	}
	return out, nil
}

// isMultiVerbDefinition reports whether def lists more than one basic verb
// sense, i.e. contains a "; to X" continuation.
func isMultiVerbDefinition(def string) bool {
	return strings.Contains(def, "; to ")
}

func headwordHasAnyKanji(headword string, kanji map[rune]bool) bool {
	if kanji == nil {
		return false
	}
	for _, r := range headword {
		if kanji[r] {
			return true
		}
	}
	return false
}

func (s *SQLiteStore) fetchReverseCandidates(ctx context.Context, q string) ([]reverseCandidateRow, error) {
	like := "%" + q + "%"
	sqlQuery := `
		SELECT e.id, e.headword, e.reading_hiragana, e.reading_romaji, e.frequency_rank,
		       e.jlpt_level, e.pitch_accent, e.created_at,
		       sn.id, sn.entry_id, sn.sense_order, sn.definition_english,
		       sn.definition_chinese_simplified, sn.definition_chinese_traditional,
		       sn.part_of_speech, sn.usage_notes
		FROM senses sn
		INNER JOIN entries e ON e.id = sn.entry_id
		WHERE LOWER(sn.definition_english) LIKE ?
		   OR sn.definition_chinese_simplified LIKE ?
		   OR sn.definition_chinese_traditional LIKE ?
		LIMIT 2000
	`
	rows, err := s.db.QueryContext(ctx, sqlQuery, like, like, like)
	if err != nil {
		return nil, fmt.Errorf("fetching reverse candidates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []reverseCandidateRow
	for rows.Next() {
		var e model.Entry
		var sn model.Sense
		var freq sql.NullInt64
		var jlpt sql.NullString
		var pitch sql.NullString
		var createdAt int64
		if err := rows.Scan(
			&e.ID, &e.Headword, &e.ReadingHiragana, &e.ReadingRomaji, &freq, &jlpt, &pitch, &createdAt,
			&sn.ID, &sn.EntryID, &sn.SenseOrder, &sn.DefinitionEnglish,
			&sn.DefinitionChineseSimplified, &sn.DefinitionChineseTraditional,
			&sn.PartOfSpeech, &sn.UsageNotes,
		); err != nil {
			return nil, fmt.Errorf("scanning reverse candidate: %w", err)
		}
		if freq.Valid {
			v := int(freq.Int64)
			e.FrequencyRank = &v
		}
		e.JLPTLevel = model.JLPTLevel(jlpt.String)
		if pitch.Valid {
			e.PitchAccent = &pitch.String
		}
		e.CreatedAt = unixToTime(createdAt)
		out = append(out, reverseCandidateRow{entry: e, sense: sn})
	}
	return out, rows.Err()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

var boundaryRe = regexp.MustCompile(`[;,.)\s]`)

// wordBoundaryMatch reports whether q appears in def as a whole word,
// bounded by start/end of string or one of {space, ; , , . )}, excluding
// the possessive form q's.
func wordBoundaryMatch(def, q string) bool {
	if def == q {
		return true
	}
	idx := 0
	for {
		found := strings.Index(def[idx:], q)
		if found < 0 {
			return false
		}
		start := idx + found
		end := start + len(q)

		leftOK := start == 0 || boundaryRe.MatchString(string(def[start-1]))
		rightOK := end == len(def) || boundaryRe.MatchString(string(def[end]))
		isPossessive := end+1 < len(def) && def[end] == '\'' && def[end+1] == 's'

		if leftOK && rightOK && !isPossessive {
			return true
		}
		idx = start + 1
	}
}

func containsChineseMatch(sense model.Sense, q string) bool {
	if sense.DefinitionChineseSimplified != "" && strings.Contains(sense.DefinitionChineseSimplified, q) {
		return true
	}
	if sense.DefinitionChineseTraditional != "" && strings.Contains(sense.DefinitionChineseTraditional, q) {
		return true
	}
	return false
}

var strictNumberWords = map[string]bool{"one": true, "two": true, "three": true, "four": true, "five": true}
var moderateNumberWords = map[string]bool{
	"six": true, "seven": true, "eight": true, "nine": true, "ten": true, "eleven": true, "twelve": true,
}

var strictExcludePrefixes = []string{
	"the ", "this ", "that ", "which ", "another ", "any ", "each ", "every ", "between ", "of ", "or ", "part ",
}
var numberExcludeSuffixes = []string{" o'clock", " days", " weeks", " months", " years"}

// numberQueryGuardPasses applies the number-query filter of spec §4.4.2.
func numberQueryGuardPasses(def, q string) bool {
	switch {
	case strictNumberWords[q]:
		for _, p := range strictExcludePrefixes {
			if strings.Contains(def, p+q) {
				return false
			}
		}
		for _, suf := range numberExcludeSuffixes {
			if strings.Contains(def, q+suf) {
				return false
			}
		}
		if parenScopeContains(def, q) {
			return false
		}
		return true
	case moderateNumberWords[q]:
		for _, suf := range numberExcludeSuffixes {
			if strings.Contains(def, q+suf) {
				return false
			}
		}
		if strings.Contains(def, "part "+q) {
			return false
		}
		if parenScopeContains(def, q) {
			return false
		}
		return true
	default:
		return true
	}
}

func parenScopeContains(def, q string) bool {
	open := strings.Index(def, "(")
	for open >= 0 {
		closeIdx := strings.Index(def[open:], ")")
		if closeIdx < 0 {
			break
		}
		scope := def[open : open+closeIdx]
		if strings.Contains(scope, q) {
			return true
		}
		rest := def[open+closeIdx+1:]
		nextOpen := strings.Index(rest, "(")
		if nextOpen < 0 {
			break
		}
		open = open + closeIdx + 1 + nextOpen
	}
	return false
}

func reverseMatchPriority(def, q string) int {
	switch {
	case def == q:
		return 0
	case def == "to "+q || strings.HasPrefix(def, "to "+q+";"):
		return 1
	case (strings.HasPrefix(def, q+" ") || strings.HasPrefix(def, q+";")) && !strings.HasPrefix(def, q+"'s"):
		return 2
	case wordBoundaryMatch(def, q):
		return 3
	default:
		return 4
	}
}

var asAPhrases = []string{"as a ", "as an ", "by way of a ", "by way of an "}

func parentheticalPriority(def, q string) int {
	if parenScopeContains(def, q) {
		return 1
	}
	for _, p := range asAPhrases {
		if strings.Contains(def, p+q) {
			return 1
		}
	}
	if idx := strings.Index(def, "e.g."); idx >= 0 {
		closeIdx := strings.Index(def[idx:], ")")
		if closeIdx >= 0 {
			scope := def[idx : idx+closeIdx]
			if strings.Contains(scope, q) {
				return 1
			}
		}
	}
	return 0
}

func posWeight(pos string) int {
	lower := strings.ToLower(pos)
	switch {
	case strings.Contains(lower, "verb"):
		return 0
	case strings.Contains(lower, "noun"):
		return 1
	default:
		return 2
	}
}

var semanticTiers = []struct {
	tier    int
	phrases []string
}{
	{0, []string{"from the shoulders down"}},
	{1, []string{"lower-body", "footwear", "pants", "shoes"}},
	{2, []string{"glasses", "necklace", "accessor"}},
	{3, []string{"belt", "necktie", "tie", "one's head", "hat"}},
	{4, []string{"e.g. decoration"}},
	{5, []string{"cloth", "garment"}},
	{6, []string{"a sword", "sword", "at one's side"}},
}

func semanticPriority(def string) int {
	lower := strings.ToLower(def)
	for _, t := range semanticTiers {
		for _, p := range t.phrases {
			if strings.Contains(lower, p) {
				return t.tier
			}
		}
	}
	return 7
}

func idiomPriority(def string) int {
	if strings.Contains(def, "out of") {
		return 1
	}
	return 0
}

func mainVerbBoost(e model.Entry) int {
	if e.JLPTLevel == model.JLPTN5 && len([]rune(e.Headword)) <= 3 {
		return 0
	}
	return 1
}

func isPureKatakana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 0x30A0 && r <= 0x30FF) || r == 'ー') {
			return false
		}
	}
	return true
}
