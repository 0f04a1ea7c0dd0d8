package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/tomoshibi/kotoba/pkg/model"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var migrationMutex sync.Mutex

type gooseZerologAdapter struct{}

func (*gooseZerologAdapter) Printf(format string, v ...any) { log.Debug().Msgf(format, v...) }
func (*gooseZerologAdapter) Fatalf(format string, v ...any) { log.Error().Msgf(format, v...) }

// Migrate runs every pending embedded migration against db.
func Migrate(db *sql.DB) error {
	migrationMutex.Lock()
	defer migrationMutex.Unlock()

	goose.SetLogger(&gooseZerologAdapter{})
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations up: %w", err)
	}
	return nil
}

// readOnlyConnParams mirrors the teacher's read-optimized WAL pragma
// string, tuned for a read-only, multi-reader workload: query_only rejects
// any accidental write.
const readOnlyConnParams = "?_query_only=true&_journal_mode=WAL&_synchronous=NORMAL" +
	"&_busy_timeout=5000&_cache_size=-65536&_foreign_keys=ON"

// SQLiteStore is the concrete Store implementation over a bundled,
// read-only SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens path read-only and pings it; it does not check the schema
// (ValidateIntegrity does that). Callers are responsible for ensuring path
// already has migrations applied (see OpenForSeeding for building a
// fixture database in tests).
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+readOnlyConnParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return &SQLiteStore{db: db}, nil
}

// OpenForSeeding opens path read-write and runs migrations, for building
// fixture databases in tests. Production code must use Open.
func OpenForSeeding(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening seed database: %w", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewFromDB wraps an already-open, already-migrated *sql.DB (used by tests
// that share an in-memory database between seeding and querying).
func NewFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ValidateIntegrity checks that the expected tables and FTS index exist.
func (s *SQLiteStore) ValidateIntegrity(ctx context.Context) (bool, error) {
	want := []string{"entries", "senses", "examples", "entries_fts"}
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type IN ('table') ")
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrIntegrityCheckFailed, err)
	}
	defer func() { _ = rows.Close() }()

	present := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, fmt.Errorf("%w: %w", ErrIntegrityCheckFailed, err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("%w: %w", ErrIntegrityCheckFailed, err)
	}

	for _, t := range want {
		if !present[t] {
			return false, nil
		}
	}
	return true, nil
}

const entryColumns = `id, headword, reading_hiragana, reading_romaji, frequency_rank, jlpt_level, pitch_accent, created_at`

func scanEntry(rows *sql.Rows) (model.Entry, error) {
	var e model.Entry
	var freq sql.NullInt64
	var jlpt sql.NullString
	var pitch sql.NullString
	var createdAt int64
	if err := rows.Scan(&e.ID, &e.Headword, &e.ReadingHiragana, &e.ReadingRomaji, &freq, &jlpt, &pitch, &createdAt); err != nil {
		return e, err
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
	return e, nil
}

func (s *SQLiteStore) queryEntries(ctx context.Context, query string, args ...any) ([]model.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// suruStemEndings are the verb endings whose stem is also queried (unioned)
// in the primary FTS path, per spec §4.4.1 item 1.
var suruStemEndings = []rune{'る', 'く', 'ぐ', 'す', 'つ', 'ぬ', 'ぶ', 'む', 'う'}

func stemOf(query string) (stem string, ok bool) {
	r := []rune(query)
	if len(r) < 2 {
		return "", false
	}
	last := r[len(r)-1]
	isEnding := false
	for _, e := range suruStemEndings {
		if last == e {
			isEnding = true
			break
		}
	}
	if !isEnding {
		return "", false
	}
	stemRunes := r[:len(r)-1]
	if len(stemRunes) < 2 {
		return "", false
	}
	return string(stemRunes), true
}

// SearchForward runs the FTS prefix match and applies the deterministic
// ordering cascade of spec §4.4.1 item 2 in Go over the fetched rows.
func (s *SQLiteStore) SearchForward(ctx context.Context, query string, limit int) ([]model.Entry, error) {
	if query == "" {
		return nil, nil
	}
	ftsQuery := ftsPrefixQuery(query)
	if stem, ok := stemOf(query); ok {
		ftsQuery = ftsQuery + " OR " + ftsPrefixQuery(stem)
	}

	sqlQuery := fmt.Sprintf(`
		SELECT %s FROM entries
		WHERE id IN (
			SELECT rowid FROM entries_fts WHERE entries_fts MATCH ?
		)
		LIMIT 500
	`, entryColumns)

	entries, err := s.queryEntries(ctx, sqlQuery, ftsQuery)
	if err != nil {
		return nil, err
	}

	sortForwardCascade(entries, query)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func ftsPrefixQuery(q string) string {
	escaped := strings.ReplaceAll(q, `"`, `""`)
	return fmt.Sprintf(`"%s"*`, escaped)
}

func matchPriority(e model.Entry, q string) int {
	switch {
	case e.Headword == q:
		return 0
	case e.ReadingHiragana == q:
		return 1
	case strings.HasPrefix(e.Headword, q) && e.Headword != q:
		return 2
	case e.ReadingRomaji == q:
		return 3
	case strings.HasPrefix(e.ReadingHiragana, q) && e.ReadingHiragana != q:
		return 4
	default:
		return 5
	}
}

var compoundParticleMarkers = []string{"の", "で", "と", "に", "が", "を", "から", "まで"}

func compoundPriority(e model.Entry, q string, mp int) int {
	if mp != 2 {
		return 0
	}
	ext := strings.TrimPrefix(e.Headword, q)
	for _, p := range compoundParticleMarkers {
		if strings.HasPrefix(ext, p) {
			return 0
		}
	}
	if len([]rune(ext)) <= 2 {
		return 1
	}
	return 2
}

func jlptExistsAndRank(e model.Entry, q string) (exists int, rank int) {
	level := e.JLPTLevel
	// suru-verb priority override: 為る on query "する" is promoted to N5.
	if q == "する" && e.Headword == "為る" {
		level = model.JLPTN5
	}
	if level == model.JLPTNone {
		return 1, 6
	}
	switch level {
	case model.JLPTN5:
		return 0, 1
	case model.JLPTN4:
		return 0, 2
	case model.JLPTN3:
		return 0, 3
	case model.JLPTN2:
		return 0, 4
	case model.JLPTN1:
		return 0, 5
	default:
		return 1, 6
	}
}

func isKatakanaLoanwordExtension(e model.Entry, q string) bool {
	ext := []rune(strings.TrimPrefix(e.Headword, q))
	if len(ext) == 0 {
		return false
	}
	r := ext[0]
	return (r >= 0x30A0 && r <= 0x30FF) || r == 'ー'
}

func matchPriorityWithOverride(e model.Entry, q string) int {
	mp := matchPriority(e, q)
	if q == "する" && e.Headword == "為る" {
		return 0
	}
	return mp
}

// sortForwardCascade orders entries in place following the mandatory
// ordering keys of spec §4.4.1 item 2.
func sortForwardCascade(entries []model.Entry, q string) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		amp := matchPriorityWithOverride(a, q)
		bmp := matchPriorityWithOverride(b, q)
		if amp != bmp {
			return amp < bmp
		}

		acp := compoundPriority(a, q, matchPriority(a, q))
		bcp := compoundPriority(b, q, matchPriority(b, q))
		if acp != bcp {
			return acp < bcp
		}

		aje, ajr := jlptExistsAndRank(a, q)
		bje, bjr := jlptExistsAndRank(b, q)
		if aje != bje {
			return aje < bje
		}
		if ajr != bjr {
			return ajr < bjr
		}

		akata := isKatakanaLoanwordExtension(a, q)
		bkata := isKatakanaLoanwordExtension(b, q)
		if akata != bkata {
			return !akata // non-katakana-extension sorts first
		}

		afreq, bfreq := a.FrequencyRank, b.FrequencyRank
		switch {
		case afreq == nil && bfreq != nil:
			return false
		case afreq != nil && bfreq == nil:
			return true
		case afreq != nil && bfreq != nil && *afreq != *bfreq:
			return *afreq < *bfreq
		}

		return len([]rune(a.Headword)) < len([]rune(b.Headword))
	})
}

// SearchVariantsByReading implements spec §4.4.1 item 3.
func (s *SQLiteStore) SearchVariantsByReading(ctx context.Context, query string) ([]model.Entry, error) {
	if query == "" {
		return nil, nil
	}
	sqlQuery := fmt.Sprintf(`SELECT %s FROM entries WHERE reading_hiragana = ?`, entryColumns)
	entries, err := s.queryEntries(ctx, sqlQuery, query)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		avp := variantPriority(a, query)
		bvp := variantPriority(b, query)
		if avp != bvp {
			return avp < bvp
		}
		aje, ajr := jlptExistsAndRank(a, query)
		bje, bjr := jlptExistsAndRank(b, query)
		if aje != bje {
			return aje < bje
		}
		if ajr != bjr {
			return ajr < bjr
		}
		afreq, bfreq := a.FrequencyRank, b.FrequencyRank
		switch {
		case afreq == nil && bfreq != nil:
			return false
		case afreq != nil && bfreq == nil:
			return true
		case afreq != nil && bfreq != nil && *afreq != *bfreq:
			return *afreq < *bfreq
		}
		return a.ID < b.ID
	})
	return entries, nil
}

func variantPriority(e model.Entry, q string) int {
	switch {
	case e.Headword == q:
		return 0
	case e.ReadingHiragana == q:
		return 1
	default:
		return 2
	}
}

// SearchContains implements spec §4.4.1 item 4.
func (s *SQLiteStore) SearchContains(ctx context.Context, query string, maxLenSlack, limit int) ([]model.Entry, error) {
	if query == "" {
		return nil, nil
	}
	like := "%" + query + "%"
	maxLen := len([]rune(query)) + maxLenSlack
	sqlQuery := fmt.Sprintf(`
		SELECT %s FROM entries
		WHERE (headword LIKE ? OR reading_hiragana LIKE ?)
		AND LENGTH(headword) <= ?
		LIMIT ?
	`, entryColumns)
	entries, err := s.queryEntries(ctx, sqlQuery, like, like, maxLen, limit)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		aje, ajr := jlptExistsAndRank(a, query)
		bje, bjr := jlptExistsAndRank(b, query)
		if aje != bje {
			return aje < bje
		}
		if ajr != bjr {
			return ajr < bjr
		}
		afreq, bfreq := a.FrequencyRank, b.FrequencyRank
		switch {
		case afreq == nil && bfreq != nil:
			return false
		case afreq != nil && bfreq == nil:
			return true
		case afreq != nil && bfreq != nil && *afreq != *bfreq:
			return *afreq < *bfreq
		}
		return len([]rune(a.Headword)) < len([]rune(b.Headword))
	})
	return entries, nil
}

// SearchKanjiCompounds implements spec §4.4.1 item 5.
func (s *SQLiteStore) SearchKanjiCompounds(ctx context.Context, kanji, readingPrefix string, limit int) ([]model.Entry, error) {
	if kanji == "" {
		return nil, nil
	}
	sqlQuery := fmt.Sprintf(`
		SELECT %s FROM entries
		WHERE headword LIKE ?
		AND reading_hiragana LIKE ?
		AND LENGTH(headword) <= 4
		LIMIT ?
	`, entryColumns)
	entries, err := s.queryEntries(ctx, sqlQuery, kanji+"%", readingPrefix+"%", limit)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		al, bl := len([]rune(a.Headword)), len([]rune(b.Headword))
		if al != bl {
			return al < bl
		}
		afreq, bfreq := a.FrequencyRank, b.FrequencyRank
		switch {
		case afreq == nil && bfreq != nil:
			return false
		case afreq != nil && bfreq == nil:
			return true
		case afreq != nil && bfreq != nil && *afreq != *bfreq:
			return *afreq < *bfreq
		}
		return a.ID < b.ID
	})
	return entries, nil
}

// FetchSenses implements spec §6 fetch_senses.
func (s *SQLiteStore) FetchSenses(ctx context.Context, entryID int64) ([]model.Sense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entry_id, sense_order, definition_english, definition_chinese_simplified,
		       definition_chinese_traditional, part_of_speech, usage_notes
		FROM senses WHERE entry_id = ? ORDER BY sense_order ASC
	`, entryID)
	if err != nil {
		return nil, fmt.Errorf("fetching senses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Sense
	for rows.Next() {
		var sn model.Sense
		if err := rows.Scan(&sn.ID, &sn.EntryID, &sn.SenseOrder, &sn.DefinitionEnglish,
			&sn.DefinitionChineseSimplified, &sn.DefinitionChineseTraditional,
			&sn.PartOfSpeech, &sn.UsageNotes); err != nil {
			return nil, fmt.Errorf("scanning sense: %w", err)
		}
		out = append(out, sn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	examples, err := s.fetchExamplesForSenses(ctx, out)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Examples = examples[out[i].ID]
	}
	return out, nil
}

func (s *SQLiteStore) fetchExamplesForSenses(ctx context.Context, senses []model.Sense) (map[int64][]model.Example, error) {
	result := map[int64][]model.Example{}
	if len(senses) == 0 {
		return result, nil
	}
	placeholders := make([]string, len(senses))
	args := make([]any, len(senses))
	for i, sn := range senses {
		placeholders[i] = "?"
		args[i] = sn.ID
	}
	query := fmt.Sprintf(`SELECT sense_id, japanese, english FROM examples WHERE sense_id IN (%s)`,
		strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching examples: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var senseID int64
		var ex model.Example
		if err := rows.Scan(&senseID, &ex.Japanese, &ex.English); err != nil {
			return nil, fmt.Errorf("scanning example: %w", err)
		}
		result[senseID] = append(result[senseID], ex)
	}
	return result, rows.Err()
}
