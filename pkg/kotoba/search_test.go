package kotoba_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tomoshibi/kotoba/pkg/config"
	"github.com/tomoshibi/kotoba/pkg/kotoba"
	"github.com/tomoshibi/kotoba/pkg/model"
	"github.com/tomoshibi/kotoba/pkg/store"
)

// fakeStore is an in-memory store.Store used to exercise the full
// pipeline without a real SQLite database.
type fakeStore struct {
	entries  []model.Entry
	schemaOK bool
}

func (s *fakeStore) SearchForward(_ context.Context, query string, limit int) ([]model.Entry, error) {
	var out []model.Entry
	for _, e := range s.entries {
		if e.Headword == query || strings.HasPrefix(e.Headword, query) ||
			strings.HasPrefix(e.ReadingHiragana, query) {
			out = append(out, e)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) SearchVariantsByReading(_ context.Context, query string) ([]model.Entry, error) {
	var out []model.Entry
	for _, e := range s.entries {
		if e.ReadingHiragana == query {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeStore) SearchContains(_ context.Context, query string, _, limit int) ([]model.Entry, error) {
	var out []model.Entry
	for _, e := range s.entries {
		if strings.Contains(e.Headword, query) {
			out = append(out, e)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) SearchKanjiCompounds(_ context.Context, kanji, readingPrefix string, limit int) ([]model.Entry, error) {
	var out []model.Entry
	for _, e := range s.entries {
		if strings.HasPrefix(e.Headword, kanji) && strings.HasPrefix(e.ReadingHiragana, readingPrefix) {
			out = append(out, e)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) SearchReverse(_ context.Context, query string, limit int, _ bool, _ string, _ []string) ([]model.Entry, error) {
	var out []model.Entry
	for _, e := range s.entries {
		for _, sense := range e.Senses {
			if strings.Contains(strings.ToLower(sense.DefinitionEnglish), strings.ToLower(query)) {
				out = append(out, e)
				break
			}
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) FetchSenses(_ context.Context, entryID int64) ([]model.Sense, error) {
	for _, e := range s.entries {
		if e.ID == entryID {
			return e.Senses, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ValidateIntegrity(context.Context) (bool, error) { return s.schemaOK, nil }
func (s *fakeStore) Close() error                                   { return nil }

func newTestEngine(t *testing.T, entries []model.Entry) *kotoba.Engine {
	t.Helper()
	st := &fakeStore{entries: entries, schemaOK: true}
	loader := &config.Loader{}
	manager, err := config.NewManager(loader, "")
	require.NoError(t, err)
	engine, err := kotoba.New(context.Background(), st, manager)
	require.NoError(t, err)
	return engine
}

func TestNew_RejectsStoreWithSchemaMismatch(t *testing.T) {
	st := &fakeStore{schemaOK: false}
	loader := &config.Loader{}
	manager, err := config.NewManager(loader, "")
	require.NoError(t, err)

	_, err = kotoba.New(context.Background(), st, manager)
	require.ErrorIs(t, err, store.ErrSchemaMismatch)
}

func TestSearch_EmptyQueryYieldsEmptyResultNoError(t *testing.T) {
	engine := newTestEngine(t, nil)
	results, err := engine.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSearch_QueryTooLong(t *testing.T) {
	engine := newTestEngine(t, nil)
	_, err := engine.Search(context.Background(), strings.Repeat("a", 200), 10)
	require.ErrorIs(t, err, kotoba.ErrQueryTooLong)
}

func TestSearch_ExactHeadwordIsBucketA(t *testing.T) {
	entries := []model.Entry{
		{ID: 1, Headword: "猫", ReadingHiragana: "ねこ", ReadingRomaji: "neko", CreatedAt: time.Unix(0, 0),
			Senses: []model.Sense{{DefinitionEnglish: "cat"}}},
	}
	engine := newTestEngine(t, entries)
	results, err := engine.Search(context.Background(), "猫", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, model.BucketA, results[0].Bucket)
	require.Equal(t, model.MatchExact, results[0].MatchType)
}

func TestSearch_MaxResultsClampedToHardCap(t *testing.T) {
	var entries []model.Entry
	for i := 0; i < 150; i++ {
		entries = append(entries, model.Entry{
			ID: int64(i + 1), Headword: "食べ物", ReadingHiragana: "たべもの", CreatedAt: time.Unix(0, 0),
			Senses: []model.Sense{{DefinitionEnglish: "food"}},
		})
	}
	engine := newTestEngine(t, entries)
	results, err := engine.Search(context.Background(), "食", 1000)
	require.NoError(t, err)
	require.LessOrEqual(t, len(results), 100)
}

func TestSearch_MaxResultsBelowRangeClampsToOne(t *testing.T) {
	var entries []model.Entry
	for i := 0; i < 5; i++ {
		entries = append(entries, model.Entry{
			ID: int64(i + 1), Headword: "食べ物", ReadingHiragana: "たべもの", CreatedAt: time.Unix(0, 0),
			Senses: []model.Sense{{DefinitionEnglish: "food"}},
		})
	}
	engine := newTestEngine(t, entries)

	for _, maxResults := range []int{0, -5} {
		results, err := engine.Search(context.Background(), "食", maxResults)
		require.NoError(t, err)
		require.Len(t, results, 1, "maxResults=%d must clamp to 1, not the upper bound", maxResults)
	}
}

func TestSearch_ReverseSearchForKanjiInput(t *testing.T) {
	entries := []model.Entry{
		{ID: 1, Headword: "猫", ReadingHiragana: "ねこ", CreatedAt: time.Unix(0, 0),
			Senses: []model.Sense{{DefinitionEnglish: "cat"}}},
	}
	engine := newTestEngine(t, entries)
	// A long run of CJK characters classifies as full kanji script,
	// which always routes to reverse search regardless of language.
	results, err := engine.Search(context.Background(), "猫猫猫猫", 10)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSearch_BreakdownOnlyWhenRequested(t *testing.T) {
	entries := []model.Entry{
		{ID: 1, Headword: "猫", ReadingHiragana: "ねこ", CreatedAt: time.Unix(0, 0),
			Senses: []model.Sense{{DefinitionEnglish: "cat"}}},
	}
	engine := newTestEngine(t, entries)

	plain, err := engine.Search(context.Background(), "猫", 10)
	require.NoError(t, err)
	require.Nil(t, plain[0].Breakdown)

	withBreakdown, err := engine.SearchWithBreakdown(context.Background(), "猫", 10)
	require.NoError(t, err)
	require.NotNil(t, withBreakdown[0].Breakdown)
}
