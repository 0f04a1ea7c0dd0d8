package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tomoshibi/kotoba/pkg/store"
)

func intPtr(v int) *int { return &v }

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestValidateIntegrity_ReportsTrueForMigratedSchema(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newFixtureStore(t, clock, nil)

	ok, err := s.ValidateIntegrity(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Close())
}

func TestSearchForward_OrdersExactHeadwordBeforePrefixExtension(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newFixtureStore(t, clock, []seedEntry{
		{headword: "食べる物", hiragana: "たべるもの", romaji: "taberumono", jlpt: "N5"},
		{headword: "食べる", hiragana: "たべる", romaji: "taberu", jlpt: "N5"},
	})
	defer func() { require.NoError(t, s.Close()) }()

	entries, err := s.SearchForward(context.Background(), "食べる", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "食べる", entries[0].Headword)
	assert.Equal(t, "食べる物", entries[1].Headword)
}

func TestSearchForward_EmptyQueryReturnsNoRowsNoError(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newFixtureStore(t, clock, nil)
	defer func() { require.NoError(t, s.Close()) }()

	entries, err := s.SearchForward(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSearchForward_RespectsLimit(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newFixtureStore(t, clock, []seedEntry{
		{headword: "食べる", hiragana: "たべる", romaji: "taberu"},
		{headword: "食べ物", hiragana: "たべもの", romaji: "tabemono"},
		{headword: "食べ方", hiragana: "たべかた", romaji: "tabekata"},
	})
	defer func() { require.NoError(t, s.Close()) }()

	entries, err := s.SearchForward(context.Background(), "食べ", 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSearchVariantsByReading_PrefersExactHeadwordThenReading(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newFixtureStore(t, clock, []seedEntry{
		{headword: "綺麗", hiragana: "きれい", romaji: "kirei"},
		{headword: "奇麗", hiragana: "きれい", romaji: "kirei"},
		{headword: "きれい", hiragana: "きれい", romaji: "kirei"},
	})
	defer func() { require.NoError(t, s.Close()) }()

	entries, err := s.SearchVariantsByReading(context.Background(), "きれい")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "きれい", entries[0].Headword)
	assert.Equal(t, int64(1), entries[1].ID)
}

func TestSearchContains_ExcludesHeadwordsLongerThanSlack(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newFixtureStore(t, clock, []seedEntry{
		{headword: "本", hiragana: "ほん", romaji: "hon"},
		{headword: "本当にそうだ", hiragana: "ほんとうにそうだ", romaji: "hontouni-souda"},
	})
	defer func() { require.NoError(t, s.Close()) }()

	entries, err := s.SearchContains(context.Background(), "本", 1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "本", entries[0].Headword)
}

func TestSearchKanjiCompounds_OrdersByHeadwordLengthThenFrequency(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newFixtureStore(t, clock, []seedEntry{
		{headword: "新聞", hiragana: "しんぶん", romaji: "shinbun", freq: intPtr(100)},
		{headword: "新", hiragana: "しん", romaji: "shin", freq: intPtr(10)},
	})
	defer func() { require.NoError(t, s.Close()) }()

	entries, err := s.SearchKanjiCompounds(context.Background(), "新", "しん", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "新", entries[0].Headword)
	assert.Equal(t, "新聞", entries[1].Headword)
}

func TestSearchReverse_MatchesWholeWordAndExcludesPossessive(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newFixtureStore(t, clock, []seedEntry{
		{
			headword: "猫", hiragana: "ねこ", romaji: "neko",
			senses: []seedSense{{english: "cat", pos: "noun"}},
		},
		{
			headword: "猫の手", hiragana: "ねこのて", romaji: "nekonote",
			senses: []seedSense{{english: "cat's paw", pos: "noun"}},
		},
	})
	defer func() { require.NoError(t, s.Close()) }()

	entries, err := s.SearchReverse(context.Background(), "cat", 10, true, "", nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "猫", entries[0].Headword)
}

func TestSearchReverse_VerbStrictnessRequiresToPrefix(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newFixtureStore(t, clock, []seedEntry{
		{
			headword: "食べる", hiragana: "たべる", romaji: "taberu",
			senses: []seedSense{{english: "to eat", pos: "verb"}},
		},
		{
			headword: "食傷", hiragana: "しょくしょう", romaji: "shokushou",
			senses: []seedSense{{english: "unable to eat any more", pos: "noun"}},
		},
	})
	defer func() { require.NoError(t, s.Close()) }()

	entries, err := s.SearchReverse(context.Background(), "to eat", 10, true, "", nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "食べる", entries[0].Headword)
}

func TestFetchSenses_OrdersBySenseOrderAndAttachesExamples(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newFixtureStore(t, clock, []seedEntry{
		{
			headword: "飲む", hiragana: "のむ", romaji: "nomu",
			senses: []seedSense{
				{english: "to drink", pos: "verb", examples: []seedExample{{japanese: "水を飲む", english: "drink water"}}},
				{english: "to smoke (a pipe)", pos: "verb"},
			},
		},
	})
	defer func() { require.NoError(t, s.Close()) }()

	senses, err := s.FetchSenses(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, senses, 2)
	assert.Equal(t, "to drink", senses[0].DefinitionEnglish)
	require.Len(t, senses[0].Examples, 1)
	assert.Equal(t, "水を飲む", senses[0].Examples[0].Japanese)
	assert.Equal(t, "to smoke (a pipe)", senses[1].DefinitionEnglish)
}

func TestClose_LeavesNoGoroutinesBehind(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := clockwork.NewFakeClock()
	s := newFixtureStore(t, clock, []seedEntry{{headword: "猫", hiragana: "ねこ", romaji: "neko"}})

	_, err := s.SearchForward(context.Background(), "猫", 10)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestFixture_SeededCreatedAtRoundTrips(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(base)

	s := newFixtureStore(t, clock, []seedEntry{
		{headword: "一", hiragana: "いち", romaji: "ichi", createdAt: base.Unix()},
		{headword: "二", hiragana: "に", romaji: "ni", createdAt: base.Add(time.Hour).Unix()},
	})
	defer func() { require.NoError(t, s.Close()) }()

	entries, err := s.SearchVariantsByReading(context.Background(), "いち")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].CreatedAt.Equal(base))
}
