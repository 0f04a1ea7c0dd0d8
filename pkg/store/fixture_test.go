package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/tomoshibi/kotoba/pkg/store"
)

// seedEntry is the column set fixture tests populate; seededSense and
// seededExample mirror it one level down.
type seedEntry struct {
	headword  string
	hiragana  string
	romaji    string
	jlpt      string
	freq      *int
	createdAt int64
	senses    []seedSense
}

type seedSense struct {
	english  string
	pos      string
	notes    string
	examples []seedExample
}

type seedExample struct {
	japanese string
	english  string
}

// newFixtureStore builds an in-memory, fully migrated store from entries,
// stamping created_at from clock so ordering tests that tie-break on it are
// deterministic rather than racing the wall clock.
func newFixtureStore(t *testing.T, clock clockwork.Clock, entries []seedEntry) *store.SQLiteStore {
	t.Helper()
	ctx := context.Background()

	db, err := store.OpenForSeeding(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, e := range entries {
		createdAt := e.createdAt
		if createdAt == 0 {
			createdAt = clock.Now().Unix()
		}
		insertSeedEntry(t, ctx, db, e, createdAt)
	}

	return store.NewFromDB(db)
}

func insertSeedEntry(t *testing.T, ctx context.Context, db *sql.DB, e seedEntry, createdAt int64) {
	t.Helper()
	res, err := db.ExecContext(ctx,
		`INSERT INTO entries (headword, reading_hiragana, reading_romaji, frequency_rank, jlpt_level, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.headword, e.hiragana, e.romaji, e.freq, e.jlpt, createdAt,
	)
	require.NoError(t, err)
	entryID, err := res.LastInsertId()
	require.NoError(t, err)

	for i, sn := range e.senses {
		sres, err := db.ExecContext(ctx,
			`INSERT INTO senses (entry_id, sense_order, definition_english, part_of_speech, usage_notes)
			 VALUES (?, ?, ?, ?, ?)`,
			entryID, i, sn.english, sn.pos, sn.notes,
		)
		require.NoError(t, err)
		senseID, err := sres.LastInsertId()
		require.NoError(t, err)

		for _, ex := range sn.examples {
			_, err := db.ExecContext(ctx,
				`INSERT INTO examples (sense_id, japanese, english) VALUES (?, ?, ?)`,
				senseID, ex.japanese, ex.english,
			)
			require.NoError(t, err)
		}
	}
}
