// Package store defines the read-only dictionary store interface consumed
// by candidate retrieval (spec §6, component C4's external collaborator),
// plus a concrete SQLite-backed implementation.
//
// The physical schema and build of the seed database are explicitly out of
// scope for the core (spec §1); the schema embedded in this package's
// migrations exists only so the interface has something concrete to run
// against in tests, the same way the teacher's mediadb package owns its own
// migrations for a domain (game metadata) that is equally "somebody else's
// import pipeline" in production.
package store

import (
	"context"
	"errors"

	"github.com/tomoshibi/kotoba/pkg/model"
)

// Sentinel store errors, matched by the taxonomy in spec §7.
var (
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrSchemaMismatch      = errors.New("schema mismatch")
	ErrIntegrityCheckFailed = errors.New("integrity check failed")
)

// Store is the read-only collaborator candidate retrieval is built on. All
// methods may block on the local database; no method ever writes.
type Store interface {
	// SearchForward runs the FTS-backed primary path: a prefix match over
	// headword, reading_hiragana, and reading_romaji, pre-ordered by the
	// SQL cascade of spec §4.4.1 item 2.
	SearchForward(ctx context.Context, query string, limit int) ([]model.Entry, error)
	// SearchVariantsByReading looks up every entry whose reading_hiragana
	// equals query exactly (the pure-kana path of spec §4.4.1 item 3).
	SearchVariantsByReading(ctx context.Context, query string) ([]model.Entry, error)
	// SearchContains finds entries whose headword or reading_hiragana
	// contains query, excluding headwords longer than len(query)+maxLenSlack.
	SearchContains(ctx context.Context, query string, maxLenSlack, limit int) ([]model.Entry, error)
	// SearchKanjiCompounds finds entries whose headword starts with kanji
	// and whose reading starts with readingPrefix (spec §4.4.1 item 5).
	SearchKanjiCompounds(ctx context.Context, kanji, readingPrefix string, limit int) ([]model.Entry, error)
	// SearchReverse finds entries whose English or Chinese definitions
	// plausibly match query (spec §4.4.2). hint and coreSet may be empty.
	SearchReverse(ctx context.Context, query string, limit int, isEnglish bool, hint string, coreSet []string) ([]model.Entry, error)
	// FetchSenses returns every sense of an entry, ordered by sense_order.
	FetchSenses(ctx context.Context, entryID int64) ([]model.Sense, error)
	// ValidateIntegrity reports whether the expected schema (tables,
	// FTS index) is present.
	ValidateIntegrity(ctx context.Context) (bool, error)
	// Close releases the underlying database handle.
	Close() error
}
