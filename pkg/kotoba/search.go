// Package kotoba is the public entrypoint of the dictionary lookup core:
// it wires script classification, orthography normalization, intent
// resolution, candidate retrieval, sense hydration, rare-kanji demotion,
// virtual-entry injection, ranking, and result classification into the
// single `Search` operation of spec §6.
package kotoba

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tomoshibi/kotoba/pkg/classify"
	"github.com/tomoshibi/kotoba/pkg/config"
	"github.com/tomoshibi/kotoba/pkg/intent"
	"github.com/tomoshibi/kotoba/pkg/model"
	"github.com/tomoshibi/kotoba/pkg/normalize"
	"github.com/tomoshibi/kotoba/pkg/ranking"
	"github.com/tomoshibi/kotoba/pkg/resultclass"
	"github.com/tomoshibi/kotoba/pkg/retrieval"
	"github.com/tomoshibi/kotoba/pkg/store"
	"github.com/tomoshibi/kotoba/pkg/virtualentry"
)

const (
	minMaxResults = 1
	maxMaxResults = 100
)

// Engine is the assembled search pipeline: a read-only store and the
// configuration manager that supplies the active ranking configuration.
type Engine struct {
	Store   store.Store
	Manager *config.Manager
}

// New builds an Engine from its two external collaborators and validates
// the store's schema up front. A failed integrity check is a structural
// startup issue (spec §7) and surfaces as the store's own sentinel error,
// not wrapped in a SearchError.
func New(ctx context.Context, st store.Store, manager *config.Manager) (*Engine, error) {
	ok, err := st.ValidateIntegrity(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, store.ErrSchemaMismatch
	}
	return &Engine{Store: st, Manager: manager}, nil
}

// Search runs the full pipeline for one query and returns its ranked,
// classified results. An empty (post-trim) query yields an empty slice
// with a nil error, per spec §6; every other input error is returned
// directly, and retrieval failures are wrapped in a *SearchError.
func (e *Engine) Search(ctx context.Context, query string, maxResults int) ([]model.RankedEntry, error) {
	return e.search(ctx, query, maxResults, false)
}

// SearchWithBreakdown behaves like Search but keeps each result's
// ScoreBreakdown (spec component C10). Both paths compute the breakdown;
// Search clears it before returning.
func (e *Engine) SearchWithBreakdown(ctx context.Context, query string, maxResults int) ([]model.RankedEntry, error) {
	return e.search(ctx, query, maxResults, true)
}

func (e *Engine) search(ctx context.Context, query string, maxResults int, withBreakdown bool) ([]model.RankedEntry, error) {
	rawTrimmed := trimmed(query)
	if rawTrimmed == "" {
		return nil, nil
	}

	sanitizedFull, err := normalize.Sanitize(rawTrimmed)
	if err != nil {
		return nil, mapInputError(err)
	}

	script := classify.Classify(sanitizedFull)
	resolution := intent.Resolve(rawTrimmed, script)

	queryText := resolution.Base
	if baseSanitized, err := normalize.Sanitize(resolution.Base); err == nil && baseSanitized != "" {
		queryText = baseSanitized
	} else {
		queryText = sanitizedFull
	}
	normalized := normalize.Normalize(queryText, script, resolution.IsEnglish)

	entries, err := e.retrieve(ctx, normalized, script, resolution, maxResults)
	if err != nil {
		return nil, &SearchError{Cause: err}
	}

	if err := e.hydrateSenses(ctx, entries); err != nil {
		return nil, &SearchError{Cause: err}
	}

	if !resolution.UseReverseSearch {
		entries = demoteRareKanji(entries)
		entries = virtualentry.Inject(normalized, entries)
	}

	cfg := e.Manager.Active()
	registry, err := ranking.Build(cfg)
	if err != nil {
		return nil, &SearchError{Cause: err}
	}
	engine := ranking.NewEngine(registry)

	candidates := make([]ranking.Candidate, len(entries))
	for i, entry := range entries {
		candidates[i] = ranking.Candidate{
			Entry:   entry,
			Context: scoringContext(normalized, script, resolution.UseReverseSearch, entry),
		}
	}

	ranked := engine.Rank(candidates, cfg.TieBreakers)
	for i := range ranked {
		ranked[i] = resultclass.Classify(normalized, resolution.UseReverseSearch, ranked[i])
		if !withBreakdown {
			ranked[i].Breakdown = nil
		}
	}

	limit := clampMaxResults(maxResults)
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (e *Engine) retrieve(
	ctx context.Context, normalized string, script model.ScriptType, resolution intent.Resolution, maxResults int,
) ([]model.Entry, error) {
	if resolution.UseReverseSearch {
		var coreSet []string
		if resolution.IsEnglish {
			coreSet = intent.CoreSet(resolution.Base, resolution.Hint)
		}
		return retrieval.Reverse(ctx, e.Store, normalized, resolution.IsEnglish, resolution.Hint, coreSet, maxResults)
	}
	return retrieval.Forward(ctx, e.Store, normalized, script, maxResults)
}

// hydrateSenses fills in Senses for every entry that doesn't already carry
// them. It runs on retrieval's raw output, before rare-kanji demotion and
// virtual-entry injection: both of those passes inspect Senses (the former
// via Entry.IsRareKanji, the latter by cloning a source entry's Senses), so
// they must see real data rather than the nils retrieval returns. Fetches
// run concurrently: each is an independent read against the store. Virtual
// entries are injected only after this point, so the IsVirtual guard below
// is defensive rather than load-bearing.
func (e *Engine) hydrateSenses(ctx context.Context, entries []model.Entry) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := range entries {
		if entries[i].IsVirtual() || entries[i].Senses != nil {
			continue
		}
		i := i
		g.Go(func() error {
			senses, err := e.Store.FetchSenses(gctx, entries[i].ID)
			if err != nil {
				return fmt.Errorf("fetching senses for entry %d: %w", entries[i].ID, err)
			}
			entries[i].Senses = senses
			return nil
		})
	}
	return g.Wait()
}

// demoteRareKanji stably moves entries with a rare-kanji headword (a kanji
// surface for a word whose canonical form is kana) after every other entry.
// This is the final pass of forward retrieval, but it depends on Senses
// (Entry.IsRareKanji inspects usage-note markers), which retrieval itself
// never populates, so it runs here, after hydrateSenses.
func demoteRareKanji(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, 0, len(entries))
	var rare []model.Entry
	for _, e := range entries {
		if e.IsRareKanji() {
			rare = append(rare, e)
		} else {
			out = append(out, e)
		}
	}
	return append(out, rare...)
}

func scoringContext(normalized string, script model.ScriptType, useReverseSearch bool, entry model.Entry) model.ScoringContext {
	var matchType model.MatchType
	var isExactHeadword, isLemmaMatch bool

	if useReverseSearch {
		matchType = resultclass.ReverseMatchType(normalized, entry)
	} else {
		matchType = resultclass.ForwardMatchType(normalized, entry)
		isExactHeadword = entry.Headword == normalized
		isLemmaMatch = !isExactHeadword &&
			(entry.ReadingHiragana == normalized || entry.ReadingRomaji == normalized)
	}

	return model.ScoringContext{
		QueryNormalized:  normalized,
		ScriptType:       script,
		MatchType:        matchType,
		IsExactHeadword:  isExactHeadword,
		IsLemmaMatch:     isLemmaMatch,
		UseReverseSearch: useReverseSearch,
	}
}

func clampMaxResults(maxResults int) int {
	if maxResults < minMaxResults {
		return minMaxResults
	}
	if maxResults > maxMaxResults {
		return maxMaxResults
	}
	return maxResults
}

func mapInputError(err error) error {
	switch {
	case errors.Is(err, normalize.ErrQueryTooLong):
		return fmt.Errorf("%w: %w", ErrQueryTooLong, err)
	case errors.Is(err, normalize.ErrInvalidCharacters):
		return fmt.Errorf("%w: %w", ErrInvalidChars, err)
	default:
		return err
	}
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
