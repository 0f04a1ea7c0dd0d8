// Package retrieval implements candidate retrieval (spec component C4): it
// dispatches on the intent resolver's decision to run the forward or
// reverse strategy cascade against a store.Store, merges the per-strategy
// results without duplicating by id, and applies the suru-verb fallback
// pass. Rare-kanji demotion depends on sense data this package's callers
// haven't hydrated yet, so it runs downstream, after senses are fetched.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tomoshibi/kotoba/pkg/model"
	"github.com/tomoshibi/kotoba/pkg/store"
)

// MaxLimit is the hard cap every retrieval path is clamped to (spec §4.4,
// "limit semantics").
const MaxLimit = 100

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// dedup appends entries from extra to base that are not already present by
// id, preserving base's order and extra's relative order among new entries.
func dedup(base []model.Entry, extra []model.Entry) []model.Entry {
	seen := make(map[int64]bool, len(base))
	for _, e := range base {
		seen[e.ID] = true
	}
	out := base
	for _, e := range extra {
		if !seen[e.ID] {
			seen[e.ID] = true
			out = append(out, e)
		}
	}
	return out
}

// isPureKana reports whether script is a pure-kana script (hiragana or
// katakana), the condition for reading-variant expansion (spec §4.4.1
// item 3).
func isPureKana(script model.ScriptType) bool {
	return script == model.ScriptHiragana || script == model.ScriptKatakana
}

// firstKanjiAndTwoKana extracts the first kanji character and the first
// two hiragana characters of a mixed query, for kanji-compound expansion
// (spec §4.4.1 item 5). ok is false if either is missing.
func firstKanjiAndTwoKana(q string) (kanji, twoKana string, ok bool) {
	runes := []rune(q)
	kanjiIdx := -1
	for i, r := range runes {
		if r >= 0x4E00 && r <= 0x9FFF {
			kanjiIdx = i
			break
		}
	}
	if kanjiIdx < 0 {
		return "", "", false
	}
	kanji = string(runes[kanjiIdx])

	var kana []rune
	for _, r := range runes {
		if r >= 0x3040 && r <= 0x309F {
			kana = append(kana, r)
			if len(kana) == 2 {
				break
			}
		}
	}
	if len(kana) < 2 {
		return "", "", false
	}
	return kanji, string(kana), true
}

// Forward runs the forward retrieval cascade of spec §4.4.1.
func Forward(ctx context.Context, st store.Store, q string, script model.ScriptType, limit int) ([]model.Entry, error) {
	limit = clampLimit(limit)

	var primary, variants, compounds []model.Entry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		primary, err = st.SearchForward(gctx, q, limit)
		if err != nil {
			return fmt.Errorf("primary forward search: %w", err)
		}
		return nil
	})
	if isPureKana(script) {
		g.Go(func() error {
			var err error
			variants, err = st.SearchVariantsByReading(gctx, q)
			if err != nil {
				return fmt.Errorf("reading variant search: %w", err)
			}
			return nil
		})
	}
	kanji, twoKana, canCompound := firstKanjiAndTwoKana(q)
	if script == model.ScriptMixed && canCompound {
		g.Go(func() error {
			var err error
			compounds, err = st.SearchKanjiCompounds(gctx, kanji, twoKana, limit)
			if err != nil {
				return fmt.Errorf("kanji compound search: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	combined := append([]model.Entry(nil), primary...)
	if isPureKana(script) {
		combined = dedup(combined, variants)
	}

	if len(combined) < limit {
		contains, err := st.SearchContains(ctx, q, 3, limit-len(combined))
		if err != nil {
			return nil, fmt.Errorf("contains search: %w", err)
		}
		combined = dedup(combined, contains)
	}

	if script == model.ScriptMixed && canCompound {
		filtered := compounds[:0:0]
		for _, e := range compounds {
			if e.Headword != q {
				filtered = append(filtered, e)
			}
		}
		combined = dedup(combined, filtered)
	}

	if len(combined) == 0 && strings.HasSuffix(q, "する") {
		base := strings.TrimSuffix(q, "する")
		if base != "" {
			fallback, err := Forward(ctx, st, base, script, limit)
			if err != nil {
				return nil, err
			}
			combined = fallback
		}
	}

	if len(combined) > limit {
		combined = combined[:limit]
	}
	return combined, nil
}
