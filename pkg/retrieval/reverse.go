package retrieval

import (
	"context"
	"fmt"

	"github.com/tomoshibi/kotoba/pkg/model"
	"github.com/tomoshibi/kotoba/pkg/store"
)

// Reverse runs the reverse retrieval strategy of spec §4.4.2 against st,
// clamping limit to MaxLimit.
func Reverse(
	ctx context.Context, st store.Store, q string, isEnglish bool, hint string, coreSet []string, limit int,
) ([]model.Entry, error) {
	limit = clampLimit(limit)
	entries, err := st.SearchReverse(ctx, q, limit, isEnglish, hint, coreSet)
	if err != nil {
		return nil, fmt.Errorf("reverse search: %w", err)
	}
	return entries, nil
}
