package toolkit

import (
	"context"
	"time"

	"github.com/matzehuels/agrikit/pkg/observability"
	"github.com/matzehuels/agrikit/pkg/ordering"
)

// Search runs a prefix search over sorted with a substring fallback (see
// ordering.Search), records the query in the recent-search list, and reports
// which strategy answered.
func Search[T any](ctx context.Context, t *Toolkit, sorted []T, query string, key func(T) string) []T {
	start := time.Now()
	mode := "prefix"
	out := ordering.RangeSearch(sorted, query, key)
	if len(out) == 0 && query != "" {
		mode = "substring"
		out = ordering.Search(sorted, query, key)
	}
	observability.Search().OnSearch(ctx, mode, len(out), time.Since(start))

	if query != "" {
		t.recentMu.Lock()
		t.recent.Add(query)
		t.recentMu.Unlock()
	}
	t.Logger.Debug("search", "query", query, "mode", mode, "results", len(out))
	return out
}

// RecentSearches returns recent queries, newest first.
func (t *Toolkit) RecentSearches() []string {
	t.recentMu.Lock()
	defer t.recentMu.Unlock()
	return t.recent.Items()
}
