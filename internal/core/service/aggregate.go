package service

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/rl1809/nft-ownership/internal/core/domain"
	"github.com/rl1809/nft-ownership/internal/metrics"
)

// SortOrder decides how report items are ordered.
type SortOrder string

const (
	// SortLexical orders ids by their decimal text, so "10002" sorts before "9999".
	SortLexical SortOrder = "lexical"
	SortNumeric SortOrder = "numeric"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(s)); o {
	case "", SortLexical:
		return SortLexical, nil
	case SortNumeric:
		return SortNumeric, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// Aggregate receives exactly n completions from results, applies the failure
// policy, drops items that are not owned and sorts the rest.
func Aggregate(n int, results <-chan domain.ItemResult, order SortOrder, logger *slog.Logger) []domain.OwnershipItem {
	if logger == nil {
		logger = slog.Default()
	}

	items := make([]domain.OwnershipItem, 0, n)
	for received := 0; received < n; received++ {
		result, ok := <-results
		if !ok {
			logger.Error("completion channel closed early", "received", received, "expected", n)
			break
		}
		if item, owned := applyFailurePolicy(result, logger); owned {
			items = append(items, item)
		}
	}

	SortItems(items, order)
	return items
}

// applyFailurePolicy turns a completion into a report item. A failed balance
// query counts as not owned; failed metadata becomes the unknown metadata.
func applyFailurePolicy(result domain.ItemResult, logger *slog.Logger) (domain.OwnershipItem, bool) {
	if result.BalanceErr != nil {
		metrics.ItemFailuresTotal.WithLabelValues(metrics.FailureBalance).Inc()
		logger.Debug("balance query failed, treating as not owned", "id", result.ID.String(), "error", result.BalanceErr)
		return domain.OwnershipItem{}, false
	}
	if result.Amount == 0 {
		return domain.OwnershipItem{}, false
	}

	item := domain.OwnershipItem{ID: result.ID, Amount: result.Amount, Metadata: result.Metadata}
	if result.MetadataErr != nil {
		metrics.ItemFailuresTotal.WithLabelValues(metrics.FailureMetadata).Inc()
		logger.Debug("metadata unavailable, using unknown metadata", "id", result.ID.String(), "error", result.MetadataErr)
		item.Metadata = domain.NFTMetadata{}
	}
	return item, true
}

// SortItems orders items in place.
func SortItems(items []domain.OwnershipItem, order SortOrder) {
	if order == SortNumeric {
		sort.Slice(items, func(i, j int) bool {
			return items[i].ID < items[j].ID
		})
		return
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID.String() < items[j].ID.String()
	})
}
