package domain

import "sort"

// Prioritize returns a copy of items ordered by priority, highest first.
// Items sharing a priority keep their collection order.
func Prioritize(items []WatchItem) []WatchItem {
	sorted := make([]WatchItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return sorted
}
