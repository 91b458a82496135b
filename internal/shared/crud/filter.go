package crud

import "strings"

// Filter keeps the records whose search fields contain q, ignoring case.
// An empty query returns items unchanged.
func Filter[T Record](items []T, q string) []T {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range item.SearchText() {
			if strings.Contains(strings.ToLower(field), q) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
