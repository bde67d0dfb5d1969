package utils

// DedupeByKey returns rows with at most one element per key, preserving the
// first occurrence and the original relative order. Running it on its own
// output is a no-op.
//
// Member lists assembled through the group/profile join can surface the same
// profile more than once; callers collapse those rows by profile id.
func DedupeByKey[T any, K comparable](rows []T, keyFn func(T) K) []T {
	if len(rows) == 0 {
		return rows
	}

	seen := make(map[K]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		k := keyFn(row)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, row)
	}
	return out
}
