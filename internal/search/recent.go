package search

import "strings"

// pushRecent puts q at the front, removing an earlier occurrence, and caps
// the list at max entries.
func pushRecent(recent []string, q string, max int) []string {
	q = strings.TrimSpace(q)
	if q == "" {
		return recent
	}
	out := make([]string, 0, len(recent)+1)
	out = append(out, q)
	for _, r := range recent {
		if r != q {
			out = append(out, r)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// mergeRecent appends persisted queries after the ones gathered this
// session, keeping the first occurrence of each.
func mergeRecent(current, persisted []string, max int) []string {
	out := append([]string(nil), current...)
	seen := make(map[string]bool, len(out))
	for _, q := range out {
		seen[q] = true
	}
	for _, q := range persisted {
		q = strings.TrimSpace(q)
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
