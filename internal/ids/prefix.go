package ids

import (
	"sort"
	"strings"
)

// UniquePrefixLengths returns the shortest unique prefix length for each ID.
// IDs are compared case-insensitively; the map is keyed by lowercased ID.
func UniquePrefixLengths(ids []string) map[string]int {
	uniqueIDs := normalizeUnique(ids)
	sort.Strings(uniqueIDs)

	// Neighbors in sorted order share the longest prefixes.
	lengths := make(map[string]int, len(uniqueIDs))
	for i, id := range uniqueIDs {
		shared := 0
		if i > 0 {
			shared = max(shared, commonPrefixLength(id, uniqueIDs[i-1]))
		}
		if i+1 < len(uniqueIDs) {
			shared = max(shared, commonPrefixLength(id, uniqueIDs[i+1]))
		}
		lengths[id] = min(shared+1, len(id))
	}

	return lengths
}

// MatchPrefix finds the ID that prefix identifies. An exact match wins even
// when it is also a prefix of other IDs.
func MatchPrefix(ids []string, prefix string) (match string, found bool, ambiguous bool) {
	needle := strings.ToLower(strings.TrimSpace(prefix))
	if needle == "" {
		return "", false, false
	}

	for _, id := range ids {
		if strings.ToLower(id) == needle {
			return id, true, false
		}
	}

	for _, id := range ids {
		if !strings.HasPrefix(strings.ToLower(id), needle) {
			continue
		}
		if found && id != match {
			return "", true, true
		}
		match, found = id, true
	}
	return match, found, false
}

func normalizeUnique(ids []string) []string {
	uniqueIDs := make([]string, 0, len(ids))
	seen := make(map[string]bool)
	for _, id := range ids {
		idLower := strings.ToLower(id)
		if idLower == "" || seen[idLower] {
			continue
		}
		seen[idLower] = true
		uniqueIDs = append(uniqueIDs, idLower)
	}
	return uniqueIDs
}

func commonPrefixLength(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
