package todo

import "sort"

// SortForDisplay returns the tasks in display order: incomplete before
// complete, then by priority rank, then newest first. Ties fall back to the
// id so the order is total.
func SortForDisplay(tasks []Task) []Task {
	sorted := append([]Task(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return displayLess(sorted[i], sorted[j])
	})
	return sorted
}

func sortNodes(nodes []*TaskNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return displayLess(nodes[i].Task, nodes[j].Task)
	})
}

func displayLess(a, b Task) bool {
	if a.Completed != b.Completed {
		return !a.Completed
	}
	if ra, rb := PriorityRank(a.Priority), PriorityRank(b.Priority); ra != rb {
		return ra < rb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}
