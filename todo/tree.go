package todo

// TaskNode is a task with its child nodes. It encodes as the task's fields
// plus a "children" array.
type TaskNode struct {
	Task
	Children []*TaskNode `json:"children"`
}

// BuildTree arranges tasks into a forest using their parent ids.
//
// A task is a root when its parent id is empty or names no task in the
// collection. Siblings keep their input order. Every task appears exactly
// once: tasks caught in a parent cycle are promoted to roots in input order
// and the edge closing the cycle is dropped.
func BuildTree(tasks []Task) []*TaskNode {
	present := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		present[task.ID] = true
	}

	// Group children by parent id once.
	childrenByParent := make(map[string][]int)
	var roots []int
	for i, task := range tasks {
		if task.ParentID == "" || !present[task.ParentID] {
			roots = append(roots, i)
			continue
		}
		childrenByParent[task.ParentID] = append(childrenByParent[task.ParentID], i)
	}

	placed := make(map[string]bool, len(tasks))
	var build func(i int) *TaskNode
	build = func(i int) *TaskNode {
		node := &TaskNode{Task: tasks[i], Children: []*TaskNode{}}
		placed[tasks[i].ID] = true
		for _, child := range childrenByParent[tasks[i].ID] {
			if placed[tasks[child].ID] {
				continue
			}
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	forest := make([]*TaskNode, 0, len(roots))
	for _, i := range roots {
		if placed[tasks[i].ID] {
			continue
		}
		forest = append(forest, build(i))
	}

	// Whatever is left hangs off a cycle.
	for i, task := range tasks {
		if placed[task.ID] {
			continue
		}
		forest = append(forest, build(i))
	}

	return forest
}

// SortTree orders every sibling group of the forest with the display order,
// in place.
func SortTree(forest []*TaskNode) {
	sortNodes(forest)
	for _, node := range forest {
		SortTree(node.Children)
	}
}

// CountNodes returns the number of nodes in the forest.
func CountNodes(forest []*TaskNode) int {
	count := 0
	for _, node := range forest {
		count += 1 + CountNodes(node.Children)
	}
	return count
}

// FlatNode is one visible row of a flattened forest.
type FlatNode struct {
	Node      *TaskNode
	Depth     int
	Collapsed bool
}

// HasChildren reports whether the row's node has children, visible or not.
func (f FlatNode) HasChildren() bool {
	return len(f.Node.Children) > 0
}

// Flatten walks the forest depth-first. Descendants of nodes whose id is in
// collapsed are omitted; the collapsed node itself is still listed.
func Flatten(forest []*TaskNode, collapsed map[string]bool) []FlatNode {
	var rows []FlatNode
	var walk func(nodes []*TaskNode, depth int)
	walk = func(nodes []*TaskNode, depth int) {
		for _, node := range nodes {
			isCollapsed := collapsed[node.ID] && len(node.Children) > 0
			rows = append(rows, FlatNode{Node: node, Depth: depth, Collapsed: isCollapsed})
			if !isCollapsed {
				walk(node.Children, depth+1)
			}
		}
	}
	walk(forest, 0)
	return rows
}
