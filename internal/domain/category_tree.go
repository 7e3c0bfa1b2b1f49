package domain

// CategoryTree indexes a flat list of categories by id and by parent id, so
// subcategories can be resolved without further queries.
type CategoryTree struct {
	byID     map[int64]*Category
	order    []int64
	children map[int64][]int64
}

// CategoryNode is a category with its subcategories expanded.
type CategoryNode struct {
	*Category
	Subcategories []*CategoryNode
}

// NewCategoryTree builds the index. The input order is preserved for roots
// and for siblings.
func NewCategoryTree(categories []*Category) *CategoryTree {
	t := &CategoryTree{
		byID:     make(map[int64]*Category, len(categories)),
		order:    make([]int64, 0, len(categories)),
		children: make(map[int64][]int64),
	}
	for _, c := range categories {
		t.byID[c.ID] = c
		t.order = append(t.order, c.ID)
	}
	for _, id := range t.order {
		c := t.byID[id]
		if c.ParentID == nil {
			continue
		}
		// Dangling parents behave like roots.
		if _, ok := t.byID[*c.ParentID]; ok {
			t.children[*c.ParentID] = append(t.children[*c.ParentID], id)
		}
	}
	return t
}

// Get returns the category with id.
func (t *CategoryTree) Get(id int64) (*Category, bool) {
	c, ok := t.byID[id]
	return c, ok
}

// Len returns the number of categories in the tree.
func (t *CategoryTree) Len() int {
	return len(t.order)
}

// Subcategories returns the direct children of id.
func (t *CategoryTree) Subcategories(id int64) []*Category {
	ids := t.children[id]
	out := make([]*Category, 0, len(ids))
	for _, childID := range ids {
		out = append(out, t.byID[childID])
	}
	return out
}

// Ancestors returns the parent chain of id, nearest first.
func (t *CategoryTree) Ancestors(id int64) []int64 {
	var chain []int64
	seen := map[int64]bool{id: true}
	current, ok := t.byID[id]
	for ok && current.ParentID != nil {
		parentID := *current.ParentID
		if seen[parentID] {
			break
		}
		seen[parentID] = true
		chain = append(chain, parentID)
		current, ok = t.byID[parentID]
	}
	return chain
}

// IsAncestor reports whether ancestor appears in the parent chain of id.
func (t *CategoryTree) IsAncestor(ancestor, id int64) bool {
	for _, a := range t.Ancestors(id) {
		if a == ancestor {
			return true
		}
	}
	return false
}

// Expand returns the node for id with every level of subcategories filled in.
func (t *CategoryTree) Expand(id int64) (*CategoryNode, bool) {
	if _, ok := t.byID[id]; !ok {
		return nil, false
	}
	return t.expand(id, map[int64]bool{}), true
}

// ExpandAll expands every category, roots and non-roots alike, in input order.
func (t *CategoryTree) ExpandAll() []*CategoryNode {
	nodes := make([]*CategoryNode, 0, len(t.order))
	for _, id := range t.order {
		nodes = append(nodes, t.expand(id, map[int64]bool{}))
	}
	return nodes
}

func (t *CategoryTree) expand(id int64, path map[int64]bool) *CategoryNode {
	node := &CategoryNode{Category: t.byID[id], Subcategories: []*CategoryNode{}}
	path[id] = true
	for _, childID := range t.children[id] {
		// The store keeps the graph acyclic; the path check only protects
		// against rows written outside this service.
		if path[childID] {
			continue
		}
		node.Subcategories = append(node.Subcategories, t.expand(childID, path))
	}
	delete(path, id)
	return node
}
