package runner

// Grouped is anything that can be placed in a context tree.
type Grouped interface {
	ContextNames() []string
}

// Tree groups items by their context-name sequences. The root has an empty
// name; each child corresponds to one more context name.
type Tree[T Grouped] struct {
	Name     string
	Tests    []T
	Children []*Tree[T]

	index map[string]*Tree[T]
}

// BuildTree builds the context trie of items. Children keep the order in
// which their name was first seen and items keep their input order within a
// node.
func BuildTree[T Grouped](items []T) *Tree[T] {
	root := newNode[T]("")
	for _, item := range items {
		node := root
		for _, name := range item.ContextNames() {
			node = node.child(name)
		}
		node.Tests = append(node.Tests, item)
	}
	return root
}

func newNode[T Grouped](name string) *Tree[T] {
	return &Tree[T]{Name: name, index: make(map[string]*Tree[T])}
}

func (t *Tree[T]) child(name string) *Tree[T] {
	if c, ok := t.index[name]; ok {
		return c
	}
	c := newNode[T](name)
	t.index[name] = c
	t.Children = append(t.Children, c)
	return c
}

// Child returns the direct child named name, or nil.
func (t *Tree[T]) Child(name string) *Tree[T] {
	return t.index[name]
}

// Structure returns the nested groups below t.
func (t *Tree[T]) Structure() []*Tree[T] {
	return t.Children
}

// FlatOrder lists the node's own items first, then each child's items
// recursively in first-seen order.
func (t *Tree[T]) FlatOrder() []T {
	var out []T
	t.Walk(func(_ int, node *Tree[T]) {
		out = append(out, node.Tests...)
	})
	return out
}

// Walk visits t and its descendants depth first. depth is 0 for t.
func (t *Tree[T]) Walk(fn func(depth int, node *Tree[T])) {
	t.walk(0, fn)
}

func (t *Tree[T]) walk(depth int, fn func(int, *Tree[T])) {
	fn(depth, t)
	for _, c := range t.Children {
		c.walk(depth+1, fn)
	}
}
