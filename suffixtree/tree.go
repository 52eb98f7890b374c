package suffixtree

// Tree is a suffix tree over a sentinel-terminated text. The tree keeps a
// reference to the text and never copies it; callers must not modify the text
// while the tree is alive.
type Tree struct {
	text      []Symbol
	root      *Node
	nodes     int
	leaves    int
	annotated bool
}

func newTree(text []Symbol) *Tree {
	root := newNode(-1, -1)
	root.link = root
	return &Tree{
		text:  text,
		root:  root,
		nodes: 1,
	}
}

func (t *Tree) Root() *Node { return t.root }

// Text returns the backing text, sentinel included.
func (t *Tree) Text() []Symbol { return t.text }

// Len returns the text length, sentinel included.
func (t *Tree) Len() int { return len(t.text) }

func (t *Tree) Nodes() int { return t.nodes }

func (t *Tree) Leaves() int { return t.leaves }

func (t *Tree) Annotated() bool { return t.annotated }

// Label returns the edge label leading into n.
func (t *Tree) Label(n *Node) []Symbol {
	if n == t.root {
		return nil
	}
	return t.text[n.start : n.end+1]
}

type frame struct {
	node  *Node
	depth int32
}

// walk visits every node in pre-order. depth is the length of the path from
// the root to the node, its own edge included.
func (t *Tree) walk(fn func(n *Node, depth int32)) {
	stack := []frame{{node: t.root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(top.node, top.depth)
		for _, child := range top.node.children {
			stack = append(stack, frame{
				node:  child,
				depth: top.depth + child.end - child.start + 1,
			})
		}
	}
}

// freeze closes every open leaf at the last text offset and assigns suffix
// indices as len(text) minus the path length.
func (t *Tree) freeze() {
	size := int32(len(t.text))
	stack := []frame{{node: t.root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := top.node
		if n != t.root && n.IsLeaf() {
			n.end = size - 1
			depth := top.depth + n.end - n.start + 1
			n.suffixIndex = size - depth
			t.leaves++
			continue
		}
		for _, child := range n.children {
			depth := top.depth
			if n != t.root {
				depth += n.end - n.start + 1
			}
			stack = append(stack, frame{node: child, depth: depth})
		}
	}
}

// DistinctSubstrings counts the distinct non-empty substrings of the text
// without the sentinel.
func (t *Tree) DistinctSubstrings() int {
	var total int
	t.walk(func(n *Node, _ int32) {
		if n == t.root {
			return
		}
		total += n.Len()
		if n.IsLeaf() {
			total--
		}
	})
	return total
}

// Validate checks the structural invariants of a built tree and, once it has
// been annotated, of its cv values.
func (t *Tree) Validate() error {
	root := t.root
	if root.start != -1 {
		return violation("root has no incoming edge", "root start is %d", root.start)
	}
	if root.link != root {
		return violation("root links to itself", "root link is %p", root.link)
	}
	size := int32(len(t.text))
	seen := make([]bool, size)
	var (
		leaves int
		err    error
	)
	t.walk(func(n *Node, depth int32) {
		if err != nil || n == root {
			return
		}
		if n.end == openEnd || n.start < 0 || n.end < n.start || n.end >= size {
			err = violation("edge references the text", "edge [%d, %d] in text of length %d", n.start, n.end, size)
			return
		}
		if n.IsLeaf() {
			leaves++
			if n.suffixIndex != size-depth {
				err = violation("leaf suffix index equals text length minus path length",
					"leaf [%d, %d] has index %d, want %d", n.start, n.end, n.suffixIndex, size-depth)
				return
			}
			if seen[n.suffixIndex] {
				err = violation("every suffix ends at a distinct leaf", "suffix %d reached twice", n.suffixIndex)
				return
			}
			seen[n.suffixIndex] = true
			if t.annotated && n.cv != n.suffixIndex {
				err = violation("leaf cv equals its suffix index", "leaf %d has cv %d", n.suffixIndex, n.cv)
			}
			return
		}
		if n.NumChildren() < 2 {
			err = violation("internal nodes branch", "node [%d, %d] has %d children", n.start, n.end, n.NumChildren())
			return
		}
		if n.link == nil {
			err = violation("internal nodes carry a suffix link", "node [%d, %d] has none", n.start, n.end)
		}
	})
	if err != nil {
		return err
	}
	if leaves != len(t.text) {
		return violation("every suffix ends at a distinct leaf", "%d leaves for %d suffixes", leaves, len(t.text))
	}
	if t.annotated {
		return t.validateCV()
	}
	return nil
}

func (t *Tree) validateCV() error {
	var err error
	t.walk(func(n *Node, _ int32) {
		if err != nil || n.IsLeaf() {
			return
		}
		least := int32(-1)
		for _, child := range n.children {
			if child.cv < n.cv {
				err = violation("cv never increases towards the root", "child cv %d below parent cv %d", child.cv, n.cv)
				return
			}
			if least < 0 || child.cv < least {
				least = child.cv
			}
		}
		if n.cv != least {
			err = violation("internal cv is the minimum of its children", "cv %d, minimum %d", n.cv, least)
		}
	})
	return err
}
