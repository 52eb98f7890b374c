package suffixtree

// Annotate stores in every node the smallest suffix index of its subtree, so
// that n.CV() < p tells whether the substring leading to n occurred before
// text offset p. Annotating an annotated tree leaves it unchanged.
func Annotate(t *Tree) {
	type item struct {
		node    *Node
		visited bool
	}
	stack := []item{{node: t.root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		n := top.node
		if n.IsLeaf() {
			stack = stack[:len(stack)-1]
			assert(n.suffixIndex >= 0, "leaves carry a suffix index",
				"leaf [%d, %d] has none", n.start, n.end)
			n.cv = n.suffixIndex
			continue
		}
		if !top.visited {
			stack[len(stack)-1].visited = true
			for _, child := range n.children {
				stack = append(stack, item{node: child})
			}
			continue
		}
		stack = stack[:len(stack)-1]
		least := int32(-1)
		for _, child := range n.children {
			if least < 0 || child.cv < least {
				least = child.cv
			}
		}
		n.cv = least
	}
	t.annotated = true
}
