package suffixtree

import "context"

// BuildNaive constructs the same tree as Build by inserting every suffix from
// the root and compressing single-child paths afterwards. It takes quadratic
// time and exists to cross-check Build.
func BuildNaive(ctx context.Context, text []Symbol) (*Tree, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}
	tree := newTree(text)
	done := ctx.Done()
	for i := range len(text) {
		select {
		case <-done:
			return nil, ctx.Err()
		default:
		}
		tree.insertSuffix(int32(i))
	}
	tree.compressPaths()
	tree.freeze()
	return tree, nil
}

func (t *Tree) insertSuffix(suffix int32) {
	size := int32(len(t.text))
	node, pos := t.root, suffix
	for pos < size {
		c := t.text[pos]
		child := node.Child(c)
		if child == nil {
			node.setChild(c, t.naiveLeaf(pos, suffix))
			return
		}
		length := child.end - child.start + 1
		for j := int32(0); j < length; j++ {
			if t.text[child.start+j] != t.text[pos+j] {
				t.splitEdge(node, c, child, j, pos, suffix)
				return
			}
		}
		node, pos = child, pos+length
	}
	panic(violation("every suffix ends at a distinct leaf", "suffix %d is a prefix of another suffix", suffix))
}

func (t *Tree) naiveLeaf(pos, suffix int32) *Node {
	t.nodes++
	leaf := newNode(pos, int32(len(t.text))-1)
	leaf.suffixIndex = suffix
	return leaf
}

// splitEdge inserts a branching node at offset at of the edge into child.
func (t *Tree) splitEdge(parent *Node, c Symbol, child *Node, at, pos, suffix int32) {
	t.nodes++
	split := newNode(child.start, child.start+at-1)
	split.link = t.root
	parent.setChild(c, split)
	child.start += at
	split.setChild(t.text[child.start], child)
	split.setChild(t.text[pos+at], t.naiveLeaf(pos+at, suffix))
}

// compressPaths merges every internal node that has a single child into that
// child.
func (t *Tree) compressPaths() {
	stack := []*Node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for c, child := range n.children {
			for len(child.children) == 1 {
				var only *Node
				for _, only = range child.children {
				}
				merged := only.start - (child.end - child.start + 1)
				assert(merged >= 0, "edges reference the text",
					"cannot merge edge [%d, %d] into [%d, %d]", child.start, child.end, only.start, only.end)
				for j := child.start; j <= child.end; j++ {
					assert(t.text[j] == t.text[merged+j-child.start], "edges reference the text",
						"cannot merge edge [%d, %d] into [%d, %d]", child.start, child.end, only.start, only.end)
				}
				only.start = merged
				n.children[c] = only
				t.nodes--
				child = only
			}
			if !child.IsLeaf() {
				stack = append(stack, child)
			}
		}
	}
}
