package suffixtree

// openEnd marks a leaf whose edge still grows with the builder's phase cursor.
const openEnd int32 = -2

// Node is a suffix tree node. The edge into a node is the text range
// [Start, End]; the root has no incoming edge.
type Node struct {
	start, end  int32
	children    map[Symbol]*Node
	link        *Node // internal nodes only
	suffixIndex int32
	cv          int32
}

func newNode(start, end int32) *Node {
	return &Node{
		start:       start,
		end:         end,
		suffixIndex: -1,
		cv:          -1,
	}
}

func (n *Node) Start() int { return int(n.start) }

func (n *Node) End() int { return int(n.end) }

// Len returns the edge length of a frozen tree.
func (n *Node) Len() int { return int(n.end - n.start + 1) }

func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// SuffixIndex is the text offset of the suffix a leaf spells, -1 elsewhere.
func (n *Node) SuffixIndex() int { return int(n.suffixIndex) }

// CV is the smallest suffix index below n, -1 before annotation.
func (n *Node) CV() int { return int(n.cv) }

// SuffixLink returns the suffix link of an internal node, nil for leaves.
func (n *Node) SuffixLink() *Node { return n.link }

// Child returns the child whose edge starts with s.
func (n *Node) Child(s Symbol) *Node {
	return n.children[s]
}

// NumChildren returns the number of outgoing edges.
func (n *Node) NumChildren() int { return len(n.children) }

// EachChild calls fn for every child in unspecified order.
func (n *Node) EachChild(fn func(s Symbol, child *Node)) {
	for s, child := range n.children {
		fn(s, child)
	}
}

func (n *Node) setChild(s Symbol, child *Node) {
	if n.children == nil {
		n.children = make(map[Symbol]*Node, 2)
	}
	n.children[s] = child
}
