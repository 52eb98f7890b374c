package suffixtree

import "context"

// Ukkonen's online construction of Suffix Tree
type builder struct {
	tree *Tree
	text []Symbol

	// active point
	activeNode   *Node
	activeEdge   int32 // text offset of the active edge's first symbol
	activeLength int32

	remaining int32 // suffixes of the current phase not yet represented
	leafEnd   int32 // end of every open leaf
	lastNew   *Node // internal node waiting for its suffix link
}

// Build constructs the suffix tree of text in linear time. text must end with
// the Sentinel and contain it nowhere else.
func Build(ctx context.Context, text []Symbol) (*Tree, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}
	b := &builder{
		tree:       newTree(text),
		text:       text,
		activeEdge: -1,
		leafEnd:    -1,
	}
	b.activeNode = b.tree.root
	done := ctx.Done()
	for pos := range len(text) {
		select {
		case <-done:
			return nil, ctx.Err()
		default:
		}
		b.extend(int32(pos))
	}
	assert(b.remaining == 0, "every suffix ends at a leaf",
		"%d suffixes left implicit after the last phase", b.remaining)
	b.tree.freeze()
	return b.tree, nil
}

func (b *builder) edgeEnd(n *Node) int32 {
	if n.end == openEnd {
		return b.leafEnd
	}
	return n.end
}

func (b *builder) edgeLength(n *Node) int32 {
	return b.edgeEnd(n) - n.start + 1
}

func (b *builder) newLeaf(pos int32) *Node {
	b.tree.nodes++
	return newNode(pos, openEnd)
}

func (b *builder) newInternal(start, end int32) *Node {
	b.tree.nodes++
	n := newNode(start, end)
	n.link = b.tree.root
	return n
}

// walkDown moves the active point onto next when the active length spans its
// whole edge.
func (b *builder) walkDown(next *Node) bool {
	length := b.edgeLength(next)
	if b.activeLength < length {
		return false
	}
	b.activeEdge += length
	b.activeLength -= length
	b.activeNode = next
	return true
}

// extend runs the phase that adds text[pos] to every suffix.
func (b *builder) extend(pos int32) {
	root := b.tree.root
	b.leafEnd = pos
	b.remaining++
	b.lastNew = nil

	for b.remaining > 0 {
		if b.activeLength == 0 {
			b.activeEdge = pos
		}
		edge := b.text[b.activeEdge]
		next := b.activeNode.Child(edge)
		if next == nil {
			b.activeNode.setChild(edge, b.newLeaf(pos))
			if b.lastNew != nil {
				b.lastNew.link = b.activeNode
				b.lastNew = nil
			}
		} else {
			if b.walkDown(next) {
				continue
			}
			if b.text[next.start+b.activeLength] == b.text[pos] {
				if b.lastNew != nil && b.activeNode != root {
					b.lastNew.link = b.activeNode
					b.lastNew = nil
				}
				b.activeLength++
				break
			}
			split := b.newInternal(next.start, next.start+b.activeLength-1)
			b.activeNode.setChild(edge, split)
			split.setChild(b.text[pos], b.newLeaf(pos))
			next.start += b.activeLength
			split.setChild(b.text[next.start], next)
			if b.lastNew != nil {
				b.lastNew.link = split
			}
			b.lastNew = split
		}

		b.remaining--
		if b.activeNode == root && b.activeLength > 0 {
			b.activeLength--
			b.activeEdge = pos - b.remaining + 1
		} else if b.activeNode != root {
			link := b.activeNode.link
			assert(link != nil, "internal nodes carry a suffix link",
				"active node [%d, %d] has none in phase %d", b.activeNode.start, b.activeNode.end, pos)
			b.activeNode = link
		}
	}
}
