// Package lz factors a text into literals and back-references to the longest
// substring that already occurred earlier in the text, using a suffix tree
// annotated with earliest occurrences.
package lz

import (
	"context"
	"fmt"

	"github.com/MoonshotAI/moonlz/suffixtree"
)

// Compress factors text. An empty text yields no tokens.
func Compress(ctx context.Context, text []byte) ([]Token, error) {
	if len(text) == 0 {
		return []Token{}, nil
	}
	tree, err := suffixtree.Build(ctx, suffixtree.FromBytes(text))
	if err != nil {
		return nil, err
	}
	suffixtree.Annotate(tree)
	return Factorize(ctx, tree)
}

// Factorize scans the text of an annotated tree from left to right and emits
// at every position either a copy of the longest earlier occurrence or a
// literal. Literal symbols must be bytes.
func Factorize(ctx context.Context, tree *suffixtree.Tree) ([]Token, error) {
	if !tree.Annotated() {
		panic(&suffixtree.InvariantViolation{
			Invariant: "leaves carry a cv",
			Detail:    "factorizing a tree that was not annotated",
		})
	}
	var (
		text   = tree.Text()
		n      = len(text) - 1 // sentinel excluded
		tokens = make([]Token, 0, n/4+1)
		done   = ctx.Done()
	)
	for pos := 0; pos < n; {
		select {
		case <-done:
			return nil, ctx.Err()
		default:
		}
		position, length := LongestPastMatch(tree, pos)
		if length > 0 {
			tokens = append(tokens, Copy(position, length))
			pos += length
			continue
		}
		symbol := text[pos]
		if symbol < 0 || symbol > 0xff {
			return nil, fmt.Errorf("%w: symbol %d at offset %d is not a byte", suffixtree.ErrInvalidInput, symbol, pos)
		}
		tokens = append(tokens, Literal(byte(symbol)))
		pos++
	}
	return tokens, nil
}

// LongestPastMatch returns the earliest offset and the length of the longest
// substring starting at pos that also starts somewhere before pos. The
// occurrence may overlap pos. length is 0 when text[pos] is new.
func LongestPastMatch(tree *suffixtree.Tree, pos int) (position, length int) {
	var (
		text    = tree.Text()
		n       = len(text) - 1
		node    = tree.Root()
		matched int
	)
	position = -1
	for pos+matched < n {
		child := node.Child(text[pos+matched])
		// cv == pos is the current suffix itself and cv > pos is not yet
		// written, neither can be referenced.
		if child == nil || child.CV() >= pos {
			break
		}
		position = child.CV()
		start, edge := child.Start(), child.Len()
		k := 0
		for k < edge && pos+matched < n && text[start+k] == text[pos+matched] {
			k++
			matched++
		}
		if k < edge {
			break
		}
		node = child
	}
	if matched == 0 {
		return -1, 0
	}
	return position, matched
}
