package suffixtree

import (
	"context"
	"math/rand"
	"reflect"
	"strconv"
	"testing"
)

type occurrence struct {
	SuffixIndex int
	CV          int
}

// signature maps every node's path label to its suffix index and cv. Two
// trees over the same text are identical iff their signatures are.
func signature(t *Tree) map[string]occurrence {
	sig := make(map[string]occurrence)
	for n, label := range pathLabels(t) {
		sig[symbolsKey(label)] = occurrence{SuffixIndex: n.SuffixIndex(), CV: n.CV()}
	}
	return sig
}

func symbolsKey(symbols []Symbol) string {
	key := make([]rune, len(symbols))
	for i, s := range symbols {
		if s == Sentinel {
			key[i] = '$'
		} else {
			key[i] = rune(s)
		}
	}
	return string(key)
}

func buildBoth(t *testing.T, s string) (fast, naive *Tree) {
	t.Helper()
	var err error
	if fast, err = Build(context.Background(), FromString(s)); err != nil {
		t.Fatal(err)
	}
	if naive, err = BuildNaive(context.Background(), FromString(s)); err != nil {
		t.Fatal(err)
	}
	return fast, naive
}

func TestCrossValidate(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	inputs := append([]string(nil), texts...)
	for range 30 {
		inputs = append(inputs, randomText(r, 1+r.Intn(120), "ab"))
	}
	for i, s := range inputs {
		t.Run(strconv.Itoa(i+1), func(t *testing.T) {
			fast, naive := buildBoth(t, s)
			if err := naive.Validate(); err != nil {
				t.Fatalf("validating naive tree of %q: %s", s, err)
			}
			Annotate(fast)
			Annotate(naive)
			if err := naive.Validate(); err != nil {
				t.Fatalf("validating annotated naive tree of %q: %s", s, err)
			}
			if fast.Nodes() != naive.Nodes() || fast.Leaves() != naive.Leaves() {
				t.Errorf("%q: ukkonen has %d nodes / %d leaves, naive %d / %d",
					s, fast.Nodes(), fast.Leaves(), naive.Nodes(), naive.Leaves())
			}
			if want, got := signature(naive), signature(fast); !reflect.DeepEqual(want, got) {
				t.Errorf("%q: trees differ\nwant: %v\ngot:  %v", s, want, got)
			}
		})
	}
}

func TestCrossValidateLeaves(t *testing.T) {
	type pair struct {
		SuffixIndex, CV int
	}
	leafPairs := func(tree *Tree) map[pair]int {
		pairs := make(map[pair]int)
		tree.walk(func(n *Node, _ int32) {
			if n != tree.root && n.IsLeaf() {
				pairs[pair{n.SuffixIndex(), n.CV()}]++
			}
		})
		return pairs
	}
	for _, s := range []string{"banana", "aaaa", "abcabcabc"} {
		t.Run(s, func(t *testing.T) {
			fast, naive := buildBoth(t, s)
			Annotate(fast)
			Annotate(naive)
			if want, got := leafPairs(naive), leafPairs(fast); !reflect.DeepEqual(want, got) {
				t.Errorf("%q: want %v, got %v", s, want, got)
			}
		})
	}
}
