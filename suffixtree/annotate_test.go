package suffixtree

import (
	"context"
	"reflect"
	"strconv"
	"testing"
)

func TestAnnotate(t *testing.T) {
	for i, s := range texts {
		t.Run(strconv.Itoa(i+1), func(t *testing.T) {
			tree, err := Build(context.Background(), FromString(s))
			if err != nil {
				t.Fatal(err)
			}
			if tree.Root().CV() != -1 || tree.Annotated() {
				t.Fatalf("%q: tree annotated before Annotate", s)
			}
			Annotate(tree)
			if err = tree.Validate(); err != nil {
				t.Fatalf("%q: %s", s, err)
			}
			if cv := tree.Root().CV(); cv != 0 {
				t.Errorf("%q: root cv should be 0, got %d", s, cv)
			}
			// cv of the node reached by a prefix of the text is 0
			if first := tree.Root().Child(tree.Text()[0]); first.CV() != 0 {
				t.Errorf("%q: first child cv should be 0, got %d", s, first.CV())
			}
		})
	}
}

func TestAnnotateIdempotent(t *testing.T) {
	tree, err := Build(context.Background(), FromString("abracadabra abracadabra"))
	if err != nil {
		t.Fatal(err)
	}
	Annotate(tree)
	once := signature(tree)
	Annotate(tree)
	if twice := signature(tree); !reflect.DeepEqual(once, twice) {
		t.Errorf("annotating twice changed cv values\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestAnnotateBanana(t *testing.T) {
	tree, err := Build(context.Background(), FromString("banana"))
	if err != nil {
		t.Fatal(err)
	}
	Annotate(tree)
	sig := signature(tree)
	var testcases = []struct {
		path string
		cv   int
	}{
		{path: "a", cv: 1},
		{path: "ana", cv: 1},
		{path: "na", cv: 2},
		{path: "banana$", cv: 0},
		{path: "a$", cv: 5},
		{path: "$", cv: 6},
	}
	for i, tc := range testcases {
		t.Run(strconv.Itoa(i+1), func(t *testing.T) {
			got, ok := sig[tc.path]
			if !ok {
				t.Fatalf("no node spells %q", tc.path)
			}
			if got.CV != tc.cv {
				t.Errorf("cv of %q: want %d, got %d", tc.path, tc.cv, got.CV)
			}
		})
	}
}
