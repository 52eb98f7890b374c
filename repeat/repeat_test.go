package repeat

import (
	"context"
	"math/rand"
	"strconv"
	"testing"

	"github.com/MoonshotAI/moonlz/suffixtree"
)

func bruteForce(s string) int {
	seen := make(map[string]struct{})
	for i := range len(s) {
		for j := i + 1; j <= len(s); j++ {
			seen[s[i:j]] = struct{}{}
		}
	}
	return len(seen)
}

func TestCountSubstring(t *testing.T) {
	var testcases = []string{
		"",
		"a",
		"aaaa",
		"banana",
		"abcabcabc",
		"mississippi",
	}
	r := rand.New(rand.NewSource(1))
	for range 20 {
		b := make([]byte, 1+r.Intn(60))
		for i := range b {
			b[i] = "abc"[r.Intn(3)]
		}
		testcases = append(testcases, string(b))
	}
	for i, s := range testcases {
		t.Run(strconv.Itoa(i+1), func(t *testing.T) {
			sam := NewSuffixAutomaton()
			defer sam.Clear()
			sam.AddBytes([]byte(s))
			want := bruteForce(s)
			if got := sam.CountSubstring(); got != want {
				t.Errorf("automaton of %q: want %d, got %d", s, want, got)
			}
			tree, err := suffixtree.Build(context.Background(), suffixtree.FromBytes([]byte(s)))
			if err != nil {
				t.Fatal(err)
			}
			if got := tree.DistinctSubstrings(); got != want {
				t.Errorf("suffix tree of %q: want %d, got %d", s, want, got)
			}
		})
	}
}

func TestRepeatness(t *testing.T) {
	if got := Repeatness([]byte("abcdef")); got != 1 {
		t.Errorf("text without repeats: want 1, got %f", got)
	}
	if got := Repeatness(nil); got != 1 {
		t.Errorf("empty text: want 1, got %f", got)
	}
	// "aaaa" has 4 distinct substrings among 10
	if got := Repeatness([]byte("aaaa")); got != 0.4 {
		t.Errorf("periodic text: want 0.4, got %f", got)
	}
}

func TestAddSymbolsStopsAtSentinel(t *testing.T) {
	sam := NewSuffixAutomaton()
	defer sam.Clear()
	sam.AddSymbols(suffixtree.FromString("banana"))
	if sam.Length() != 6 || sam.CountSubstring() != 15 {
		t.Errorf("want 6 symbols and 15 substrings, got %d and %d", sam.Length(), sam.CountSubstring())
	}
}
