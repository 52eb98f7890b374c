// https://judge.yosupo.jp/problem/number_of_substrings

// Package repeat measures how repetitive a text is by counting its distinct
// substrings with an online suffix automaton.
package repeat

import (
	"sync"

	"github.com/MoonshotAI/moonlz/suffixtree"
)

var mapPool = sync.Pool{
	New: func() any {
		return make(map[suffixtree.Symbol]int32)
	},
}

func getMap() map[suffixtree.Symbol]int32 {
	return mapPool.Get().(map[suffixtree.Symbol]int32)
}

func putMap(x map[suffixtree.Symbol]int32) {
	for key := range x {
		delete(x, key)
	}
	mapPool.Put(x)
}

func newState(link, maxLength int32) *state {
	return &state{
		Next:   getMap(),
		Link:   link,
		MaxLen: maxLength,
	}
}

type state struct {
	Next   map[suffixtree.Symbol]int32 // transitions
	Link   int32                       // suffix link
	MaxLen int32                       // length of the longest string in this state
}

func NewSuffixAutomaton() *SuffixAutomaton {
	return &SuffixAutomaton{
		States: []*state{
			newState(0, 0),
		},
	}
}

type SuffixAutomaton struct {
	States          []*state
	LastPos         int32 // state reached by the whole text so far
	n               int32
	uniqueSubstring int
}

// Clear returns the transition maps to the pool. The automaton must not be
// used afterwards.
func (sam *SuffixAutomaton) Clear() {
	for _, s := range sam.States {
		putMap(s.Next)
	}
	sam.States = nil
}

func (sam *SuffixAutomaton) AddBytes(b []byte) {
	for _, c := range b {
		sam.Add(suffixtree.Symbol(c))
	}
}

// AddSymbols extends the automaton with every symbol of text up to the
// sentinel.
func (sam *SuffixAutomaton) AddSymbols(text []suffixtree.Symbol) {
	for _, c := range text {
		if c == suffixtree.Sentinel {
			return
		}
		sam.Add(c)
	}
}

func (sam *SuffixAutomaton) Add(c suffixtree.Symbol) {
	u := sam.LastPos
	uu := int32(len(sam.States))
	sam.States = append(sam.States, newState(0, sam.States[u].MaxLen+1))
	for u != 0 && sam.States[u].Next[c] == 0 {
		sam.States[u].Next[c] = uu
		u = sam.States[u].Link
	}
	if u == 0 && sam.States[u].Next[c] == 0 {
		sam.States[u].Next[c] = uu
		sam.States[uu].Link = 0
	} else {
		v := sam.States[u].Next[c]
		if sam.States[v].MaxLen == sam.States[u].MaxLen+1 {
			sam.States[uu].Link = v
		} else {
			vv := int32(len(sam.States))
			sam.States = append(sam.States, newState(sam.States[v].Link, sam.States[u].MaxLen+1))
			for k, v2 := range sam.States[v].Next {
				sam.States[vv].Next[k] = v2
			}
			sam.States[v].Link = vv
			sam.States[uu].Link = vv
			for u != 0 && sam.States[u].Next[c] == v {
				sam.States[u].Next[c] = vv
				u = sam.States[u].Link
			}
			if u == 0 && sam.States[u].Next[c] == v {
				sam.States[u].Next[c] = vv
			}
		}
	}
	sam.n++
	sam.LastPos = uu
	sam.uniqueSubstring += int(sam.h(uu))
}

// h is the number of substrings that end in state pos: its longest length
// minus the longest length of its suffix link.
func (sam *SuffixAutomaton) h(pos int32) int32 {
	return sam.States[pos].MaxLen - sam.States[sam.States[pos].Link].MaxLen
}

// CountSubstring returns the number of distinct non-empty substrings.
func (sam *SuffixAutomaton) CountSubstring() int {
	return sam.uniqueSubstring
}

// GetRepeatness is the share of distinct substrings among all n(n+1)/2
// substrings: 1 for a text without repeats, close to 0 for a periodic one.
func (sam *SuffixAutomaton) GetRepeatness() float64 {
	if sam.n == 0 {
		return 1
	}
	n := float64(sam.n)
	return float64(sam.uniqueSubstring) / (n * (n + 1) / 2)
}

func (sam *SuffixAutomaton) Length() int32 {
	return sam.n
}

// Repeatness builds a throwaway automaton over b.
func Repeatness(b []byte) float64 {
	sam := NewSuffixAutomaton()
	defer sam.Clear()
	sam.AddBytes(b)
	return sam.GetRepeatness()
}
