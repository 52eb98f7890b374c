package lz

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/MoonshotAI/moonlz/suffixtree"

	. "github.com/smartystreets/goconvey/convey"
)

// bruteForceMatch finds the longest earlier occurrence of text[pos:] by
// trying every start before pos, preferring the earliest one.
func bruteForceMatch(text []byte, pos int) (position, length int) {
	position = -1
	for j := 0; j < pos; j++ {
		k := 0
		for pos+k < len(text) && text[j+k] == text[pos+k] {
			k++
		}
		if k > length {
			position, length = j, k
		}
	}
	return position, length
}

func bruteForceCompress(text []byte) []Token {
	var tokens []Token
	for pos := 0; pos < len(text); {
		if position, length := bruteForceMatch(text, pos); length > 0 {
			tokens = append(tokens, Copy(position, length))
			pos += length
		} else {
			tokens = append(tokens, Literal(text[pos]))
			pos++
		}
	}
	return tokens
}

func compress(text string) []Token {
	tokens, err := Compress(context.Background(), []byte(text))
	So(err, ShouldBeNil)
	return tokens
}

var corpus = []string{
	"banana",
	"banananana",
	"aaaaaaaaaa",
	"abcabcabc",
	"mississippi",
	"abracadabra",
	"to be or not to be, that is the question",
	"月亮上的月亮宫月亮",
	"x",
	"ab",
	"\x00\x01\x00\x01\x00\xff\xff\xff",
}

func TestCompress(t *testing.T) {
	Convey("Compressing banananana", t, func() {
		tokens := compress("banananana")

		Convey("the first occurrences of b, a and n are literals", func() {
			So(tokens[:3], ShouldResemble, []Token{Literal('b'), Literal('a'), Literal('n')})
		})

		Convey("the rest is one overlapping copy from offset 1", func() {
			So(tokens[3:], ShouldResemble, []Token{Copy(1, 7)})
		})

		Convey("it agrees with the brute force search", func() {
			So(tokens, ShouldResemble, bruteForceCompress([]byte("banananana")))
		})

		Convey("it replays to the input", func() {
			out, err := Decompress(tokens)
			So(err, ShouldBeNil)
			So(string(out), ShouldEqual, "banananana")
		})
	})

	Convey("Boundaries", t, func() {
		Convey("empty text yields no tokens", func() {
			So(compress(""), ShouldBeEmpty)
		})

		Convey("a single symbol yields one literal", func() {
			So(compress("q"), ShouldResemble, []Token{Literal('q')})
		})

		Convey("a run of one symbol is a literal and a self-referencing copy", func() {
			So(compress("aaaaaaaa"), ShouldResemble, []Token{Literal('a'), Copy(0, 7)})
		})
	})

	Convey("Compression is deterministic", t, func() {
		for _, text := range corpus {
			So(compress(text), ShouldResemble, compress(text))
		}
	})
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	inputs := make([][]byte, 0, len(corpus)+40)
	for _, text := range corpus {
		inputs = append(inputs, []byte(text))
	}
	for range 40 {
		b := make([]byte, r.Intn(400))
		alphabet := 1 + r.Intn(4)
		for i := range b {
			b[i] = byte('a' + r.Intn(alphabet))
		}
		inputs = append(inputs, b)
	}
	inputs = append(inputs, []byte(strings.Repeat("the lazy dog ", 300)))
	for i, input := range inputs {
		t.Run(strconv.Itoa(i+1), func(t *testing.T) {
			tokens, err := Compress(context.Background(), input)
			if err != nil {
				t.Fatal(err)
			}
			out, err := Decompress(tokens)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(out, input) {
				t.Errorf("round trip of %q: got %q", input, out)
			}
			if want := bruteForceCompress(input); !reflect.DeepEqual(want, tokens) && len(input) > 0 {
				t.Errorf("compressing %q:\nwant: %v\ngot:  %v", input, want, tokens)
			}
		})
	}
}

func TestCausalValidity(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for i := range 30 {
		b := make([]byte, 1+r.Intn(500))
		for j := range b {
			b[j] = byte('a' + r.Intn(3))
		}
		tokens, err := Compress(context.Background(), b)
		if err != nil {
			t.Fatal(err)
		}
		pos := 0
		for k, token := range tokens {
			if token.IsCopy() {
				if token.Position < 0 || token.Position >= pos {
					t.Fatalf("input %d token %d: copy from %d emitted at %d", i, k, token.Position, pos)
				}
				if token.Length < 1 {
					t.Fatalf("input %d token %d: copy of length %d", i, k, token.Length)
				}
			}
			pos += token.Size()
		}
		if pos != len(b) {
			t.Errorf("input %d: tokens cover %d symbols, want %d", i, pos, len(b))
		}
	}
}

func TestLongestPastMatch(t *testing.T) {
	text := []byte("abcabcabcx")
	tree, err := suffixtree.Build(context.Background(), suffixtree.FromBytes(text))
	if err != nil {
		t.Fatal(err)
	}
	suffixtree.Annotate(tree)
	for pos := range len(text) {
		wantPos, wantLen := bruteForceMatch(text, pos)
		gotPos, gotLen := LongestPastMatch(tree, pos)
		if gotPos != wantPos || gotLen != wantLen {
			t.Errorf("pos %d: want (%d, %d), got (%d, %d)", pos, wantPos, wantLen, gotPos, gotLen)
		}
	}
}

func TestFactorizeUnannotated(t *testing.T) {
	tree, err := suffixtree.Build(context.Background(), suffixtree.FromBytes([]byte("abab")))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		var violation *suffixtree.InvariantViolation
		if err, ok := recover().(error); !ok || !errors.As(err, &violation) {
			t.Errorf("want an invariant violation panic, got %v", err)
		}
	}()
	Factorize(context.Background(), tree)
}

func TestFactorizeRunes(t *testing.T) {
	tree, err := suffixtree.Build(context.Background(), suffixtree.FromString("月亮"))
	if err != nil {
		t.Fatal(err)
	}
	suffixtree.Annotate(tree)
	if _, err = Factorize(context.Background(), tree); !errors.Is(err, suffixtree.ErrInvalidInput) {
		t.Errorf("want ErrInvalidInput for rune literals, got %v", err)
	}
}

func TestCompressCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Compress(ctx, []byte("abc")); !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}
