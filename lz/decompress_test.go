package lz

import (
	"errors"
	"strconv"
	"testing"
)

func TestDecompress(t *testing.T) {
	t.Run("good", func(t *testing.T) {
		type testcase struct {
			tokens []Token
			want   string
		}
		var testcases = []testcase{
			{tokens: nil, want: ""},
			{tokens: []Token{Literal('a')}, want: "a"},
			{tokens: []Token{Literal('a'), Literal('b'), Copy(0, 2)}, want: "abab"},
			{tokens: []Token{Literal('a'), Copy(0, 5)}, want: "aaaaaa"},
			{tokens: []Token{Literal('a'), Literal('b'), Copy(0, 5), Literal('c'), Copy(6, 2)}, want: "abababacac"},
		}
		for i, tc := range testcases {
			t.Run(strconv.Itoa(i+1), func(t *testing.T) {
				got, err := Decompress(tc.tokens)
				if err != nil {
					t.Fatal(err)
				}
				if string(got) != tc.want {
					t.Errorf("decompressing %v: \nwant: %q\ngot:  %q", tc.tokens, tc.want, got)
				}
			})
		}
	})
	t.Run("bad", func(t *testing.T) {
		type testcase struct {
			tokens []Token
			index  int
		}
		var testcases = []testcase{
			{tokens: []Token{Copy(0, 1)}, index: 0},
			{tokens: []Token{Literal('a'), Copy(1, 1)}, index: 1},
			{tokens: []Token{Literal('a'), Copy(-1, 1)}, index: 1},
			{tokens: []Token{Literal('a'), Copy(0, 0)}, index: 1},
			{tokens: []Token{Literal('a'), {Kind: 7}}, index: 1},
		}
		for i, tc := range testcases {
			t.Run(strconv.Itoa(i+1), func(t *testing.T) {
				_, err := Decompress(tc.tokens)
				if !errors.Is(err, ErrDecode) {
					t.Fatalf("decompressing %v, expects ErrDecode, got %v", tc.tokens, err)
				}
				var decodeErr *DecodeError
				if !errors.As(err, &decodeErr) || decodeErr.Index != tc.index {
					t.Errorf("decompressing %v: want failure at token %d, got %v", tc.tokens, tc.index, err)
				}
			})
		}
	})
}

func TestDecompressLimit(t *testing.T) {
	type testcase struct {
		tokens []Token
		limit  int
		index  int // -1 when the stream fits
	}
	var testcases = []testcase{
		{tokens: []Token{Literal('a'), Copy(0, 1<<40)}, limit: 1 << 20, index: 1},
		{tokens: []Token{Literal('a'), Copy(0, 9)}, limit: 10, index: -1},
		{tokens: []Token{Literal('a'), Copy(0, 9)}, limit: 9, index: 1},
		{tokens: []Token{Literal('a'), Literal('b')}, limit: 1, index: 1},
	}
	for i, tc := range testcases {
		t.Run(strconv.Itoa(i+1), func(t *testing.T) {
			out, err := DecompressLimit(tc.tokens, tc.limit)
			if tc.index < 0 {
				if err != nil {
					t.Fatal(err)
				}
				if len(out) > tc.limit {
					t.Errorf("decoded %d symbols past the %d limit", len(out), tc.limit)
				}
				return
			}
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) || decodeErr.Index != tc.index || decodeErr.Limit != tc.limit {
				t.Errorf("decompressing %v with limit %d: want failure at token %d, got %v", tc.tokens, tc.limit, tc.index, err)
			}
			if !errors.Is(err, ErrDecode) {
				t.Errorf("want ErrDecode, got %v", err)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	stats := Summarize([]Token{Literal('b'), Literal('a'), Literal('n'), Copy(1, 7)})
	want := Stats{
		Tokens:      4,
		Literals:    3,
		Copies:      1,
		Copied:      7,
		LongestCopy: 7,
		Overlapping: 1,
		Size:        10,
	}
	if stats != want {
		t.Errorf("\nwant: %+v\ngot:  %+v", want, stats)
	}
}
