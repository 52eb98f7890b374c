package filter

import (
	"errors"
	"strconv"
	"testing"
)

var columns = []string{"source", "ratio", "copies", "longest_copy", "error"}

func TestParse(t *testing.T) {
	t.Run("good", func(t *testing.T) {
		type testcase struct {
			predicate, want string
		}
		var testcases = []testcase{
			{
				predicate: "ratio < 0.5",
				want:      "ratio < 0.5",
			},
			{
				predicate: "copies >= 10 && ratio < 0.5",
				want:      "copies >= 10 and ratio < 0.5",
			},
			{
				predicate: "source ~ 'notes'",
				want:      "source like '%notes%'",
			},
			{
				predicate: "source ~ '*.txt'",
				want:      "source like '%.txt'",
			},
			{
				predicate: "error == null",
				want:      "error is null",
			},
			{
				predicate: "error != null",
				want:      "error is not null",
			},
			{
				predicate: "(ratio < 0.5 || copies > 3) && source !~ 'tmp*'",
				want:      "(ratio < 0.5 or copies > 3) and source not like 'tmp%'",
			},
			{
				predicate: "longest_copy >= -1",
				want:      "longest_copy >= -1",
			},
			{
				predicate: "source == \"it's\"",
				want:      "source = 'it''s'",
			},
			{
				predicate: "source == 'say \"hi\"'",
				want:      "source = 'say \"hi\"'",
			},
			{
				predicate: "source ~ 'a`b'",
				want:      "source like '%a`b%'",
			},
			{
				predicate: "source != \"`x` y\" && copies > 1",
				want:      "source != '`x` y' and copies > 1",
			},
			{
				predicate: "`ratio` <= 1.25",
				want:      "ratio <= 1.25",
			},
		}
		for i, tc := range testcases {
			t.Run(strconv.Itoa(i+1), func(t *testing.T) {
				got, err := Parse(tc.predicate, columns...)
				if err != nil {
					t.Errorf("parsing predicate %q: \n%s", tc.predicate, err)
					return
				}
				if got != tc.want {
					t.Errorf("parsing predicate %q: \nwant: %s\ngot:  %s", tc.predicate, tc.want, got)
					return
				}
			})
		}
	})
	t.Run("bad", func(t *testing.T) {
		var predicates = []string{
			"",
			"ratio = 0.5",
			"size > 1",
			"ratio < 0.5 & copies > 1",
			"ratio < 0.5 | copies > 1",
			"ratio ~ 3",
			"ratio > null",
			"(ratio > 1",
			"ratio >",
			"ratio > 1 copies",
			"source == 'abc",
			"source == \"it's",
			"ratio > -'a'",
		}
		for i, predicate := range predicates {
			t.Run(strconv.Itoa(i+1), func(t *testing.T) {
				_, err := Parse(predicate, columns...)
				if err == nil {
					t.Errorf("parsing predicate %q, expects error, got <nil>", predicate)
					return
				}
				if !errors.As(err, new(*SyntaxError)) {
					t.Errorf("parsing predicate %q, expects *SyntaxError, got %T", predicate, err)
				}
			})
		}
	})
}

func TestStringIsStable(t *testing.T) {
	tree, err := ParseAST("source ~ 'abc' && copies > 1", columns...)
	if err != nil {
		t.Fatal(err)
	}
	first, second := tree.String(), tree.String()
	if first != second {
		t.Errorf("rendering twice differs: %s vs %s", first, second)
	}
}
