package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/MoonshotAI/moonlz/suffixtree"
)

type buildFunc func(ctx context.Context, text []suffixtree.Symbol) (*suffixtree.Tree, error)

type benchRow struct {
	builder      string
	small, large time.Duration
}

func (r *benchRow) growth() float64 {
	return float64(r.large) / float64(max(r.small, time.Nanosecond))
}

func benchCommand() *cobra.Command {
	var (
		size    int
		factor  int
		pattern string
		repeat  int
		naive   bool
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare how suffix tree construction time grows with the input size",
		Run: func(cmd *cobra.Command, args []string) {
			if size < 1 || factor < 2 || repeat < 1 || pattern == "" {
				logFatal(fmt.Errorf("bench needs size >= 1, factor >= 2, repeat >= 1 and a pattern"))
			}
			builders := []struct {
				name  string
				build buildFunc
			}{
				{"ukkonen", suffixtree.Build},
			}
			if naive {
				builders = append(builders, struct {
					name  string
					build buildFunc
				}{"naive", suffixtree.BuildNaive})
			}
			var (
				small = periodicText(pattern, size)
				large = periodicText(pattern, size*factor)
			)
			t.AppendHeader(table.Row{
				"builder",
				fmt.Sprintf("n=%d", size),
				fmt.Sprintf("n=%d", size*factor),
				"growth",
			})
			for _, builder := range builders {
				row, err := benchBuilder(cmd.Context(), builder.name, builder.build, small, large, repeat)
				if err != nil {
					logFatal(fmt.Errorf("bench %s: %w", builder.name, err))
				}
				t.AppendRow(table.Row{
					row.builder,
					row.small.String(),
					row.large.String(),
					fmt.Sprintf("%.2fx", row.growth()),
				})
			}
			t.AppendFooter(table.Row{"", "", "linear", fmt.Sprintf("%dx", factor)})
			t.Render()
		},
	}
	flags := cmd.PersistentFlags()
	flags.IntVar(&size, "size", 2000, "size of the smaller input")
	flags.IntVar(&factor, "factor", 4, "the larger input is factor times the smaller one")
	flags.StringVar(&pattern, "pattern", "abcab", "the inputs repeat this pattern")
	flags.IntVar(&repeat, "repeat", 3, "best of this many builds is reported")
	flags.BoolVar(&naive, "naive", true, "also time the quadratic builder")
	return cmd
}

func benchBuilder(ctx context.Context, name string, build buildFunc, small, large []suffixtree.Symbol, repeat int) (*benchRow, error) {
	row := &benchRow{builder: name}
	var err error
	if row.small, err = fastest(ctx, build, small, repeat); err != nil {
		return nil, err
	}
	if row.large, err = fastest(ctx, build, large, repeat); err != nil {
		return nil, err
	}
	return row, nil
}

func fastest(ctx context.Context, build buildFunc, text []suffixtree.Symbol, repeat int) (time.Duration, error) {
	best := time.Duration(-1)
	for range repeat {
		start := time.Now()
		if _, err := build(ctx, text); err != nil {
			return 0, err
		}
		if elapsed := time.Since(start); best < 0 || elapsed < best {
			best = elapsed
		}
	}
	return best, nil
}

// periodicText repeats pattern up to n bytes.
func periodicText(pattern string, n int) []suffixtree.Symbol {
	repeated := strings.Repeat(pattern, n/len(pattern)+1)[:n]
	return suffixtree.FromBytes([]byte(repeated))
}
