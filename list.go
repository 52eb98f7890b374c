package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
	"github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

var t table.Writer

func init() {
	runewidth.EastAsianWidth = true
	text.OverrideRuneWidthEastAsianWidth(true)
	t = table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(style)
}

var style = table.Style{
	Name:    "StyleMoonLZ",
	Box:     table.StyleBoxDefault,
	Color:   table.ColorOptionsDefault,
	HTML:    table.DefaultHTMLOptions,
	Options: table.OptionsDefault,
	Title:   table.TitleOptionsDefault,
	Format: table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	},
}

func listCommand() *cobra.Command {
	var (
		n          int64
		verbose    bool
		predicates []string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Query stored compression runs based on conditions",
		Run: func(cmd *cobra.Command, args []string) {
			predicate, err := Predicates(predicates).Parse()
			if err != nil {
				logFatal(fmt.Errorf("predicate: %w", err))
			}
			runs, err := getPersistence().ListRuns(n, predicate)
			if err != nil {
				if sqliteErr := new(sqlite3.Error); errors.As(err, sqliteErr) {
					logFatal(sqliteErr)
				}
				logFatal(err)
			}
			renderRuns(runs, verbose)
		},
	}
	flags := cmd.PersistentFlags()
	flags.Int64VarP(&n, "n", "n", 10, "number of results to return, 0 for all")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.StringArrayVar(&predicates, "predicate", nil, "predicate is used to set the conditions for query runs, fields are "+strings.Join(runColumns, "/"))
	return cmd
}

func renderRuns(runs []*Run, verbose bool) {
	if verbose {
		t.AppendHeader(table.Row{
			"id",
			"source",
			"input_hash",
			"input_size",
			"encoded_size",
			"ratio",
			"literals",
			"copies",
			"longest_copy",
			"repeatness",
			"build",
			"annotate",
			"factorize",
			"verified",
			"compressed_at",
		})
	} else {
		t.AppendHeader(table.Row{
			"id",
			"source",
			"input_size",
			"tokens",
			"ratio",
			"compressed_at",
		})
	}
	for _, run := range runs {
		ratio := formatRatio(run.Ratio)
		if run.HasError() {
			ratio = red("error")
		}
		if verbose {
			t.AppendRow(table.Row{
				strconv.FormatInt(run.ID, 10),
				run.Source,
				run.InputHash,
				strconv.FormatInt(run.InputSize, 10),
				strconv.FormatInt(run.EncodedSize, 10),
				ratio,
				strconv.FormatInt(run.LiteralCount, 10),
				strconv.FormatInt(run.CopyCount, 10),
				strconv.FormatInt(run.LongestCopy, 10),
				formatRatio(run.Repeatness),
				run.BuildLatency.String(),
				run.AnnotateLatency.String(),
				run.FactorizeLatency.String(),
				strconv.FormatBool(run.Verified.Bool),
				run.CreatedAt.Format(time.DateTime),
			})
		} else {
			t.AppendRow(table.Row{
				strconv.FormatInt(run.ID, 10),
				run.Source,
				strconv.FormatInt(run.InputSize, 10),
				strconv.FormatInt(run.TokenCount, 10),
				ratio,
				run.CreatedAt.Format(time.DateTime),
			})
		}
	}
	t.Render()
}

func inspectCommand() *cobra.Command {
	var columns = []string{"metadata", "tokens", "error"}
	var (
		id           int64
		printColumns []string
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect the details of a stored compression run",
		Run: func(cmd *cobra.Command, args []string) {
			run, err := getPersistence().GetRun(id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					logFatal(sql.ErrNoRows)
				}
				logFatal(err)
			}
			header := make(table.Row, 0, len(columns))
			for _, column := range printColumns {
				if !slices.Contains(columns, column) {
					logFatal(fmt.Errorf("unknown column %q, available columns are %s", column, strings.Join(columns, "/")))
				}
				if column == "error" && !run.HasError() {
					continue
				}
				header = append(header, column)
			}
			t.AppendHeader(header)
			row := make(table.Row, 0, len(header))
			inspection := run.Inspection()
			for _, column := range header {
				row = append(row, inspection[column.(string)])
			}
			t.AppendRow(row)
			t.SetColumnConfigs([]table.ColumnConfig{
				{Name: "error", WidthMax: 48},
				{Name: "tokens", WidthMax: 48},
			})
			t.SuppressTrailingSpaces()
			t.Render()
		},
	}
	flags := cmd.PersistentFlags()
	flags.Int64Var(&id, "id", 0, "row id")
	flags.StringSliceVar(&printColumns, "print", []string{"metadata"}, "columns to print, available columns are "+strings.Join(columns, "/"))
	cmd.MarkPersistentFlagRequired("id")
	return cmd
}

func cleanupCommand() *cobra.Command {
	var (
		before string
	)
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Cleanup stored compression runs",
		Run: func(cmd *cobra.Command, args []string) {
			if err := checkBefore(before); err != nil {
				logFatal(err)
			}
			result, err := getPersistence().Cleanup(before)
			if err != nil {
				logFatal(err)
			}
			rowsAffected, err := result.RowsAffected()
			if err != nil {
				logFatal(err)
			}
			t.AppendRow(table.Row{"cleanup", rowsAffected})
			t.Render()
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(
		&before,
		"before",
		time.Now().AddDate(0, 0, -7).Format(time.DateOnly),
		"runs stored before this time will be cleanup",
	)
	return cmd
}

func checkBefore(before string) error {
	_, errParseDateOnly := time.Parse(time.DateOnly, before)
	_, errParseDateTime := time.Parse(time.DateTime, before)
	if errParseDateOnly != nil && errParseDateTime != nil {
		return fmt.Errorf(
			"the date(time) format is either YYYY-mm-dd or YYYY-mm-dd HH:MM:SS, got %s",
			before,
		)
	}
	return nil
}

func formatRatio(ratio sql.NullFloat64) string {
	if !ratio.Valid {
		return ""
	}
	return strconv.FormatFloat(ratio.Float64, 'f', 4, 64)
}

func formatJSON(s string) string {
	if !gjson.Valid(s) {
		return s
	}
	return strings.TrimSpace(string(pretty.PrettyOptions([]byte(s), &pretty.Options{
		Width:    80,
		Prefix:   "",
		Indent:   "    ",
		SortKeys: false,
	})))
}
