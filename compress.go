package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/MoonshotAI/moonlz/lz"
	"github.com/MoonshotAI/moonlz/repeat"
	"github.com/MoonshotAI/moonlz/suffixtree"
	"github.com/MoonshotAI/moonlz/tokenio"
)

type compressOptions struct {
	format tokenio.Format
	output string
	verify bool
}

type compressResult struct {
	run    *Run
	tokens []lz.Token
	output string
	err    error
}

func compressCommand() *cobra.Command {
	var (
		output  string
		format  string
		verify  bool
		noStore bool
		jobs    int
	)
	cmd := &cobra.Command{
		Use:   "compress FILE...",
		Short: "Factor files into literals and copies of earlier substrings",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			config := getMoonConfig()
			flags := cmd.Flags()
			if !flags.Changed("format") && config.Format != "" {
				format = config.Format
			}
			if !flags.Changed("output") && config.Output != "" {
				output = config.Output
			}
			if !flags.Changed("verify") {
				verify = config.Verify
			}
			if !flags.Changed("no-store") {
				noStore = !config.StoreRuns()
			}
			if !flags.Changed("jobs") && config.Jobs > 0 {
				jobs = config.Jobs
			}
			parsedFormat, err := tokenio.ParseFormat(format)
			if err != nil {
				logFatal(err)
			}
			if jobs < 1 {
				logFatal(fmt.Errorf("jobs must be positive, got %d", jobs))
			}
			options := &compressOptions{
				format: parsedFormat,
				output: output,
				verify: verify,
			}
			results := compressFiles(cmd.Context(), args, options, jobs)
			var failed int
			for _, result := range results {
				logRun(result)
				if result.err != nil {
					failed++
				}
				if noStore {
					continue
				}
				id, err := getPersistence().Insert(result.run)
				if err != nil {
					logFatal(fmt.Errorf("storing run of %s: %w", result.run.Source, err))
				}
				logNewRow(id)
			}
			if failed > 0 {
				logFatal(fmt.Errorf("%d of %d inputs failed", failed, len(results)))
			}
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&output, "output", "o", "", "output directory, defaults to the directory of each input")
	flags.StringVar(&format, "format", string(tokenio.JSON), "token format, json or binary")
	flags.BoolVar(&verify, "verify", false, "validate the suffix tree and round trip the tokens before writing")
	flags.BoolVar(&noStore, "no-store", false, "do not record the run in the run store")
	flags.IntVarP(&jobs, "jobs", "j", 1, "number of inputs compressed concurrently")
	cmd.MarkPersistentFlagDirname("output")
	return cmd
}

// compressFiles compresses every source with at most jobs running at once.
// Results keep the order of sources.
func compressFiles(ctx context.Context, sources []string, options *compressOptions, jobs int) []*compressResult {
	var (
		results   = make([]*compressResult, len(sources))
		semaphore = make(chan struct{}, jobs)
		wg        sync.WaitGroup
	)
	for i, source := range sources {
		wg.Add(1)
		semaphore <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-semaphore }()
			results[i] = compressFile(ctx, source, options)
		}()
	}
	wg.Wait()
	return results
}

func compressFile(ctx context.Context, source string, options *compressOptions) (result *compressResult) {
	result = &compressResult{run: &Run{Source: source}}
	defer func() {
		if result.err != nil {
			result.run.Error = sql.NullString{String: result.err.Error(), Valid: true}
		}
	}()
	data, err := os.ReadFile(source)
	if err != nil {
		result.err = err
		return result
	}
	run := result.run
	run.InputHash = hashContent(data)
	run.InputSize = int64(len(data))
	run.Repeatness = sql.NullFloat64{Float64: repeat.Repeatness(data), Valid: true}
	tokens, err := factorize(ctx, data, run, options.verify)
	if err != nil {
		result.err = err
		return result
	}
	result.tokens = tokens
	var encoded bytes.Buffer
	if err = tokenio.Encode(&encoded, options.format, tokens); err != nil {
		result.err = fmt.Errorf("encode: %w", err)
		return result
	}
	run.EncodedSize = int64(encoded.Len())
	tokensJSON, err := tokenio.MarshalJSON(tokens)
	if err != nil {
		result.err = fmt.Errorf("encode: %w", err)
		return result
	}
	run.Tokens = sql.NullString{String: string(tokensJSON), Valid: true}
	result.output = outputPath(source, options.output, options.format.Ext())
	if err = os.WriteFile(result.output, encoded.Bytes(), 0644); err != nil {
		result.err = err
		return result
	}
	return result
}

// factorize runs the build, annotate and factorize stages on data, recording
// their latencies and the token statistics in run.
func factorize(ctx context.Context, data []byte, run *Run, verify bool) (tokens []lz.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			var violation *suffixtree.InvariantViolation
			if e, ok := r.(error); ok && errors.As(e, &violation) {
				tokens, err = nil, violation
				return
			}
			panic(r)
		}
	}()
	if len(data) == 0 {
		tokens = []lz.Token{}
	} else {
		start := time.Now()
		tree, err := suffixtree.Build(ctx, suffixtree.FromBytes(data))
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		run.BuildLatency = time.Since(start)
		run.TreeNodes = sql.NullInt64{Int64: int64(tree.Nodes()), Valid: true}

		start = time.Now()
		suffixtree.Annotate(tree)
		run.AnnotateLatency = time.Since(start)
		if verify {
			if err = tree.Validate(); err != nil {
				return nil, fmt.Errorf("verify: %w", err)
			}
		}

		start = time.Now()
		tokens, err = lz.Factorize(ctx, tree)
		if err != nil {
			return nil, fmt.Errorf("factorize: %w", err)
		}
		run.FactorizeLatency = time.Since(start)
	}
	if verify {
		decoded, err := lz.Decompress(tokens)
		if err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
		if !bytes.Equal(decoded, data) {
			return nil, fmt.Errorf("verify: round trip yields %d bytes that differ from the %d input bytes", len(decoded), len(data))
		}
		run.Verified = sql.NullBool{Bool: true, Valid: true}
	}
	stats := lz.Summarize(tokens)
	run.TokenCount = int64(stats.Tokens)
	run.LiteralCount = int64(stats.Literals)
	run.CopyCount = int64(stats.Copies)
	run.LongestCopy = int64(stats.LongestCopy)
	return tokens, nil
}

func decompressCommand() *cobra.Command {
	var (
		output  string
		format  string
		maxSize int
	)
	cmd := &cobra.Command{
		Use:   "decompress FILE",
		Short: "Replay a token file into the original bytes",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			source := args[0]
			tokenFormat := tokenio.FormatOf(source)
			if format != "" {
				parsed, err := tokenio.ParseFormat(format)
				if err != nil {
					logFatal(err)
				}
				tokenFormat = parsed
			}
			if output == "" {
				output = strings.TrimSuffix(source, tokenFormat.Ext())
				if output == source {
					output = source + ".out"
				}
			}
			decoded, err := decompressFile(source, tokenFormat, maxSize)
			if err != nil {
				logFatal(fmt.Errorf("decompress %s: %w", source, err))
			}
			if err = writeDecoded(os.Stdout, output, decoded); err != nil {
				logFatal(err)
			}
			if output == "-" {
				return
			}
			logger.Printf("%s %s %s\n",
				boldYellow(fmt.Sprintf("%-8s", "decode")),
				boldWhite(source),
				green(fmt.Sprintf("=> %s (%d bytes)", output, len(decoded))),
			)
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&output, "output", "o", "", "output file path, - for stdout")
	flags.StringVar(&format, "format", "", "token format, json or binary, defaults to the file extension")
	flags.IntVar(&maxSize, "max-size", 1<<30, "refuse token files that decode to more bytes than this, negative for no limit")
	cmd.MarkPersistentFlagFilename("output")
	return cmd
}

// decompressFile decodes the token file at source, failing once the output
// would exceed limit bytes.
func decompressFile(source string, format tokenio.Format, limit int) ([]byte, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	tokens, err := tokenio.Decode(file, format)
	if err != nil {
		return nil, err
	}
	return lz.DecompressLimit(tokens, limit)
}

// writeDecoded writes decoded to the file output, or to stdout when output
// is "-".
func writeDecoded(stdout io.Writer, output string, decoded []byte) error {
	if output == "-" {
		_, err := stdout.Write(decoded)
		return err
	}
	return os.WriteFile(output, decoded, 0644)
}
