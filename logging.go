package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	logger = log.New(os.Stderr, boldGreen("[MoonLZ] "), log.LstdFlags)

	errorLogger     *log.Logger
	errorLoggerOnce sync.Once
)

var (
	boldWhite  = color.New(color.FgHiWhite, color.Bold).SprintfFunc()
	boldGreen  = color.New(color.FgGreen, color.Bold).SprintfFunc()
	boldYellow = color.New(color.FgYellow, color.Bold).SprintfFunc()
	boldRed    = color.New(color.FgRed, color.Bold).SprintfFunc()
	green      = color.New(color.FgHiGreen).SprintfFunc()
	red        = color.New(color.FgRed).SprintfFunc()
)

func getErrorLogger() *log.Logger {
	errorLoggerOnce.Do(func() {
		errorLogger = log.New(getMoonErrorLog(), "", log.LstdFlags)
	})
	return errorLogger
}

func logRun(result *compressResult) {
	run := result.run
	status := green("ok")
	if result.err != nil {
		status = red("failed")
	}
	logger.Printf("%s %s %s\n",
		boldYellow(fmt.Sprintf("%-8s", "compress")),
		boldWhite(run.Source),
		status,
	)
	if result.err == nil {
		logger.Printf("  - Output: \n")
		logger.Printf("    - path:          %s\n", result.output)
		logger.Printf("    - input_size:    %d\n", run.InputSize)
		logger.Printf("    - encoded_size:  %d\n", run.EncodedSize)
		if run.InputSize > 0 {
			logger.Printf("    - ratio:         %.4f\n", float64(run.EncodedSize)/float64(run.InputSize))
		}
		logger.Printf("  - Tokens: \n")
		logger.Printf("    - literals:      %d\n", run.LiteralCount)
		logger.Printf("    - copies:        %d\n", run.CopyCount)
		logger.Printf("    - longest_copy:  %d\n", run.LongestCopy)
		if run.Repeatness.Valid {
			logger.Printf("    - repeatness:    %.4f\n", run.Repeatness.Float64)
		}
		logger.Printf("  - Latency: \n")
		logger.Printf("    - build:         %.4fs\n", seconds(run.BuildLatency))
		logger.Printf("    - annotate:      %.4fs\n", seconds(run.AnnotateLatency))
		logger.Printf("    - factorize:     %.4fs\n", seconds(run.FactorizeLatency))
		if run.Verified.Valid && run.Verified.Bool {
			logger.Printf("  - %s\n", green("verified"))
		}
		return
	}
	for _, line := range strings.Split(result.err.Error(), "\n") {
		logger.Printf("  %s\n", boldRed(line))
	}
	getErrorLogger().Printf("compress %s: %s\n", run.Source, result.err)
}

func logNewRow(id int64) {
	logger.Println(
		boldWhite("  New Row Inserted:"),
		boldGreen(fmt.Sprintf("last_insert_id=%d", id)),
	)
}

func logExport(file io.Writer) {
	if named, ok := file.(interface{ Name() string }); ok {
		logger.Println(boldWhite("  Exported:"), boldGreen(named.Name()))
	}
}

func logFatal(err error) {
	if errorMsg := err.Error(); errorMsg != "" {
		for _, line := range strings.Split(errorMsg, "\n") {
			fmt.Fprintln(os.Stderr, boldRed(line))
		}
	}
	os.Exit(2)
}

func seconds(d time.Duration) float64 {
	return float64(d) / float64(time.Second)
}
