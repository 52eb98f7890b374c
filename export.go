package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

func exportCommand() *cobra.Command {
	var (
		id        int64
		output    string
		directory string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the token document of a stored compression run",
		Run: func(cmd *cobra.Command, args []string) {
			run, err := getPersistence().GetRun(id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					logFatal(sql.ErrNoRows)
				}
				logFatal(err)
			}
			document, err := exportDocument(run)
			if err != nil {
				logFatal(fmt.Errorf("run %d: %w", run.ID, err))
			}
			var outputStream io.Writer
			if directory != "" {
				file, err := os.Create(filepath.Join(directory, exportFilename(run)))
				if err != nil {
					logFatal(err)
				}
				defer file.Close()
				outputStream = file
			} else {
				switch output {
				case "stdout":
					outputStream = os.Stdout
				case "stderr":
					outputStream = os.Stderr
				default:
					file, err := os.Create(output)
					if err != nil {
						logFatal(err)
					}
					defer file.Close()
					outputStream = file
				}
			}
			if _, err = outputStream.Write(document); err != nil {
				logFatal(err)
			}
			logExport(outputStream)
		},
	}
	flags := cmd.PersistentFlags()
	flags.Int64Var(&id, "id", 0, "row id")
	flags.StringVarP(&output, "output", "o", "stdout", "output file path")
	flags.StringVar(&directory, "directory", "", "output directory")
	cmd.MarkPersistentFlagRequired("id")
	cmd.MarkFlagsMutuallyExclusive("output", "directory")
	cmd.MarkPersistentFlagFilename("output")
	return cmd
}

// exportDocument stamps the run metadata onto the stored token document. The
// result still decodes as a token document.
func exportDocument(run *Run) ([]byte, error) {
	if run.HasError() {
		return nil, fmt.Errorf("run failed: %s", run.Error.String)
	}
	if !run.Tokens.Valid {
		return nil, errors.New("run has no tokens")
	}
	document, err := sjson.SetBytes([]byte(run.Tokens.String), "metadata", run.Metadata())
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(document, &pretty.Options{
		Width:  80,
		Indent: "    ",
	}), nil
}

func exportFilename(run *Run) string {
	return filepath.Base(run.Source) + "-" + strconv.FormatInt(run.ID, 10) + "-" + run.CreatedAt.Format("20060102150405") + ".json"
}
