package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
)

var (
	workingDir     string
	workingDirOnce sync.Once
)

func getMoonDir() string {
	workingDirOnce.Do(func() {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logFatal(err)
		}
		workingDir = filepath.Join(homeDir, ".moonlz")
		stat, err := os.Stat(workingDir)
		switch {
		case err == nil:
			if !stat.IsDir() {
				logFatal(errors.New(workingDir + " is not a directory"))
			}
		case os.IsNotExist(err):
			if err = os.MkdirAll(workingDir, 0755); err != nil {
				logFatal(err)
			}
		default:
			logFatal(err)
		}
	})
	return workingDir
}

func getMoonSqlite() string {
	return filepath.Join(getMoonDir(), "moonlz.sqlite")
}

func getMoonErrorLog() io.Writer {
	errorLogPath := filepath.Join(getMoonDir(), "error.log")
	file, err := os.OpenFile(errorLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		logFatal(err)
	}
	return file
}

// getConfig opens the first of config.yaml, config.yml and config.toml that
// exists, and returns nil when there is none.
func getConfig() (io.ReadCloser, string) {
	moonDir := getMoonDir()
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		configPath := filepath.Join(moonDir, name)
		file, err := os.Open(configPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			logFatal(err)
		}
		return file, configPath
	}
	return nil, ""
}

// outputPath places the encoded form of source into dir, or next to source
// when dir is empty.
func outputPath(source, dir, ext string) string {
	if dir == "" {
		return source + ext
	}
	return filepath.Join(dir, filepath.Base(source)+ext)
}
