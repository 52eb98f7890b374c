// Package tokenio stores lz token streams as JSON documents or as a compact
// bit-packed stream.
package tokenio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/MoonshotAI/moonlz/lz"
)

var ErrMalformed = errors.New("tokenio: malformed token stream")

type Format string

const (
	JSON   Format = "json"
	Binary Format = "binary"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case JSON, Binary:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown token format %q, available formats are \"json\"/\"binary\"", s)
}

// Ext is the file extension used for f.
func (f Format) Ext() string {
	if f == Binary {
		return ".mlz"
	}
	return ".json"
}

// FormatOf guesses the format of a token file from its extension.
func FormatOf(path string) Format {
	if filepath.Ext(path) == Binary.Ext() {
		return Binary
	}
	return JSON
}

func Encode(w io.Writer, format Format, tokens []lz.Token) error {
	switch format {
	case Binary:
		return WriteBinary(w, tokens)
	default:
		return WriteJSON(w, tokens)
	}
}

func Decode(r io.Reader, format Format) ([]lz.Token, error) {
	switch format {
	case Binary:
		return ReadBinary(r)
	default:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return ReadJSON(data)
	}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformed}, args...)...)
}
