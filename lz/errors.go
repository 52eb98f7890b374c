package lz

import (
	"errors"
	"fmt"
)

// ErrDecode is wrapped by every DecodeError.
var ErrDecode = errors.New("lz: corrupt token stream")

// DecodeError reports the first token that cannot be replayed.
type DecodeError struct {
	Index   int   // position of the token in the stream
	Token   Token // offending token
	Decoded int   // symbols decoded before it
	Limit   int   // output cap it would exceed, 0 when the token itself is invalid
}

func (e *DecodeError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("%s: token %d %s exceeds the %d symbol limit with %d symbols decoded", ErrDecode, e.Index, e.Token, e.Limit, e.Decoded)
	}
	return fmt.Sprintf("%s: token %d %s with %d symbols decoded", ErrDecode, e.Index, e.Token, e.Decoded)
}

func (e *DecodeError) Unwrap() error {
	return ErrDecode
}
