package tokenio

import (
	"errors"
	"io"

	"github.com/icza/bitio"

	"github.com/MoonshotAI/moonlz/lz"
)

// The binary stream starts with the token count as a varint. Each token is a
// flag bit followed by an 8-bit literal, or by the position and length of a
// copy as varints. Varints are 7-bit groups, least significant first, each
// preceded in its byte by a continuation bit.

const maxVarintGroups = 10

func writeUvarint(w *bitio.Writer, v uint64) error {
	for {
		group := v & 0x7f
		v >>= 7
		if v != 0 {
			group |= 0x80
		}
		if err := w.WriteBits(group, 8); err != nil {
			return err
		}
		if v == 0 {
			return nil
		}
	}
}

func readUvarint(r *bitio.Reader) (uint64, error) {
	var v uint64
	for i := 0; i < maxVarintGroups; i++ {
		group, err := r.ReadBits(8)
		if err != nil {
			return 0, err
		}
		v |= (group & 0x7f) << (7 * i)
		if group&0x80 == 0 {
			return v, nil
		}
	}
	return 0, malformed("varint overflows 64 bits")
}

func uvarintBits(v uint64) int {
	bits := 8
	for v >>= 7; v != 0; v >>= 7 {
		bits += 8
	}
	return bits
}

func WriteBinary(w io.Writer, tokens []lz.Token) error {
	bw := bitio.NewWriter(w)
	if err := writeUvarint(bw, uint64(len(tokens))); err != nil {
		return err
	}
	for _, token := range tokens {
		if err := bw.WriteBool(token.IsCopy()); err != nil {
			return err
		}
		var err error
		if token.IsCopy() {
			if token.Position < 0 || token.Length < 0 {
				return malformed("copy %s has a negative field", token)
			}
			if err = writeUvarint(bw, uint64(token.Position)); err == nil {
				err = writeUvarint(bw, uint64(token.Length))
			}
		} else {
			err = bw.WriteByte(token.Symbol)
		}
		if err != nil {
			return err
		}
	}
	return bw.Close()
}

func ReadBinary(r io.Reader) ([]lz.Token, error) {
	br := bitio.NewReader(r)
	count, err := readUvarint(br)
	if err != nil {
		return nil, eofMalformed(err)
	}
	tokens := make([]lz.Token, 0, min(count, 1<<16))
	for i := uint64(0); i < count; i++ {
		isCopy, err := br.ReadBool()
		if err != nil {
			return nil, eofMalformed(err)
		}
		if !isCopy {
			symbol, err := br.ReadByte()
			if err != nil {
				return nil, eofMalformed(err)
			}
			tokens = append(tokens, lz.Literal(symbol))
			continue
		}
		position, err := readUvarint(br)
		if err != nil {
			return nil, eofMalformed(err)
		}
		length, err := readUvarint(br)
		if err != nil {
			return nil, eofMalformed(err)
		}
		tokens = append(tokens, lz.Copy(int(position), int(length)))
	}
	return tokens, nil
}

// BinarySize returns the number of bytes WriteBinary produces for tokens.
func BinarySize(tokens []lz.Token) int {
	bits := uvarintBits(uint64(len(tokens)))
	for _, token := range tokens {
		bits++
		if token.IsCopy() {
			bits += uvarintBits(uint64(token.Position)) + uvarintBits(uint64(token.Length))
		} else {
			bits += 8
		}
	}
	return (bits + 7) / 8
}

func eofMalformed(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return malformed("unexpected end of stream")
	}
	return err
}
