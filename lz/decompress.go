package lz

// Decompress replays tokens. Copies are expanded one symbol at a time so that
// a copy may read the symbols it writes. The output is not bounded; use
// DecompressLimit for untrusted streams.
func Decompress(tokens []Token) ([]byte, error) {
	return DecompressLimit(tokens, -1)
}

// DecompressLimit is Decompress with the output capped at limit symbols. A
// token that would grow the output past limit fails before it is replayed. A
// negative limit disables the cap.
func DecompressLimit(tokens []Token, limit int) ([]byte, error) {
	out := make([]byte, 0, len(tokens))
	for i, token := range tokens {
		if limit >= 0 && token.Size() > limit-len(out) {
			return nil, &DecodeError{Index: i, Token: token, Decoded: len(out), Limit: limit}
		}
		switch token.Kind {
		case KindLiteral:
			out = append(out, token.Symbol)
		case KindCopy:
			if token.Length < 1 || token.Position < 0 || token.Position >= len(out) {
				return nil, &DecodeError{Index: i, Token: token, Decoded: len(out)}
			}
			for j := 0; j < token.Length; j++ {
				out = append(out, out[token.Position+j])
			}
		default:
			return nil, &DecodeError{Index: i, Token: token, Decoded: len(out)}
		}
	}
	return out, nil
}
