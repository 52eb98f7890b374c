package suffixtree

// Symbol is one unit of text. Bytes occupy 0..255 and runes their code point,
// so Sentinel never collides with payload symbols.
type Symbol int32

// Sentinel terminates every text handed to a builder.
const Sentinel Symbol = -1

// FromBytes converts b into a sentinel-terminated symbol text.
func FromBytes(b []byte) []Symbol {
	text := make([]Symbol, len(b)+1)
	for i, c := range b {
		text[i] = Symbol(c)
	}
	text[len(b)] = Sentinel
	return text
}

// FromString converts s rune by rune into a sentinel-terminated symbol text.
func FromString(s string) []Symbol {
	text := make([]Symbol, 0, len(s)+1)
	for _, r := range s {
		text = append(text, Symbol(r))
	}
	return append(text, Sentinel)
}

func checkText(text []Symbol) error {
	if len(text) == 0 {
		return invalidInput("empty text")
	}
	last := len(text) - 1
	if text[last] != Sentinel {
		return invalidInput("text is not terminated by the sentinel")
	}
	for i, s := range text[:last] {
		if s == Sentinel {
			return invalidInput("sentinel found at offset %d", i)
		}
	}
	return nil
}
