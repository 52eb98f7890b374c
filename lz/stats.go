package lz

// Stats summarizes a token stream.
type Stats struct {
	Tokens      int
	Literals    int
	Copies      int
	Copied      int // symbols produced by copies
	LongestCopy int
	Overlapping int // copies whose source runs into their own output
	Size        int // decoded size
}

func Summarize(tokens []Token) Stats {
	var (
		stats Stats
		pos   int
	)
	stats.Tokens = len(tokens)
	for _, token := range tokens {
		if token.IsCopy() {
			stats.Copies++
			stats.Copied += token.Length
			stats.LongestCopy = max(stats.LongestCopy, token.Length)
			if token.Position+token.Length > pos {
				stats.Overlapping++
			}
		} else {
			stats.Literals++
		}
		pos += token.Size()
	}
	stats.Size = pos
	return stats
}
