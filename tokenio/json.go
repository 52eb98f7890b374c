package tokenio

import (
	"encoding/json"
	"io"

	"github.com/tidwall/gjson"

	"github.com/MoonshotAI/moonlz/lz"
)

// Document is the JSON form of a token stream. A literal is written as
// [symbol] and a copy as [position, length].
type Document struct {
	Size   int     `json:"size"`
	Tokens [][]int `json:"tokens"`
}

func NewDocument(tokens []lz.Token) *Document {
	doc := &Document{Tokens: make([][]int, len(tokens))}
	for i, token := range tokens {
		if token.IsCopy() {
			doc.Tokens[i] = []int{token.Position, token.Length}
		} else {
			doc.Tokens[i] = []int{int(token.Symbol)}
		}
		doc.Size += token.Size()
	}
	return doc
}

func MarshalJSON(tokens []lz.Token) ([]byte, error) {
	return json.Marshal(NewDocument(tokens))
}

func WriteJSON(w io.Writer, tokens []lz.Token) error {
	return json.NewEncoder(w).Encode(NewDocument(tokens))
}

// ReadJSON parses a token document. Fields other than "tokens" are ignored.
func ReadJSON(data []byte) ([]lz.Token, error) {
	if !gjson.ValidBytes(data) {
		return nil, malformed("invalid json")
	}
	list := gjson.GetBytes(data, "tokens")
	if !list.IsArray() {
		return nil, malformed("\"tokens\" is not an array")
	}
	var (
		tokens = make([]lz.Token, 0, int(gjson.GetBytes(data, "tokens.#").Int()))
		err    error
	)
	list.ForEach(func(key, value gjson.Result) bool {
		items := value.Array()
		for _, item := range items {
			if item.Type != gjson.Number {
				err = malformed("token %d: %s is not a number", key.Int(), item.Raw)
				return false
			}
		}
		switch len(items) {
		case 1:
			symbol := items[0].Int()
			if symbol < 0 || symbol > 0xff {
				err = malformed("token %d: literal %d is not a byte", key.Int(), symbol)
				return false
			}
			tokens = append(tokens, lz.Literal(byte(symbol)))
		case 2:
			tokens = append(tokens, lz.Copy(int(items[0].Int()), int(items[1].Int())))
		default:
			err = malformed("token %d: %s", key.Int(), value.Raw)
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}
