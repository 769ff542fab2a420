package db

import (
	"bytes"
	"encoding/json"
)

var nonFiniteTokens = [][]byte{[]byte("NaN"), []byte("-Infinity"), []byte("Infinity")}

// UnmarshalLenient is json.Unmarshal that also accepts the bare NaN,
// Infinity and -Infinity tokens written by pandas/Python json.dump for missing
// values. They decode as null.
func UnmarshalLenient(data []byte, v interface{}) error {
	return json.Unmarshal(nullNonFinite(data), v)
}

// nullNonFinite rewrites non-finite tokens outside string literals to null.
func nullNonFinite(data []byte) []byte {
	if !bytes.Contains(data, []byte("NaN")) && !bytes.Contains(data, []byte("Infinity")) {
		return data
	}

	out := make([]byte, 0, len(data))
	inString, escaped := false, false

	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}

		replaced := false
		for _, tok := range nonFiniteTokens {
			if bytes.HasPrefix(data[i:], tok) {
				out = append(out, "null"...)
				i += len(tok) - 1
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, c)
		}
	}
	return out
}
