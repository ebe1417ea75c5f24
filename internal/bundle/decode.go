package bundle

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// decodeText interprets data as UTF-8, replacing every invalid byte with
// U+FFFD. Byte order marks and line endings are kept as they are.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	decoded, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		// The UTF-8 decoder replaces instead of failing; fall back just in case
		return string([]rune(string(data)))
	}
	return string(decoded)
}
