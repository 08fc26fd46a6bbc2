// backend/src/parsers/decode.go
package parsers

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var ErrDecodeFailed = errors.New("unable to decode file content")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeBytes turns raw upload bytes into text. UTF-8 (with an optional BOM)
// is preferred; Czech bank exports are frequently Windows-1250, so that is
// tried as the fallback before giving up.
func DecodeBytes(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.Windows1250.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: tried utf-8 and cp1250", ErrDecodeFailed)
	}
	return string(decoded), nil
}
