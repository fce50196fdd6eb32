// SPDX-License-Identifier: MIT

// Package textenc decodes playlist files whose source encoding is unknown.
//
// Playlist files circulate from varied regional sources with inconsistent
// encodings, so decoding is best-effort and never fails: the first encoding
// in the priority chain that produces a clean result wins, and the chain
// terminates in a single-byte fallback that accepts any byte sequence.
package textenc

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// legacy encodings tried after UTF-8, in priority order.
var legacy = []encoding.Encoding{
	simplifiedchinese.GB18030,
	traditionalchinese.Big5,
	charmap.ISO8859_1,
}

// Decode converts raw playlist bytes to text. Priority: UTF-8 with BOM, plain
// UTF-8, GB18030, Big5, Latin-1. Decode never fails; if every candidate is
// rejected the input is forced into UTF-8 with replacement characters.
func Decode(data []byte) string {
	if bytes.HasPrefix(data, utf8BOM) {
		rest := data[len(utf8BOM):]
		if utf8.Valid(rest) {
			return string(rest)
		}
	}
	if utf8.Valid(data) {
		return string(data)
	}
	for _, enc := range legacy {
		if out, ok := tryDecode(enc, data); ok {
			return out
		}
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

// tryDecode runs data through the decoder and rejects the result when the
// decoder substituted a replacement character, which x/text decoders emit
// instead of returning an error for malformed input.
func tryDecode(enc encoding.Encoding, data []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	if bytes.ContainsRune(out, utf8.RuneError) && !bytes.Contains(data, []byte(string(utf8.RuneError))) {
		return "", false
	}
	return string(out), true
}
