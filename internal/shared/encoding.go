package shared

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// RecoverFilename undoes a latin1 misreading of a UTF-8 filename.
//
// Clients that send UTF-8 names often have them decoded byte-by-byte as ISO-8859-1 on the way in ("naÃ¯ve.mp3").
// The name is re-encoded to latin1 bytes and those bytes are kept only when they form valid UTF-8.
// Names that cannot be represented in latin1, or whose latin1 bytes are not UTF-8, are returned unchanged.
func RecoverFilename(name string) string {
	raw, err := charmap.ISO8859_1.NewEncoder().String(name)
	if err != nil {
		return name
	}
	if !utf8.ValidString(raw) {
		return name
	}
	return raw
}
