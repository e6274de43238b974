// Package textnorm cleans free text typed into the grid or the user field
// before it reaches a store. Identifiers are never case or width folded
package textnorm

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// controls are Cc runes other than line breaks and tabs, plus Cf format runes (ZWJ, BOM ...)
var controls = runes.Predicate(func(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	return unicode.Is(unicode.Cc, r) || unicode.Is(unicode.Cf, r)
})

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(runes.Remove(controls), norm.NFC)
	},
}

func clean(s string) string {
	s = strings.ToValidUTF8(s, "")
	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return s
	}
	return out
}

// Note normalizes a note cell: NFC, control runes removed, edges trimmed
func Note(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(clean(s))
}

// User normalizes a typed user identifier: cleaned like Note and inner
// whitespace runs collapsed to one space
func User(s string) string {
	if s == "" {
		return s
	}
	return strings.Join(strings.Fields(clean(s)), " ")
}
