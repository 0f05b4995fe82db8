// Package normalize provides a deterministic task title normalizer.
// The normalized form backs the per-day uniqueness check so that
// "숙제하기", "숙제하기 " and fullwidth lookalikes collapse to one title.
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Strip control characters, fold line breaks to spaces
// 3 Unicode NFKC normalization
// 4 Case folding
// 5 Remove combining marks and format chars ZWJ ZWNJ FEFF
// 6 Width fold fullwidth to ASCII
// 7 Collapse whitespace to single spaces and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// Title returns the normalized form of a task title following the
// pipeline described above. Empty in, empty out
func Title(s string) string {
	if s == "" {
		return ""
	}

	s = stripControls(strings.ToValidUTF8(s, ""))

	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	return collapseSpaces(ns)
}

// stripControls drops C0/C1 controls and DEL; line breaks and tabs become
// spaces since titles are single-line
func stripControls(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case r < 0x20 || r == 0x7F:
			return -1
		case r >= 0x80 && r <= 0x9F:
			return -1
		}
		return r
	}, s)
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
