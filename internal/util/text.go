package util

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"
)

// CleanText collapses runs of whitespace (including non-breaking and
// zero-width spaces, which Czech listing pages are full of) into single
// spaces and trims the result.
func CleanText(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		// U+00A0 is covered by IsSpace; U+200B is not but shows up
		// inside scraped price strings.
		if unicode.IsSpace(r) || r == '\u200b' {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// ListingIDFromURL derives a stable listing identifier for pages that expose
// no native id: "PRG-" plus the first 12 uppercase hex characters of the
// URL's md5.
func ListingIDFromURL(url string) string {
	if url == "" {
		return ""
	}
	sum := md5.Sum([]byte(url))
	return "PRG-" + strings.ToUpper(hex.EncodeToString(sum[:])[:12])
}
