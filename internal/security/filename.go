// Package security guards the file names derived from request input.
package security

import "strings"

// maxNameLen bounds the stem of generated output files.
const maxNameLen = 96

// MapFileStem turns a map name from a request into a file name stem that
// cannot leave the output directory. Runs of characters other than ASCII
// letters, digits, '_' and '-' collapse to a single '_'; dots are replaced
// too, so ".." cannot survive. An empty result becomes "map".
func MapFileStem(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range name {
		if b.Len() >= maxNameLen {
			break
		}
		if r < 0x80 && (r == '_' || r == '-' ||
			('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "map"
	}
	return out
}
