// Package customelement decides which tag names are candidates for
// server-side expansion.
package customelement

import "regexp"

// pcenChar is the PCENChar production of the HTML standard's valid custom
// element name grammar.
const pcenChar = `[-.0-9_a-z\x{B7}\x{C0}-\x{D6}\x{D8}-\x{F6}\x{F8}-\x{37D}\x{37F}-\x{1FFF}` +
	`\x{200C}\x{200D}\x{203F}\x{2040}\x{2070}-\x{218F}\x{2C00}-\x{2FEF}\x{3001}-\x{D7FF}` +
	`\x{F900}-\x{FDCF}\x{FDF0}-\x{FFFD}\x{10000}-\x{EFFFF}]`

var potentialName = regexp.MustCompile(`^[a-z]` + pcenChar + `*-` + pcenChar + `*$`)

// reserved names are hyphenated but belong to SVG and MathML.
var reserved = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}

// IsCustomElement reports whether name is a valid custom element name:
// lowercase first letter, at least one hyphen, and not reserved.
func IsCustomElement(name string) bool {
	return !reserved[name] && potentialName.MatchString(name)
}
