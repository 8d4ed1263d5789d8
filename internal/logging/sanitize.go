// Package logging provides helpers that keep user-supplied file paths from
// corrupting log files and terminals.
//
// Paths are arbitrary bytes on most platforms. A path containing ESC or other
// control characters can rewrite a terminal or split a log line, so every
// path is escaped before it reaches a log sink.
package logging

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// SafePath returns path with control characters and invalid UTF-8 bytes
// replaced by visible escapes such as \x1b. Tabs and newlines are escaped too,
// since a path is always rendered on a single line.
func SafePath(path string) string {
	return escape(path, false)
}

// SanitizeTerminal makes s safe to print to an interactive terminal.
// Unlike SafePath it leaves tabs and newlines intact.
//
//	"hi\x1b[31mred" -> `hi\x1b[31mred`
//	"bad:\xff"      -> `bad:\xff`
func SanitizeTerminal(s string) string {
	return escape(s, true)
}

// ContainsControl reports whether s holds any byte SafePath would rewrite.
func ContainsControl(s string) bool {
	return firstUnsafe(s, false) < len(s)
}

func escape(s string, keepLayout bool) string {
	idx := firstUnsafe(s, keepLayout)
	if idx == len(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	b.WriteString(s[:idx])

	for idx < len(s) {
		r, size := utf8.DecodeRuneInString(s[idx:])
		switch {
		case r == utf8.RuneError && size == 1:
			appendEscapedByte(&b, s[idx])
		case keepLayout && (r == '\n' || r == '\t'):
			b.WriteRune(r)
		case unicode.IsControl(r):
			appendEscapedRune(&b, r)
		default:
			b.WriteString(s[idx : idx+size])
		}
		idx += size
	}

	return b.String()
}

// firstUnsafe returns the index of the first byte needing an escape, or len(s).
func firstUnsafe(s string, keepLayout bool) int {
	idx := 0
	for idx < len(s) {
		r, size := utf8.DecodeRuneInString(s[idx:])
		if r == utf8.RuneError && size == 1 {
			return idx
		}
		if unicode.IsControl(r) && (!keepLayout || (r != '\n' && r != '\t')) {
			return idx
		}
		idx += size
	}
	return idx
}

func appendEscapedByte(b *strings.Builder, bt byte) {
	b.WriteString(`\x`)
	b.WriteByte(hexDigits[bt>>4])
	b.WriteByte(hexDigits[bt&0x0f])
}

// appendEscapedRune writes \xHH, \uHHHH or \UHHHHHHHH depending on the rune.
func appendEscapedRune(b *strings.Builder, r rune) {
	switch {
	case r <= 0xFF:
		appendEscapedByte(b, byte(r))
	case r <= 0xFFFF:
		b.WriteString(`\u`)
		appendHex(b, r, 4)
	default:
		b.WriteString(`\U`)
		appendHex(b, r, 8)
	}
}

func appendHex(b *strings.Builder, r rune, digits int) {
	for shift := (digits - 1) * 4; shift >= 0; shift -= 4 {
		b.WriteByte(hexDigits[(r>>shift)&0x0f])
	}
}
