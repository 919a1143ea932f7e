// Copyright © 2024, The exhash Authors.

package exhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// LineHash returns the 4-lowercase-hex-digit fingerprint of line's bytes.
// Equal bytes always produce equal hashes; the 4-hex space (65536 values)
// is small enough that collisions are possible, which is why every address
// also carries a line number.
func LineHash(line string) string {
	sum := sha256.Sum256([]byte(line))
	return hex.EncodeToString(sum[:2])
}

// Lnhash returns the canonical address string "N|HHHH|" for lineno and
// line.
func Lnhash(lineno int, line string) string {
	return fmt.Sprintf("%d|%s|", lineno, LineHash(line))
}

// LnhashView splits text into lines (using the same convention as Exhash,
// see splitLines) and returns one "N|HHHH|  LINE" entry per line. Empty
// input returns a nil slice.
func LnhashView(text string) []string {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil
	}
	view := make([]string, len(lines))
	for i, line := range lines {
		view[i] = fmt.Sprintf("%s  %s", Lnhash(i+1, line), line)
	}
	return view
}

// splitLines splits a whole document on '\n'. A single trailing newline
// produces an exclusively-empty trailing element, which is discarded:
// "foo\nbar\n" becomes ["foo", "bar"], not ["foo", "bar", ""]. Interior
// empty lines are preserved. Empty input yields a nil (zero-length) slice.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// splitBlock splits the verbatim text of an a/i/c text block on '\n'. Unlike
// splitLines, a trailing newline in a text block produces a genuine trailing
// empty line: the block is taken verbatim to the end of the command string,
// with no newline discarded. splitBlock is only ever called with the
// content after the leading newline that introduces the block; an absent
// block (no newline at all after the command letter) is handled by the
// caller as zero inserted lines, not by calling splitBlock.
func splitBlock(content string) []string {
	return strings.Split(content, "\n")
}
