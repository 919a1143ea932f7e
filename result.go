// Copyright © 2024, The exhash Authors.

package exhash

import (
	"sort"
	"strings"
)

// Result is the outcome of an Exhash call: the final lines, their
// recomputed hashes, and the modified/deleted sets (spec §4.6).
type Result struct {
	// Lines holds the final ordered line contents.
	Lines []string
	// Hashes holds one "N|HHHH|" address per line: Hashes[i] == Lnhash(i+1, Lines[i]).
	Hashes []string
	// Modified holds the ascending, 1-based current-buffer line numbers
	// produced or changed by any command.
	Modified []int
	// Deleted holds the ascending, 1-based ORIGINAL line numbers that no
	// longer exist in the result.
	Deleted []int
}

// Text rejoins Lines with '\n', without a trailing newline — the inverse
// of the document-splitting convention used by Exhash and LnhashView.
func (r *Result) Text() string { return strings.Join(r.Lines, "\n") }

func buildResult(buf *Buffer) *Result {
	n := buf.Len()
	lines := make([]string, n)
	hashes := make([]string, n)
	var modified []int
	for i, e := range buf.entries {
		lines[i] = e.text
		hashes[i] = Lnhash(i+1, e.text)
		if e.modified {
			modified = append(modified, i+1)
		}
	}
	deleted := make([]int, 0, len(buf.deleted))
	for lineno := range buf.deleted {
		deleted = append(deleted, lineno)
	}
	sort.Ints(deleted)
	return &Result{Lines: lines, Hashes: hashes, Modified: modified, Deleted: deleted}
}
