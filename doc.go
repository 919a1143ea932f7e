// Copyright © 2024, The exhash Authors.

// Package exhash provides a verified, line-addressed editing language for
// in-memory text documents.
//
// Every command targets its line, or range of lines, by both a 1-based line
// number and a short content hash of the line the caller expects to find
// there. If the hash doesn't match the buffer's current content, the edit
// fails instead of silently applying to the wrong line — the usual hazard
// with plain line-number patches against a document that has drifted.
//
// # Buffer
//
// A Buffer is the document under edit: an ordered sequence of lines, plus
// bookkeeping for which original line numbers have been deleted and which
// current line numbers were produced or changed by a command. Exhash owns
// one Buffer per call; there is no sharing, locking, or streaming.
//
// # Addresses
//
// An address has the textual form "N|HHHH|": a decimal line number, a
// 4-hex-digit line hash, each delimited by '|'. Two addresses separated by
// a comma name an inclusive range: "N1|H1|,N2|H2|". The sentinel address
// "0|0000|" names the position before line 1 and is legal only as the
// target of a (append) or i (insert), or as the ADDR of m or t.
//
// # Commands
//
// After the address (or range), the remainder of a command string names
// one primitive operation:
//
//	s/PAT/REP/FLAGS   substitute (FLAGS: g global, i case-insensitive)
//	d                 delete
//	a                 append (text block follows a newline)
//	i                 insert (text block follows a newline)
//	c                 change (text block follows a newline)
//	j                 join
//	m ADDR            move to after ADDR
//	t ADDR            copy to after ADDR
//	>[N]              indent N levels (default 1, one level = 4 spaces)
//	<[N]              dedent N levels
//	sort              stable sort of the range
//	p                 print (no-op on content)
//	g/PAT/CMD         apply CMD to every line in the range matching PAT
//	g!/PAT/CMD v/PAT/CMD   apply CMD to every line NOT matching PAT
//
// Substitution and the global family use Go's regexp (RE2) syntax;
// replacement text uses RE2's backreference convention ($1, ${name}).
//
// # Evaluation
//
// Exhash applies a batch of commands to a document in order. Each command
// is verified against the buffer as mutated by every command before it.
// Move, copy, and global commands snapshot their source material before
// mutating anything, since a sequence's underlying content changes under
// them as later commands run. Any error aborts the call; no partial result
// is ever returned.
package exhash
