// Copyright © 2024, The exhash Authors.

package exhash

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Exhash applies cmds to text in order and returns the resulting lines,
// their hashes, and the modified/deleted sets. Each command is verified
// against the buffer as mutated by every command before it; any error
// aborts the whole call and no partial result is returned (spec §5, §7).
func Exhash(text string, cmds ...string) (*Result, error) {
	buf := newBuffer(text)
	for i, c := range cmds {
		if err := applyOne(buf, c); err != nil {
			return nil, fmt.Errorf("command %d: %w", i+1, err)
		}
	}
	return buildResult(buf), nil
}

// applyOne parses, verifies, and executes a single command string against
// buf. It is also used, recursively, to apply each sub-command of a global
// (g/v) command to its matching lines.
func applyOne(buf *Buffer, cmdStr string) error {
	head, tail, err := parseAddrHead(cmdStr)
	if err != nil {
		return err
	}
	if err := verifyHead(buf, head); err != nil {
		return err
	}
	cmd, err := parseCommand(head, tail, buf)
	if err != nil {
		return err
	}
	if !head.isRange && head.from.isSentinel() && !cmd.kind.allowsSentinelTarget() {
		return fmt.Errorf("%w: sentinel address 0|0000| is not allowed for this command", ErrVerify)
	}
	return execute(buf, cmd)
}

func execute(buf *Buffer, cmd parsedCommand) error {
	switch cmd.kind {
	case opSubstitute:
		return executeSubstitute(buf, cmd)
	case opDelete:
		buf.removeRange(cmd.head.from.lineno, cmd.head.to.lineno)
		return nil
	case opAppend:
		buf.insertAfter(appendPoint(cmd.head), newEntries(cmd.text))
		return nil
	case opInsert:
		buf.insertAfter(insertPoint(cmd.head), newEntries(cmd.text))
		return nil
	case opChange:
		buf.replaceRange(cmd.head.from.lineno, cmd.head.to.lineno, newEntries(cmd.text))
		return nil
	case opJoin:
		return executeJoin(buf, cmd.head)
	case opMove:
		return executeMove(buf, cmd.head, cmd.dest)
	case opCopy:
		return executeCopy(buf, cmd.head, cmd.dest)
	case opIndent:
		executeIndentDedent(buf, cmd.head, cmd.level, indentLine)
		return nil
	case opDedent:
		executeIndentDedent(buf, cmd.head, cmd.level, dedentLine)
		return nil
	case opSort:
		return executeSort(buf, cmd.head)
	case opPrint:
		return nil
	case opGlobal:
		return executeGlobal(buf, cmd)
	default:
		return fmt.Errorf("%w: unknown command kind", ErrParse)
	}
}

// newEntries converts a text block into freshly inserted entries: no
// original identity (origin 0) and modified.
func newEntries(lines []string) []entry {
	es := make([]entry, len(lines))
	for i, l := range lines {
		es[i] = entry{text: l, origin: 0, modified: true}
	}
	return es
}

// appendPoint returns the insertAfter position for an append: after the
// range's last line, or position 1 (insertAfter(0, ...)) for the sentinel.
func appendPoint(head addrHead) int {
	if head.to.isSentinel() {
		return 0
	}
	return head.to.lineno
}

// insertPoint returns the insertAfter position for an insert: before the
// range's first line, or before line 1 for the sentinel.
func insertPoint(head addrHead) int {
	if head.from.isSentinel() {
		return 0
	}
	return head.from.lineno - 1
}

func executeSubstitute(buf *Buffer, cmd parsedCommand) error {
	from, to := cmd.head.from.lineno, cmd.head.to.lineno
	for i := from; i <= to; i++ {
		line := buf.entries[i-1].text
		newLine, changed := substituteLine(cmd.pattern, cmd.replacement, line, cmd.subGlobal)
		if changed {
			buf.entries[i-1].text = newLine
			buf.entries[i-1].modified = true
		}
	}
	return nil
}

// substituteLine applies re/repl to line once (the default) or to every
// match (global), reporting whether anything matched. Backreferences in
// repl use RE2's $1/${name} convention, expanded via Regexp.ExpandString
// for a single match and Regexp.ReplaceAllString for global.
func substituteLine(re *regexp.Regexp, repl, line string, global bool) (string, bool) {
	if global {
		if !re.MatchString(line) {
			return line, false
		}
		return re.ReplaceAllString(line, repl), true
	}
	loc := re.FindStringSubmatchIndex(line)
	if loc == nil {
		return line, false
	}
	var expanded []byte
	expanded = re.ExpandString(expanded, repl, line, loc)
	return line[:loc[0]] + string(expanded) + line[loc[1]:], true
}

func executeJoin(buf *Buffer, head addrHead) error {
	from, to := head.from.lineno, head.to.lineno
	if !head.isRange {
		to = from + 1
		if from >= buf.Len() {
			return fmt.Errorf("%w: join: line %d is the last line", ErrSemantic, from)
		}
	}
	var sb strings.Builder
	for i := from; i <= to; i++ {
		sb.WriteString(buf.entries[i-1].text)
	}
	merged := entry{text: sb.String(), origin: buf.entries[from-1].origin, modified: true}
	buf.replaceJoinRange(from, to, merged)
	return nil
}

func executeMove(buf *Buffer, head addrHead, dest address) error {
	from, to := head.from.lineno, head.to.lineno
	if !dest.isSentinel() && dest.lineno >= from && dest.lineno <= to {
		return fmt.Errorf("%w: move destination falls inside the moved range", ErrSemantic)
	}
	snapshot := buf.spliceOut(from, to)
	for i := range snapshot {
		snapshot[i].modified = true
	}
	newDest := dest.lineno
	if dest.lineno > to {
		newDest -= to - from + 1
	}
	buf.insertAfter(newDest, snapshot)
	return nil
}

func executeCopy(buf *Buffer, head addrHead, dest address) error {
	from, to := head.from.lineno, head.to.lineno
	if !dest.isSentinel() && dest.lineno >= from && dest.lineno <= to {
		return fmt.Errorf("%w: copy destination falls inside the copied range", ErrSemantic)
	}
	snapshot := make([]entry, to-from+1)
	copy(snapshot, buf.entries[from-1:to])
	for i := range snapshot {
		snapshot[i].origin = 0 // see DESIGN.md Open Question 2
		snapshot[i].modified = true
	}
	buf.insertAfter(dest.lineno, snapshot)
	return nil
}

func indentLine(s string, level int) string {
	return strings.Repeat("    ", level) + s
}

func dedentLine(s string, level int) string {
	want := level * 4
	i := 0
	for i < want && i < len(s) && s[i] == ' ' {
		i++
	}
	return s[i:]
}

func executeIndentDedent(buf *Buffer, head addrHead, level int, f func(string, int) string) {
	from, to := head.from.lineno, head.to.lineno
	for i := from; i <= to; i++ {
		text := buf.entries[i-1].text
		next := f(text, level)
		if next != text {
			buf.entries[i-1].text = next
			buf.entries[i-1].modified = true
		}
	}
}

type sortItem struct {
	e   entry
	idx int
}

func executeSort(buf *Buffer, head addrHead) error {
	from, to := head.from.lineno, head.to.lineno
	n := to - from + 1
	items := make([]sortItem, n)
	for i := 0; i < n; i++ {
		items[i] = sortItem{e: buf.entries[from-1+i], idx: i}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].e.text < items[j].e.text })
	for j, it := range items {
		e := it.e
		if it.idx != j {
			e.modified = true
		}
		buf.entries[from-1+j] = e
	}
	return nil
}

type globalTarget struct {
	lineno int
	hash   string
}

// executeGlobal applies cmd.subCmd to every line in the range matching (or,
// inverted, not matching) cmd.matchRe. Matches are snapshotted before any
// mutation, then applied in DESCENDING line-number order: delete, join, and
// insert-type sub-commands change the positions of everything after them,
// so processing highest-numbered matches first keeps not-yet-processed,
// lower-numbered targets valid. Applying in ascending order instead would
// make "delete every matching line" — the most common use of a global —
// spuriously fail as soon as any one match shifted a later one (see
// DESIGN.md's Open Question on global ordering).
func executeGlobal(buf *Buffer, cmd parsedCommand) error {
	from, to := cmd.head.from.lineno, cmd.head.to.lineno
	var targets []globalTarget
	for i := from; i <= to; i++ {
		line := buf.entries[i-1].text
		matched := cmd.matchRe.MatchString(line)
		if matched == cmd.invert {
			continue
		}
		targets = append(targets, globalTarget{lineno: i, hash: LineHash(line)})
	}
	for i, j := 0, len(targets)-1; i < j; i, j = i+1, j-1 {
		targets[i], targets[j] = targets[j], targets[i]
	}
	for _, t := range targets {
		sub := fmt.Sprintf("%d|%s|%s", t.lineno, t.hash, cmd.subCmd)
		if err := applyOne(buf, sub); err != nil {
			return fmt.Errorf("%w: global sub-command at original line %d: %v", ErrSemantic, t.lineno, err)
		}
	}
	return nil
}
