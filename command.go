// Copyright © 2024, The exhash Authors.

package exhash

import (
	"fmt"
	"regexp"
	"strings"
)

type opKind int

const (
	opSubstitute opKind = iota
	opDelete
	opAppend
	opInsert
	opChange
	opJoin
	opMove
	opCopy
	opIndent
	opDedent
	opSort
	opPrint
	opGlobal
)

// parsedCommand is a tagged variant holding one top-level command, fully
// parsed but not yet executed. Per spec §9's design note, commands are
// modeled this way — one case per primitive, dispatched by a single switch
// in the evaluator — rather than as one interface implementation per op.
type parsedCommand struct {
	kind opKind
	head addrHead

	// substitute
	pattern     *regexp.Regexp
	replacement string
	subGlobal   bool // the 'g' substitute flag: replace every match on the line

	// append/insert/change text block
	text []string

	// move/copy destination
	dest address

	// indent/dedent
	level int

	// global/inverted global
	invert  bool
	matchRe *regexp.Regexp
	subCmd  string // the CMD tail applied to each matching line
}

// allowsSentinelTarget reports whether kind accepts the sentinel address
// 0|0000| as its (single, non-range) target address. Only append/insert
// accept it (spec §3); every other command operates on real line content
// and rejects it. A move/copy destination of 0|0000| is a separate matter,
// accepted by parseMoveCopy (DESIGN.md Open Question 1).
func (k opKind) allowsSentinelTarget() bool {
	switch k {
	case opAppend, opInsert:
		return true
	}
	return false
}

// parseCommand parses the tail of a command string (the part after the
// address head) into a parsedCommand. head has already been verified
// against buf by the caller.
func parseCommand(head addrHead, tail string, buf *Buffer) (parsedCommand, error) {
	cmd := parsedCommand{head: head}

	trimmed := strings.TrimLeft(tail, " ")
	if trimmed == "" {
		return parsedCommand{}, fmt.Errorf("%w: missing command after address", ErrParse)
	}

	switch {
	case strings.HasPrefix(trimmed, "sort"):
		cmd.kind = opSort
		if rest := trimmed[len("sort"):]; rest != "" {
			return parsedCommand{}, trailingErr("sort", rest)
		}
	case trimmed[0] == 's':
		return parseSubstitute(head, trimmed[1:])
	case trimmed[0] == 'd':
		cmd.kind = opDelete
		if rest := trimmed[1:]; rest != "" {
			return parsedCommand{}, trailingErr("d", rest)
		}
	case trimmed[0] == 'j':
		cmd.kind = opJoin
		if rest := trimmed[1:]; rest != "" {
			return parsedCommand{}, trailingErr("j", rest)
		}
	case trimmed[0] == 'p':
		cmd.kind = opPrint
		if rest := trimmed[1:]; rest != "" {
			return parsedCommand{}, trailingErr("p", rest)
		}
	case trimmed[0] == 'a':
		return parseTextCommand(opAppend, head, trimmed[1:])
	case trimmed[0] == 'i':
		return parseTextCommand(opInsert, head, trimmed[1:])
	case trimmed[0] == 'c':
		return parseTextCommand(opChange, head, trimmed[1:])
	case trimmed[0] == 'm':
		return parseMoveCopy(opMove, head, trimmed[1:], buf)
	case trimmed[0] == 't':
		return parseMoveCopy(opCopy, head, trimmed[1:], buf)
	case trimmed[0] == '>':
		return parseIndent(opIndent, head, trimmed[1:])
	case trimmed[0] == '<':
		return parseIndent(opDedent, head, trimmed[1:])
	case trimmed[0] == 'g':
		return parseGlobal(head, trimmed[1:], false)
	case trimmed[0] == 'v':
		return parseGlobal(head, trimmed[1:], true)
	default:
		return parsedCommand{}, fmt.Errorf("%w: unknown command %q", ErrParse, trimmed)
	}
	return cmd, nil
}

func trailingErr(letter, rest string) error {
	return fmt.Errorf("%w: %q does not take trailing text, got %q", ErrParse, letter, rest)
}

// parseTextCommand parses the a/i/c text block: a newline followed by the
// inserted lines, taken verbatim to the end of the command string. No
// newline at all means zero inserted lines.
func parseTextCommand(kind opKind, head addrHead, tail string) (parsedCommand, error) {
	var lines []string
	if tail != "" {
		if tail[0] != '\n' {
			return parsedCommand{}, fmt.Errorf("%w: expected newline before text block, got %q", ErrParse, tail)
		}
		lines = splitBlock(tail[1:])
	}
	return parsedCommand{kind: kind, head: head, text: lines}, nil
}

// scanDelimited scans s up to the next unescaped occurrence of delim,
// treating "\<delim>" as a literal delim rune embedded in the field. It
// returns the field and the remainder of s after the closing delimiter.
func scanDelimited(s string, delim byte) (field, rest string, err error) {
	var buf []byte
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '\\' && i+1 < len(s) && s[i+1] == delim {
			buf = append(buf, delim)
			i += 2
			continue
		}
		if c == delim {
			return string(buf), s[i+1:], nil
		}
		buf = append(buf, c)
		i++
	}
	return "", "", fmt.Errorf("%w: unterminated field, expected closing %q", ErrParse, string(delim))
}

func parseSubstitute(head addrHead, tail string) (parsedCommand, error) {
	if len(tail) == 0 || tail[0] != '/' {
		return parsedCommand{}, fmt.Errorf("%w: expected '/' after 's', got %q", ErrParse, tail)
	}
	pat, rest, err := scanDelimited(tail[1:], '/')
	if err != nil {
		return parsedCommand{}, err
	}
	repl, rest, err := scanDelimited(rest, '/')
	if err != nil {
		return parsedCommand{}, err
	}

	global, ci := false, false
	for _, c := range rest {
		switch c {
		case 'g':
			global = true
		case 'i':
			ci = true
		default:
			return parsedCommand{}, fmt.Errorf("%w: unknown substitute flag %q", ErrParse, string(c))
		}
	}

	expr := pat
	if ci {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return parsedCommand{}, fmt.Errorf("%w: %v", ErrSemantic, err)
	}

	return parsedCommand{
		kind:        opSubstitute,
		head:        head,
		pattern:     re,
		replacement: repl,
		subGlobal:   global,
	}, nil
}

func parseMoveCopy(kind opKind, head addrHead, tail string, buf *Buffer) (parsedCommand, error) {
	sc := &scanner{s: strings.TrimLeft(tail, " ")}
	dest, err := parseOneAddress(sc)
	if err != nil {
		return parsedCommand{}, err
	}
	if rest := sc.rest(); rest != "" {
		letter := "m"
		if kind == opCopy {
			letter = "t"
		}
		return parsedCommand{}, trailingErr(letter, rest)
	}
	// The sentinel is accepted here unconditionally: a move/copy
	// destination of 0|0000| means "to the very front", by the same
	// reasoning as append's sentinel target (DESIGN.md Open Question 1).
	if !dest.isSentinel() {
		if err := verify(buf, dest); err != nil {
			return parsedCommand{}, err
		}
	}
	return parsedCommand{kind: kind, head: head, dest: dest}, nil
}

func parseIndent(kind opKind, head addrHead, tail string) (parsedCommand, error) {
	sc := &scanner{s: tail}
	level := 1
	if n, ok := sc.digits(); ok {
		level = n
	}
	if rest := sc.rest(); rest != "" {
		letter := ">"
		if kind == opDedent {
			letter = "<"
		}
		return parsedCommand{}, trailingErr(letter, rest)
	}
	return parsedCommand{kind: kind, head: head, level: level}, nil
}

func parseGlobal(head addrHead, tail string, forcedInvert bool) (parsedCommand, error) {
	invert := forcedInvert
	if !invert && len(tail) > 0 && tail[0] == '!' {
		invert = true
		tail = tail[1:]
	}
	if len(tail) == 0 || tail[0] != '/' {
		return parsedCommand{}, fmt.Errorf("%w: expected '/' after global command, got %q", ErrParse, tail)
	}
	pat, subCmd, err := scanDelimited(tail[1:], '/')
	if err != nil {
		return parsedCommand{}, err
	}
	if subCmd == "" {
		return parsedCommand{}, fmt.Errorf("%w: global command requires a sub-command", ErrParse)
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return parsedCommand{}, fmt.Errorf("%w: %v", ErrSemantic, err)
	}
	return parsedCommand{kind: opGlobal, head: head, invert: invert, matchRe: re, subCmd: subCmd}, nil
}
