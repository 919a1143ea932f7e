// Copyright © 2024, The exhash Authors.

package exhash

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLineHashShapeAndDeterminism(t *testing.T) {
	h := LineHash("hello")
	if len(h) != 4 {
		t.Fatalf("LineHash(%q) = %q, want length 4", "hello", h)
	}
	if strings.Trim(h, "0123456789abcdef") != "" {
		t.Fatalf("LineHash(%q) = %q, want all lowercase hex", "hello", h)
	}
	if LineHash("foo") != LineHash("foo") {
		t.Fatalf("LineHash not deterministic for %q", "foo")
	}
	if LineHash("foo") == LineHash("bar") {
		t.Fatalf("LineHash(%q) == LineHash(%q), want distinct (low probability collision, but not for these)", "foo", "bar")
	}
}

func TestLnhash(t *testing.T) {
	addr := Lnhash(1, "hello")
	if !strings.HasPrefix(addr, "1|") {
		t.Fatalf("Lnhash(1, %q) = %q, want prefix %q", "hello", addr, "1|")
	}
	if !strings.HasSuffix(addr, "|") {
		t.Fatalf("Lnhash(1, %q) = %q, want suffix %q", "hello", addr, "|")
	}
	if !strings.Contains(addr, LineHash("hello")) {
		t.Fatalf("Lnhash(1, %q) = %q, want it to contain LineHash %q", "hello", addr, LineHash("hello"))
	}
}

func TestLnhashView(t *testing.T) {
	got := LnhashView("a\nb\nc")
	if len(got) != 3 {
		t.Fatalf("len(LnhashView) = %d, want 3", len(got))
	}
	if !strings.HasSuffix(got[0], "  a") {
		t.Errorf("got[0] = %q, want suffix %q", got[0], "  a")
	}
	if !strings.HasSuffix(got[2], "  c") {
		t.Errorf("got[2] = %q, want suffix %q", got[2], "  c")
	}
	if !strings.HasPrefix(got[0], Lnhash(1, "a")) {
		t.Errorf("got[0] = %q, want prefix %q", got[0], Lnhash(1, "a"))
	}
}

func TestLnhashViewEmpty(t *testing.T) {
	if got := LnhashView(""); len(got) != 0 {
		t.Fatalf("LnhashView(\"\") = %v, want empty", got)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"no trailing newline", "foo\nbar", []string{"foo", "bar"}},
		{"single trailing newline", "foo\nbar\n", []string{"foo", "bar"}},
		{"interior empty line", "foo\n\nbar\n", []string{"foo", "", "bar"}},
		{"single line no newline", "foo", []string{"foo"}},
		{"only a newline", "\n", []string{""}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := splitLines(test.text)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("splitLines(%q) mismatch (-want +got):\n%s", test.text, diff)
			}
		})
	}
}

func TestSplitBlock(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"single line", "x", []string{"x"}},
		{"two lines", "x\ny", []string{"x", "y"}},
		{"trailing newline makes trailing empty line", "x\n", []string{"x", ""}},
		{"empty content is one empty line", "", []string{""}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := splitBlock(test.content)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("splitBlock(%q) mismatch (-want +got):\n%s", test.content, diff)
			}
		})
	}
}
