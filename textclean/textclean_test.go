package textclean

import "testing"

func TestCleanStripsTags(t *testing.T) {
	got := Clean("<p>Hello <b>world</b></p>")
	if got != "Hello world" {
		t.Errorf("Clean = %q, want %q", got, "Hello world")
	}
}

func TestCleanDecodesEntities(t *testing.T) {
	got := Clean("AI &amp; automation&nbsp;at scale &mdash; today")
	want := "AI & automation at scale — today"
	if got != want {
		t.Errorf("Clean = %q, want %q", got, want)
	}
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	got := Clean("  a \n\n  b\t\tc  ")
	if got != "a b c" {
		t.Errorf("Clean = %q, want %q", got, "a b c")
	}
}

func TestCleanEmpty(t *testing.T) {
	if got := Clean(""); got != "" {
		t.Errorf("Clean(\"\") = %q, want empty", got)
	}
}

func TestCleanMalformedMarkup(t *testing.T) {
	// Unclosed and stray tags must degrade to best-effort stripping,
	// never an error or panic.
	cases := []string{
		"<div><p>unclosed",
		"text with <unknown-tag attr='x'>inside</other>",
		"<<p>>double<</p>>",
	}
	for _, c := range cases {
		got := Clean(c)
		if got == "" {
			t.Errorf("Clean(%q) = empty, want best-effort text", c)
		}
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text already",
		"<p>Research on <i>multi-model</i> systems</p>",
		"  spaced   out\ttext  ",
		"<h1>Title</h1><p>Body with &quot;quotes&quot;</p>",
	}
	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
