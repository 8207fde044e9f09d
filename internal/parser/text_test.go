package parser

import (
	"strings"
	"testing"
)

func TestTextParser_SinglePage(t *testing.T) {
	input := "Article 1: Scope\nThis law applies."
	p := &TextParser{}
	pages, err := p.Parse(strings.NewReader(input), "law.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].Index != 0 {
		t.Errorf("expected index 0, got %d", pages[0].Index)
	}
	if pages[0].Text != input {
		t.Errorf("expected %q, got %q", input, pages[0].Text)
	}
}

func TestTextParser_FormFeedSplitsPages(t *testing.T) {
	input := "page one text\fpage two text"
	p := &TextParser{}
	pages, err := p.Parse(strings.NewReader(input), "doc.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[1].Index != 1 || pages[1].Text != "page two text" {
		t.Errorf("unexpected second page: %+v", pages[1])
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	pages, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("expected 0 pages for empty input, got %d", len(pages))
	}
}

func TestTextParser_BlankPagesSkipped(t *testing.T) {
	input := "first\f   \fthird"
	p := &TextParser{}
	pages, err := p.Parse(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 non-blank pages, got %d", len(pages))
	}
	// Original page indexes survive the skip.
	if pages[1].Index != 2 {
		t.Errorf("expected index 2 for third page, got %d", pages[1].Index)
	}
}

func TestDocID(t *testing.T) {
	cases := []struct{ in, want string }{
		{"labor-law.pdf", "labor-law"},
		{"/uploads/قانون.pdf", "قانون"},
		{"plain", "plain"},
	}
	for _, c := range cases {
		if got := DocID(c.in); got != c.want {
			t.Errorf("DocID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	if _, err := ForFile("data.csv"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("data.csv") {
		t.Error("csv should not be supported")
	}
	if !IsSupportedExtension("law.PDF") {
		t.Error("extension check should be case-insensitive")
	}
}
