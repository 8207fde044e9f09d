package section

import (
	"strings"
	"testing"
)

func TestFallback_PlainProseBecomesPageBucket(t *testing.T) {
	text := "plain prose with no recognizable markers of any kind."
	pages := []Page{{Index: 0, Text: text}}

	tree, found := Extract("prose.pdf", pages)
	if found {
		t.Fatal("primary scan should not match plain prose")
	}
	fallbackScan(tree, "prose.pdf", pages)

	children := tree.Children(tree.Root())
	if len(children) != 1 {
		t.Fatalf("expected exactly 1 page bucket, got %d", len(children))
	}
	bucket := tree.Node(children[0])
	if bucket.Title != "Page 1" {
		t.Errorf("expected title %q, got %q", "Page 1", bucket.Title)
	}
	if bucket.Content != text {
		t.Errorf("bucket content should equal page text verbatim, got %q", bucket.Content)
	}
	if bucket.Level != LevelSection {
		t.Errorf("expected level 1, got %d", bucket.Level)
	}
}

func TestFallback_ArabicProseGetsArabicPageTitle(t *testing.T) {
	// Starts with punctuation so the heading heuristic cannot fire.
	pages := []Page{{Index: 0, Text: "«وثيقة بلا بنية واضحة»"}}
	tree, _ := Extract("doc.pdf", pages)
	fallbackScan(tree, "doc.pdf", pages)

	children := tree.Children(tree.Root())
	if len(children) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(children))
	}
	if got := tree.Node(children[0]).Title; got != "صفحة 1" {
		t.Errorf("expected Arabic page title, got %q", got)
	}
}

func TestFallback_CapitalizedHeadings(t *testing.T) {
	pages := []Page{{Index: 0, Text: "INTRODUCTION\nsome lowercase body text here"}}
	tree, found := Extract("report.pdf", pages)
	if found {
		t.Fatal("primary scan should find nothing")
	}
	fallbackScan(tree, "report.pdf", pages)

	children := tree.Children(tree.Root())
	if len(children) == 0 {
		t.Fatal("expected fallback heading sections")
	}
	if got := tree.Node(children[0]).Title; !strings.HasPrefix(got, "INTRODUCTION") {
		t.Errorf("expected heading-derived title, got %q", got)
	}
}

func TestFallback_BucketSynthesizedOnlyOnce(t *testing.T) {
	// Once the first matchless page confirms an unstructured document, later
	// matchless pages do not synthesize further buckets.
	pages := []Page{
		{Index: 0, Text: "plain prose, first page."},
		{Index: 1, Text: "more prose, second page."},
	}
	tree, _ := Extract("prose.pdf", pages)
	fallbackScan(tree, "prose.pdf", pages)

	children := tree.Children(tree.Root())
	if len(children) != 1 {
		t.Fatalf("expected a single bucket, got %d", len(children))
	}
	if got := tree.Node(children[0]).PageNum; got != 0 {
		t.Errorf("bucket should come from the first page, got page %d", got)
	}
}

func TestFallback_GuaranteesNonEmptyRoot(t *testing.T) {
	inputs := [][]Page{
		{{Index: 0, Text: "no structure at all"}},
		{{Index: 0, Text: "3 scattered digits but no line-start markers"}},
		{{Index: 0, Text: "HEADING ONLY"}},
	}
	for _, pages := range inputs {
		tree, found := Extract("d.pdf", pages)
		if !found {
			fallbackScan(tree, "d.pdf", pages)
		}
		if len(tree.Children(tree.Root())) == 0 {
			t.Errorf("root left empty for pages %q", pages[0].Text)
		}
	}
}
