package chunker

import (
	"strings"
	"testing"

	"github.com/muscatlabs/qanun/internal/section"
)

func addSection(t *section.Tree, parent section.NodeID, title, content string) section.NodeID {
	level := section.LevelSection
	if parent != t.Root() {
		level = section.LevelSubsection
	}
	return t.AddChild(parent, &section.Node{
		Title:     title,
		Content:   content,
		Level:     level,
		SourceDoc: "doc",
	})
}

func TestChunkTree_SmallTreeFitsOneChunk(t *testing.T) {
	tree := section.NewTree("doc")
	// ~200 words -> ~266 tokens, above default MinChunk.
	addSection(tree, tree.Root(), "Article 1: Scope", strings.Repeat("word ", 200))

	cfg := Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     50,
	}
	chunks := ChunkTree(tree, cfg)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
	if chunks[0].Doc != "doc" {
		t.Errorf("expected doc id carried through, got %q", chunks[0].Doc)
	}
	if !strings.Contains(chunks[0].Text, "word") {
		t.Errorf("expected chunk text to contain 'word', got %q", chunks[0].Text)
	}
}

func TestChunkTree_LargeSectionRequiresSplitting(t *testing.T) {
	// ~3000 words -> ~3990 tokens at 1.33 tokens/word.
	largeText := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300)

	tree := section.NewTree("doc")
	addSection(tree, tree.Root(), "Article 1: Long Provision", largeText)

	cfg := Config{
		ChunkSize:    500,
		ChunkOverlap: 50,
		MinChunk:     10,
	}
	chunks := ChunkTree(tree, cfg)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks for large text, got %d", len(chunks))
	}

	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
	}

	// Paragraph/sentence boundaries allow slight overflows, but nothing wild.
	for i, c := range chunks {
		tokens := EstimateTokens(c.Text)
		if tokens > cfg.ChunkSize*2 {
			t.Errorf("chunk %d: %d tokens exceeds 2x target %d", i, tokens, cfg.ChunkSize)
		}
	}
}

func TestChunkTree_BreadcrumbPropagation(t *testing.T) {
	tree := section.NewTree("doc")
	ch := addSection(tree, tree.Root(), "الفصل 1: أحكام عامة", "")
	addSection(tree, ch, "المادة 3: التعاريف", strings.Repeat("content ", 200))

	cfg := Config{
		ChunkSize:    2000,
		ChunkOverlap: 100,
		MinChunk:     10,
	}
	chunks := ChunkTree(tree, cfg)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	bc := chunks[0].Breadcrumb
	want := []string{"الفصل 1: أحكام عامة", "المادة 3: التعاريف"}
	if len(bc) != len(want) {
		t.Fatalf("expected breadcrumb %v, got %v", want, bc)
	}
	for i := range want {
		if bc[i] != want[i] {
			t.Errorf("breadcrumb[%d]: expected %q, got %q", i, want[i], bc[i])
		}
	}
}

func TestChunkTree_BreadcrumbIsolation(t *testing.T) {
	// Breadcrumbs from sibling sections must not leak into each other.
	tree := section.NewTree("doc")
	addSection(tree, tree.Root(), "Article 1", strings.Repeat("alpha ", 200))
	addSection(tree, tree.Root(), "Article 2", strings.Repeat("beta ", 200))

	cfg := Config{
		ChunkSize:    2000,
		ChunkOverlap: 100,
		MinChunk:     10,
	}
	chunks := ChunkTree(tree, cfg)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	if len(chunks[0].Breadcrumb) != 1 || chunks[0].Breadcrumb[0] != "Article 1" {
		t.Errorf("chunk 0 breadcrumb: expected [Article 1], got %v", chunks[0].Breadcrumb)
	}
	if len(chunks[1].Breadcrumb) != 1 || chunks[1].Breadcrumb[0] != "Article 2" {
		t.Errorf("chunk 1 breadcrumb: expected [Article 2], got %v", chunks[1].Breadcrumb)
	}
}

func TestChunkTree_MinChunkFiltering(t *testing.T) {
	tree := section.NewTree("doc")
	addSection(tree, tree.Root(), "Article 1", "Hi")

	cfg := Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     100,
	}
	chunks := ChunkTree(tree, cfg)

	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks (below MinChunk), got %d", len(chunks))
	}
}

func TestChunkTree_EmptyTree(t *testing.T) {
	tree := section.NewTree("empty")
	chunks := ChunkTree(tree, DefaultConfig())
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
}

func TestChunkTree_DefaultConfigFallback(t *testing.T) {
	// Zero-value config falls back to defaults instead of panicking.
	tree := section.NewTree("doc")
	addSection(tree, tree.Root(), "Article 1", strings.Repeat("word ", 200))

	chunks := ChunkTree(tree, Config{})
	if len(chunks) < 1 {
		t.Errorf("expected at least 1 chunk with zero config, got %d", len(chunks))
	}
}

func TestChunkTree_ContainerSectionWithNoContent(t *testing.T) {
	// A chapter with no body of its own still contributes its title to the
	// breadcrumb of nested articles.
	tree := section.NewTree("doc")
	ch := addSection(tree, tree.Root(), "Chapter 1", "")
	addSection(tree, ch, "Article 4", strings.Repeat("leaf content ", 100))

	cfg := Config{
		ChunkSize:    2000,
		ChunkOverlap: 100,
		MinChunk:     10,
	}
	chunks := ChunkTree(tree, cfg)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	want := []string{"Chapter 1", "Article 4"}
	bc := chunks[0].Breadcrumb
	if len(bc) != len(want) {
		t.Fatalf("expected breadcrumb %v, got %v", want, bc)
	}
	for i := range want {
		if bc[i] != want[i] {
			t.Errorf("breadcrumb[%d]: expected %q, got %q", i, want[i], bc[i])
		}
	}
}
