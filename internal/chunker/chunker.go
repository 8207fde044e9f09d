// Package chunker splits parsed section trees into sized, breadcrumbed text
// chunks ready for embedding and retrieval.
package chunker

import (
	"strings"

	"github.com/muscatlabs/qanun/internal/section"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Target chunk size in tokens.
	ChunkOverlap int // Overlap between consecutive chunks in tokens.
	MinChunk     int // Minimum chunk size to emit.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		MinChunk:     50,
	}
}

// Chunk is a sized text segment with structural context.
type Chunk struct {
	Text       string   // Chunk text content
	Index      int      // Sequence number within document
	Doc        string   // Source document identifier
	Breadcrumb []string // Section hierarchy, e.g. ["Chapter 1", "Article 3: Scope"]
	PageStart  int
	PageEnd    int
}

// ChunkTree walks a section tree and produces structure-aware chunks.
func ChunkTree(t *section.Tree, cfg Config) []Chunk {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 50
	}

	var chunks []Chunk
	index := 0
	for _, child := range t.Children(t.Root()) {
		index = walkNode(t, child, nil, cfg, &chunks, index)
	}
	return chunks
}

// walkNode recursively visits nodes, collecting text and splitting into
// chunks.
func walkNode(t *section.Tree, id section.NodeID, breadcrumb []string, cfg Config, chunks *[]Chunk, index int) int {
	node := t.Node(id)

	var bc []string
	bc = append(bc, breadcrumb...)
	if node.Title != "" {
		bc = append(bc, node.Title)
	}

	text := strings.TrimSpace(node.Content)
	if text != "" {
		tokens := EstimateTokens(text)
		if tokens <= cfg.ChunkSize {
			if tokens >= cfg.MinChunk {
				*chunks = append(*chunks, Chunk{
					Text:       text,
					Index:      index,
					Doc:        node.SourceDoc,
					Breadcrumb: copyBreadcrumb(bc),
					PageStart:  node.PageNum,
					PageEnd:    node.PageNum,
				})
				index++
			}
		} else {
			for _, part := range splitText(text, cfg.ChunkSize, cfg.ChunkOverlap) {
				if EstimateTokens(part) >= cfg.MinChunk {
					*chunks = append(*chunks, Chunk{
						Text:       part,
						Index:      index,
						Doc:        node.SourceDoc,
						Breadcrumb: copyBreadcrumb(bc),
						PageStart:  node.PageNum,
						PageEnd:    node.PageNum,
					})
					index++
				}
			}
		}
	}

	for _, child := range t.Children(id) {
		index = walkNode(t, child, bc, cfg, chunks, index)
	}
	return index
}

// splitText breaks text into chunks of approximately targetTokens, with
// overlap.
func splitText(text string, targetTokens, overlapTokens int) []string {
	paragraphs := splitByParagraphs(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, para := range paragraphs {
		paraTokens := EstimateTokens(para)

		// A single oversized paragraph gets split by sentences.
		if paraTokens > targetTokens {
			if currentTokens > 0 {
				result = append(result, current.String())
				current.Reset()
				currentTokens = 0
			}
			result = append(result, splitBySentences(para, targetTokens, overlapTokens)...)
			continue
		}

		if currentTokens+paraTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())

			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}
	return result
}

func splitByParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitBySentences breaks a large paragraph into sentence-based chunks.
func splitBySentences(text string, targetTokens, overlapTokens int) []string {
	sentences := splitSentences(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range sentences {
		sentTokens := EstimateTokens(sent)

		if currentTokens+sentTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())
			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}
	return result
}

// splitSentences does basic sentence splitting, including the Arabic full
// stop and question mark.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		terminal := r == '.' || r == '!' || r == '?' || r == '؟' || r == '۔'
		if terminal && i+1 < len(runes) && runes[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}
	return sentences
}

// getOverlapText extracts the last N tokens worth of text for overlap.
func getOverlapText(text string, targetTokens int) string {
	words := strings.Fields(text)
	// Approximate: 1.33 tokens per word.
	targetWords := int(float64(targetTokens) / 1.33)
	if targetWords <= 0 || len(words) <= targetWords {
		return ""
	}
	return strings.Join(words[len(words)-targetWords:], " ")
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
