package section

import (
	"fmt"
	"strings"
)

// fallbackScan is the secondary pass for documents where the primary scan
// matched nothing. It re-reads every page with looser heuristics: bare
// leading integers and heading-like character runs become level-1 sections,
// and once a page yields nothing under either heuristic the document is
// confirmed unstructured and that page becomes a single page-granularity
// bucket. A non-empty document therefore always ends up with at least one
// child under its root.
func fallbackScan(t *Tree, docID string, pages []Page) {
	sectionsFound := false

	for _, pg := range pages {
		pageFound := false

		for _, re := range fallbackPatterns {
			for _, m := range re.FindAllStringSubmatchIndex(pg.Text, -1) {
				pageFound = true

				marker := strings.TrimSpace(pg.Text[m[2]:m[3]])
				rest := ""
				if m[4] >= 0 {
					rest = strings.TrimSpace(pg.Text[m[4]:m[5]])
				}
				title := marker
				if rest != "" {
					r := []rune(rest)
					if len(r) > titlePreviewLen {
						r = r[:titlePreviewLen]
					}
					title = marker + ": " + string(r) + "..."
				}

				t.AddChild(t.Root(), &Node{
					Title:     title,
					Level:     LevelSection,
					SourceDoc: docID,
					PageNum:   pg.Index,
				})
			}
		}

		if !pageFound && !sectionsFound {
			t.AddChild(t.Root(), &Node{
				Title:     pageTitle(pg),
				Content:   pg.Text,
				Level:     LevelSection,
				SourceDoc: docID,
				PageNum:   pg.Index,
			})
			sectionsFound = true
		}
	}
}

// pageTitle labels a page bucket in the page's dominant language.
func pageTitle(pg Page) string {
	if arabicDominant(pg.Text) {
		return fmt.Sprintf("صفحة %d", pg.Index+1)
	}
	return fmt.Sprintf("Page %d", pg.Index+1)
}
