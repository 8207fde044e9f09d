package section

import "strings"

// Scan cursor states. The per-page scan is a small state machine driven by
// pattern matches; the cursor is passed through explicitly so each page scan
// stays testable on its own.
type scanState int

const (
	stateNoSection scanState = iota
	stateInSection
	stateInSubsection
)

type cursor struct {
	state      scanState
	section    NodeID
	subsection NodeID
}

type span struct{ start, end int }

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// Extract runs the primary forward scan over pages in order and returns the
// built tree plus whether any section marker matched anywhere. Pages must be
// supplied in document order; the section/subsection cursors are stateful
// across pages.
//
// Precedence when multiple pattern types could match the same text: patterns
// run in priority order and a span consumed by an earlier pattern type is
// never re-matched, while matches within one pattern type are processed in
// text order. The bare-number section pattern additionally yields to the
// subsection patterns whenever a section is already open, so numbered lists
// inside an article become subsections rather than new articles.
func Extract(docID string, pages []Page) (*Tree, bool) {
	t := NewTree(docID)
	cur := cursor{state: stateNoSection, section: NoNode, subsection: NoNode}
	found := false
	for _, pg := range pages {
		cur = scanPage(t, docID, pg, cur, &found)
	}
	return t, found
}

// scanPage applies the pattern library to one page and returns the updated
// cursor.
func scanPage(t *Tree, docID string, pg Page, cur cursor, found *bool) cursor {
	text := pg.Text
	var consumed []span

	for _, sp := range sectionPatterns {
		if sp.bare && cur.section != NoNode {
			continue
		}
		for _, m := range sp.re.FindAllStringSubmatchIndex(text, -1) {
			if overlaps(consumed, m[0], m[1]) {
				continue
			}
			consumed = append(consumed, span{m[0], m[1]})
			*found = true

			title := composeSectionTitle(sp, text, m)
			id := t.AddChild(t.Root(), &Node{
				Title:     title,
				Level:     LevelSection,
				SourceDoc: docID,
				PageNum:   pg.Index,
			})
			cur = cursor{state: stateInSection, section: id, subsection: NoNode}
		}
	}

	if cur.section != NoNode {
		for _, re := range subsectionPatterns {
			for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
				if overlaps(consumed, m[0], m[1]) {
					continue
				}
				consumed = append(consumed, span{m[0], m[1]})

				marker := text[m[2]:m[3]]
				content := strings.TrimSpace(text[m[4]:m[5]])
				id := t.AddChild(cur.section, &Node{
					Title:     marker + " " + preview(content),
					Content:   content,
					Level:     LevelSubsection,
					SourceDoc: docID,
					PageNum:   pg.Index,
				})
				cur.subsection = id
				cur.state = stateInSubsection
			}
		}
	}

	// No text is lost: the whole page body lands on the deepest open cursor.
	switch {
	case cur.subsection != NoNode:
		t.AppendContent(cur.subsection, text)
	case cur.section != NoNode:
		t.AppendContent(cur.section, text)
	default:
		t.AppendContent(t.Root(), text)
	}

	return cur
}

func composeSectionTitle(sp sectionPattern, text string, m []int) string {
	if sp.composed {
		keyword := text[m[2]:m[3]]
		number := text[m[4]:m[5]]
		heading := strings.TrimSpace(text[m[6]:m[7]])
		if heading != "" {
			return keyword + " " + number + ": " + heading
		}
		return keyword + " " + number
	}

	marker := strings.TrimSpace(text[m[2]:m[3]])
	lead := strings.TrimSpace(text[m[4]:m[5]])
	if lead == "" {
		return marker
	}
	r := []rune(lead)
	if len(r) > titlePreviewLen {
		r = r[:titlePreviewLen]
	}
	return marker + " " + string(r) + "..."
}
