// Package compare finds provisions across loaded documents and diffs them
// line by line.
package compare

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/muscatlabs/qanun/internal/section"
)

// Provision is one matched section of a loaded document.
type Provision struct {
	Doc     string `json:"doc"`
	Article string `json:"article"`
	Page    int    `json:"page"`
	Text    string `json:"text"`
}

// FindProvisions walks every loaded document and returns sections whose
// title or body contains the query, case-insensitively. Arabic-indic digits
// in the query fold with western ones so "المادة ٥" finds "المادة 5".
func FindProvisions(nav *section.Navigator, query string) []Provision {
	needle := section.NormalizeDigits(strings.ToLower(strings.TrimSpace(query)))
	if needle == "" {
		return nil
	}

	var out []Provision
	for _, docID := range nav.Documents() {
		tree, ok := nav.Select(docID)
		if !ok {
			continue
		}
		var walk func(id section.NodeID)
		walk = func(id section.NodeID) {
			n := tree.Node(id)
			if n.Level >= section.LevelSection && matches(n, needle) {
				out = append(out, Provision{
					Doc:     docID,
					Article: n.Title,
					Page:    n.PageNum,
					Text:    provisionText(n),
				})
			}
			for _, child := range tree.Children(id) {
				walk(child)
			}
		}
		walk(tree.Root())
	}
	return out
}

func matches(n *section.Node, needle string) bool {
	title := section.NormalizeDigits(strings.ToLower(n.Title))
	if strings.Contains(title, needle) {
		return true
	}
	body := section.NormalizeDigits(strings.ToLower(n.Content))
	return strings.Contains(body, needle)
}

func provisionText(n *section.Node) string {
	body := strings.TrimSpace(n.Content)
	if body == "" {
		return n.Title
	}
	return n.Title + "\n" + body
}

// Result categorizes the line-level differences between two provisions.
type Result struct {
	Similar        []string `json:"similar"`
	UniqueToFirst  []string `json:"unique_to_first"`
	UniqueToSecond []string `json:"unique_to_second"`
}

// Diff compares two provisions line by line.
func Diff(p1, p2 Provision) Result {
	var res Result
	for _, d := range lineDiffs(p1.Text, p2.Text) {
		lines := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			res.Similar = append(res.Similar, lines...)
		case diffmatchpatch.DiffDelete:
			res.UniqueToFirst = append(res.UniqueToFirst, lines...)
		case diffmatchpatch.DiffInsert:
			res.UniqueToSecond = append(res.UniqueToSecond, lines...)
		}
	}
	return res
}

// lineDiffs runs a line-mode diff so whole lines move as units.
func lineDiffs(text1, text2 string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	c1, c2, lines := dmp.DiffLinesToChars(text1, text2)
	diffs := dmp.DiffMain(c1, c2, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

func splitLines(chunk string) []string {
	var out []string
	for _, line := range strings.Split(chunk, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
