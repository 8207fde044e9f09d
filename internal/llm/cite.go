package llm

import (
	"regexp"
	"strings"

	"github.com/muscatlabs/qanun/internal/section"
)

// Citation is a bracketed source reference in a generated answer, in the
// [Law Name, Article X] format the answer prompt asks for.
type Citation struct {
	Law       string `json:"law"`
	Provision string `json:"provision"`
}

var citationRe = regexp.MustCompile(`\[([^,\[\]]+),\s*((?:Article|Section|Chapter|المادة|الفصل|القسم)\s*[0-9٠-٩]+[a-zA-Z]*)\s*\]`)

// Citations extracts the bracketed citations from an answer, deduplicated in
// order of first appearance. Arabic-indic digits are normalized so [X, المادة ٥]
// and [X, المادة 5] count as one citation.
func Citations(answer string) []Citation {
	matches := citationRe.FindAllStringSubmatch(answer, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	var out []Citation
	for _, m := range matches {
		law := strings.TrimSpace(m[1])
		prov := strings.Join(strings.Fields(m[2]), " ")
		key := strings.ToLower(law) + "|" + section.NormalizeDigits(strings.ToLower(prov))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Citation{Law: law, Provision: prov})
	}
	return out
}
