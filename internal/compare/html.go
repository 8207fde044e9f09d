package compare

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Provision Comparison</title>
<style>
body { font-family: sans-serif; margin: 2em; }
h1 { font-size: 1.2em; }
.meta { color: #555; margin-bottom: 1em; }
.diff { white-space: pre-wrap; border: 1px solid #ccc; padding: 1em; line-height: 1.6; }
ins { background: #d4f8d4; text-decoration: none; }
del { background: #f8d4d4; }
</style>
</head>
<body>
<h1>Provision Comparison</h1>
<div class="meta">{{.From}} &harr; {{.To}}</div>
<div class="diff" dir="auto">{{.Diff}}</div>
</body>
</html>
`))

// HTMLReport renders an inline diff of two provisions. Deletions show the
// first provision's text, insertions the second's.
func HTMLReport(p1, p2 Provision) (string, error) {
	dmp := diffmatchpatch.New()
	diffs := lineDiffs(p1.Text, p2.Text)

	data := struct {
		From, To string
		Diff     template.HTML
	}{
		From: fmt.Sprintf("%s - %s", p1.Doc, p1.Article),
		To:   fmt.Sprintf("%s - %s", p2.Doc, p2.Article),
		Diff: template.HTML(dmp.DiffPrettyHtml(diffs)),
	}

	var sb strings.Builder
	if err := reportTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render diff report: %w", err)
	}
	return sb.String(), nil
}
