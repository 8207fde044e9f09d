package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/muscatlabs/qanun/internal/section"
)

// TextParser handles plain text files. Form feeds split pages when present;
// otherwise the whole file is one page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]section.Page, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var buf strings.Builder
	for scanner.Scan() {
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var pages []section.Page
	for i, page := range strings.Split(buf.String(), "\f") {
		if strings.TrimSpace(page) == "" {
			continue
		}
		pages = append(pages, section.Page{Index: i, Text: page})
	}
	return pages, nil
}
