package crawler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page is a single fetched document reduced to its textual content.
type Page struct {
	URL   string
	Title string
	Text  string
}

// Content holds everything a fetch collected for one league, in visit order.
type Content struct {
	StartURL string
	Pages    []Page
}

// Combined merges the page texts into one document for extraction. Each page
// is prefixed with its URL so multi-page crawls stay attributable.
func (c *Content) Combined() string {
	var b strings.Builder
	for _, page := range c.Pages {
		if page.Text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("[")
		b.WriteString(page.URL)
		b.WriteString("]\n")
		b.WriteString(page.Text)
	}
	return b.String()
}

// Distill strips markup from an HTML document and returns its title plus a
// compact text rendering. Tables are emitted first as pipe-delimited rows so
// standings keep their column structure through the flattening.
func Distill(body []byte) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()
	title = strings.TrimSpace(doc.Find("title").First().Text())

	var tables strings.Builder
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			var cells []string
			row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, collapse(cell.Text()))
			})
			if len(cells) > 0 {
				tables.WriteString(strings.Join(cells, " | "))
				tables.WriteString("\n")
			}
		})
		tables.WriteString("\n")
		// Captured rows replace the table in the flattened output.
		table.Remove()
	})

	sections := make([]string, 0, 2)
	if block := strings.TrimSpace(tables.String()); block != "" {
		sections = append(sections, block)
	}
	if rest := collapse(doc.Find("body").Text()); rest != "" {
		sections = append(sections, rest)
	}
	return title, strings.Join(sections, "\n\n"), nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
