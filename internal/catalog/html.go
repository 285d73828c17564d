package catalog

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags start a new line when they open or close.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// StripHTML turns a product description into plain text: tags are dropped,
// block elements become line breaks, entities are decoded and runs of
// whitespace collapse to a single space.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))

	for {
		switch z.Next() {
		case html.ErrorToken:
			return tidy(sb.String())

		case html.TextToken:
			// Text is already unescaped by the tokenizer.
			sb.Write(z.Text())

		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			if blockTags[string(name)] {
				sb.WriteByte('\n')
			}
		}
	}
}

// tidy collapses whitespace (including non-breaking spaces) and drops blank lines.
func tidy(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n")
}
