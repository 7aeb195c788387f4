package myscheme

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// maxPageContent caps extracted page text so a single result cannot
// dominate the model's context window.
const maxPageContent = 5000

// skippedElements are stripped before text extraction. Navigation and
// boilerplate drown out the scheme details otherwise.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"header":   true,
	"footer":   true,
	"nav":      true,
	"aside":    true,
}

// ExtractText parses HTML and returns the visible body text with
// whitespace collapsed, capped at maxPageContent characters.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	text := strings.Join(strings.Fields(sb.String()), " ")
	if len(text) > maxPageContent {
		cut := maxPageContent
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if body := findBody(child); body != nil {
			return body
		}
	}
	return nil
}
