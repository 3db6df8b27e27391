package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// DefaultMaxChars bounds extracted article text
const DefaultMaxChars = 5000

// ArticleText returns the visible text of every <p> element joined by
// single spaces, whitespace-collapsed and cut to maxChars runes
// (maxChars <= 0 disables the limit).
func ArticleText(htmlContent string, maxChars int) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var paragraphs []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipElement(n.Data) {
				return
			}
			if n.Data == "p" {
				if text := collapseSpace(visibleText(n)); text != "" {
					paragraphs = append(paragraphs, text)
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return truncate(strings.Join(paragraphs, " "), maxChars), nil
}

// Title returns the document <title>, whitespace-collapsed
func Title(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			title = collapseSpace(visibleText(n))
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)

	return title
}

// visibleText concatenates text nodes under n, skipping scripts/styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElement(n.Data) {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

func skipElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "iframe", "template":
		return true
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}
