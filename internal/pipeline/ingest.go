package pipeline

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/reviewminer/reviewminer/internal/model"
	"github.com/reviewminer/reviewminer/internal/textnorm"
)

// Document is a normalized input ready for extraction.
type Document struct {
	Sentences []string
	FullText  string
}

// Ingest validates raw input and normalizes it into ordered sentences.
// HTML input is reduced to its visible text first.
func Ingest(raw string) (*Document, error) {
	if !utf8.ValidString(raw) {
		return nil, model.ErrInvalidUTF8
	}
	if looksLikeHTML(raw) {
		raw = stripHTML(raw)
	}

	sentences, fullText := textnorm.Normalize(raw)
	if len(sentences) == 0 || strings.TrimSpace(fullText) == "" {
		return nil, model.ErrEmptyDocument
	}
	return &Document{Sentences: sentences, FullText: fullText}, nil
}

func looksLikeHTML(raw string) bool {
	head := strings.ToLower(raw)
	if len(head) > 2048 {
		head = head[:2048]
	}
	for _, marker := range []string{"<!doctype html", "<html", "<body", "<div", "<p>"} {
		if strings.Contains(head, marker) {
			return true
		}
	}
	return false
}

// stripHTML extracts the visible text nodes, skipping non-content tags.
// Parse failures fall back to the raw input.
func stripHTML(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return raw
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head", "nav":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return buf.String()
}
