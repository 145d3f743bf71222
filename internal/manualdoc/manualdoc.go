// Package manualdoc renders product manuals for display and export, and
// extracts their outbound links so stale source URLs can be flagged.
package manualdoc

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/manualbox/internal/errors"
	"git.home.luguber.info/inful/manualbox/internal/models"
)

// LinkKind distinguishes how a link appears in the manual.
type LinkKind string

const (
	LinkInline LinkKind = "inline"
	LinkAuto   LinkKind = "auto"
	LinkImage  LinkKind = "image"
)

// Link is one outbound reference extracted from a manual.
type Link struct {
	Kind        LinkKind
	Destination string
	Text        string
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Render converts a manual to display HTML. Markdown manuals are rendered
// through goldmark; HTML manuals pass through unchanged.
func Render(m models.Manual) (string, error) {
	switch m.Format {
	case models.ManualHTML:
		return m.Content, nil
	case models.ManualMarkdown:
		var buf bytes.Buffer
		if err := md.Convert([]byte(m.Content), &buf); err != nil {
			return "", errors.WrapError(err, errors.CategoryInternal, "render manual").
				WithContext("manual_id", m.ID).Build()
		}
		return buf.String(), nil
	default:
		return "", errors.ValidationError("unknown manual format").
			WithContext("format", string(m.Format)).Build()
	}
}

// ExtractLinks returns the outbound links of a manual in document order
// (images and autolinks included). The result is nil for a manual without
// links.
func ExtractLinks(m models.Manual) ([]Link, error) {
	switch m.Format {
	case models.ManualMarkdown:
		return extractMarkdownLinks([]byte(m.Content)), nil
	case models.ManualHTML:
		return extractHTMLLinks(m.Content)
	default:
		return nil, errors.ValidationError("unknown manual format").
			WithContext("format", string(m.Format)).Build()
	}
}

func extractMarkdownLinks(body []byte) []Link {
	root := md.Parser().Parse(text.NewReader(body))

	var links []Link
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkImage, Destination: string(node.Destination), Text: string(node.Text(body))})
		case *gmast.Link:
			links = append(links, Link{Kind: LinkInline, Destination: string(node.Destination), Text: string(node.Text(body))})
		}
		return gmast.WalkContinue, nil
	})
	return links
}

func extractHTMLLinks(content string) ([]Link, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "parse HTML manual").Build()
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a":
				if href := attr(n, "href"); href != "" {
					links = append(links, Link{Kind: LinkInline, Destination: href, Text: nodeText(n)})
				}
			case "img":
				if src := attr(n, "src"); src != "" {
					links = append(links, Link{Kind: LinkImage, Destination: src, Text: attr(n, "alt")})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
