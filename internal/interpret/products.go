package interpret

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// productTag is the pseudo-element the model is asked to wrap product names in.
const productTag = "product"

var productMarker = regexp.MustCompile(`(?s)<product>(.*?)</product>`)

// Shop builds outbound marketplace search links.
type Shop struct {
	BaseURL      string
	AffiliateTag string
}

// SearchURL returns the marketplace search URL for query.
func (s Shop) SearchURL(query string) string {
	v := url.Values{}
	v.Set("k", query)
	if s.AffiliateTag != "" {
		v.Set("tag", s.AffiliateTag)
	}
	return s.BaseURL + "?" + v.Encode()
}

func linkLabel(product string) string {
	return "Shop for \"" + product + "\""
}

// MarkdownLinks rewrites <product>X</product> markers in markdown into
// markdown links, for renderers that never see HTML.
func (s Shop) MarkdownLinks(md string) string {
	return productMarker.ReplaceAllStringFunc(md, func(m string) string {
		name := strings.TrimSpace(productMarker.FindStringSubmatch(m)[1])
		if name == "" {
			return ""
		}
		label := strings.NewReplacer("[", `\[`, "]", `\]`).Replace(linkLabel(name))
		return "[" + label + "](" + s.SearchURL(name) + ")"
	})
}

// HTMLLinks replaces every <product> element in an HTML fragment with an
// anchor to the marketplace search for its text content. The anchor opens in
// a new browsing context.
func (s Shop) HTMLLinks(fragment string) (string, error) {
	if !strings.Contains(fragment, "<"+productTag) {
		return fragment, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("failed to parse html fragment: %w", err)
	}

	for _, n := range nodes {
		body.AppendChild(n)
	}
	s.replaceProducts(body)

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("failed to render html: %w", err)
		}
	}
	return buf.String(), nil
}

func (s Shop) replaceProducts(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && c.Data == productTag {
			name := strings.TrimSpace(textContent(c))
			if name == "" {
				n.RemoveChild(c)
			} else {
				n.InsertBefore(s.anchor(name), c)
				n.RemoveChild(c)
			}
		} else {
			s.replaceProducts(c)
		}
		c = next
	}
}

func (s Shop) anchor(name string) *html.Node {
	a := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr: []html.Attribute{
			{Key: "href", Val: s.SearchURL(name)},
			{Key: "class", Val: "product-link"},
			{Key: "target", Val: "_blank"},
			{Key: "rel", Val: "noopener noreferrer"},
		},
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: linkLabel(name)})
	return a
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
