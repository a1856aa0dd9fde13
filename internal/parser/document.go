package parser

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/engagerank/internal/types"
)

// Document is a parsed HTML page that answers locator queries.
// The same tree backs both CSS (goquery) and XPath (htmlquery) lookups.
type Document struct {
	url  string
	root *html.Node
	doc  *goquery.Document
}

// NewDocument parses body as HTML.
func NewDocument(url string, body []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html for %s: %w", url, err)
	}
	return &Document{
		url:  url,
		root: root,
		doc:  goquery.NewDocumentFromNode(root),
	}, nil
}

// URL returns the address the document was loaded from.
func (d *Document) URL() string { return d.url }

// Text returns the text of the first node matched by loc.
func (d *Document) Text(loc types.Locator) (string, error) {
	if loc.IsXPath() {
		return xpathText(d.root, loc.Expr)
	}
	return cssText(d.doc, loc.Expr)
}
