package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/engagerank/internal/types"
)

// cssText returns the trimmed text of the first element matching a CSS selector.
func cssText(doc *goquery.Document, selector string) (string, error) {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", types.ErrNotFound
	}
	return strings.TrimSpace(sel.Text()), nil
}
