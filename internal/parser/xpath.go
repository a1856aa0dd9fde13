package parser

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/engagerank/internal/types"
)

// xpathText returns the trimmed inner text of the first node matching an XPath expression.
func xpathText(root *html.Node, expr string) (string, error) {
	node, err := htmlquery.Query(root, expr)
	if err != nil {
		return "", fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	if node == nil {
		return "", types.ErrNotFound
	}
	return strings.TrimSpace(htmlquery.InnerText(node)), nil
}
