package types

// LocatorKind selects how a locator expression is evaluated.
type LocatorKind string

const (
	LocatorCSS   LocatorKind = "css"
	LocatorXPath LocatorKind = "xpath"
)

// Locator is a declarative reference to the DOM node that displays a counter.
type Locator struct {
	Kind LocatorKind `mapstructure:"kind" yaml:"kind"`
	Expr string      `mapstructure:"expr" yaml:"expr"`
}

// CSS returns a CSS selector locator.
func CSS(expr string) Locator { return Locator{Kind: LocatorCSS, Expr: expr} }

// XPath returns an XPath locator.
func XPath(expr string) Locator { return Locator{Kind: LocatorXPath, Expr: expr} }

// IsXPath reports whether the locator is an XPath expression. Empty kinds default to CSS.
func (l Locator) IsXPath() bool { return l.Kind == LocatorXPath }

func (l Locator) String() string {
	kind := l.Kind
	if kind == "" {
		kind = LocatorCSS
	}
	return string(kind) + ":" + l.Expr
}
