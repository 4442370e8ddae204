package dbind

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// documentStart matches sources that are complete HTML documents rather than
// fragments: optional leading whitespace and comments, then a doctype or one
// of the document-level tags. A byte order mark is removed before matching.
var documentStart = regexp.MustCompile(`(?is)^\s*(?:<!--.*?-->\s*)*<(?:!doctype|html|head|body)[\s>/]`)

// firstTag captures the name of the first start tag of a fragment.
var firstTag = regexp.MustCompile(`(?is)^\s*(?:<!--.*?-->\s*)*<([a-z][a-z0-9]*)`)

const bom = "\ufeff"

// Markup is a parsed HTML tree. Fragments and full documents both hang off a
// single html.DocumentNode root; for fragments the root holds the top-level
// nodes directly, so nothing like <html> or <body> is added on render.
type Markup struct {
	root     *html.Node
	fragment bool
	bom      bool
}

// ParseHTML parses src as a full document when it starts like one and as a
// fragment otherwise. A leading byte order mark is kept and written back by
// Render.
func ParseHTML(src string) (*Markup, error) {
	src, hasBOM := strings.CutPrefix(src, bom)
	if documentStart.MatchString(src) {
		doc, err := html.Parse(strings.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("%w: parse html document: %w", ErrParse, err)
		}
		return &Markup{root: doc, bom: hasBOM}, nil
	}

	nodes, err := html.ParseFragment(strings.NewReader(src), fragmentContext(src))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html fragment: %w", ErrParse, err)
	}
	if len(nodes) == 0 && strings.TrimSpace(src) != "" {
		return nil, fmt.Errorf("%w: html fragment produced no nodes", ErrParse)
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Markup{root: root, fragment: true, bom: hasBOM}, nil
}

// fragmentContext returns the element a fragment is parsed inside. Table parts
// only keep their tags inside their own parent; everything else is parsed as
// <body> content.
func fragmentContext(src string) *html.Node {
	name := "body"
	if m := firstTag.FindStringSubmatch(src); m != nil {
		switch strings.ToLower(m[1]) {
		case "tr":
			name = "tbody"
		case "td", "th":
			name = "tr"
		case "thead", "tbody", "tfoot", "caption", "colgroup":
			name = "table"
		case "col":
			name = "colgroup"
		}
	}
	return &html.Node{Type: html.ElementNode, Data: name, DataAtom: atom.Lookup([]byte(name))}
}

// Root returns the document node holding the tree.
func (m *Markup) Root() *html.Node { return m.root }

// Fragment reports whether the source was parsed as a fragment.
func (m *Markup) Fragment() bool { return m.fragment }

// Selection returns a goquery document over the tree. Mutations through it
// are visible in the Markup.
func (m *Markup) Selection() *goquery.Document {
	return goquery.NewDocumentFromNode(m.root)
}

// Render writes the tree as HTML.
func (m *Markup) Render(w io.Writer) error {
	if m.bom {
		if _, err := io.WriteString(w, bom); err != nil {
			return fmt.Errorf("render html: %w", err)
		}
	}
	for c := m.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return fmt.Errorf("render html: %w", err)
		}
	}
	return nil
}

func (m *Markup) String() string {
	var buf bytes.Buffer
	if err := m.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}

func hasClass(n *html.Node, class string) bool {
	v, ok := getAttr(n, "class")
	if !ok {
		return false
	}
	return slices.Contains(strings.Fields(v), class)
}

// setText replaces every child of n with a single text node, or with nothing
// when s is empty.
func setText(n *html.Node, s string) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	if s != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
}

// textContent concatenates the text nodes below n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// cloneNode returns a detached deep copy of n.
func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      slices.Clone(n.Attr),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneNode(child))
	}
	return c
}

// attached reports whether n is still reachable from root.
func attached(n, root *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}
