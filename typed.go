package dbind

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// typed binds data by shape. Without a root selector a mapping binds against
// the whole document; any other value binds against the marker elements, the
// first of which becomes the template for an array. Marker elements left
// unbound at the end are reported missing.
func (p *pass) typed(data any) {
	switch {
	case p.b.rootSel != nil:
		p.bind(p.doc.FindMatcher(p.b.rootSel), data)
	case KindOf(data) == KindMapping:
		p.bindObject(p.doc.Selection, data)
	default:
		p.bind(p.occurrences(), data)
	}

	for _, n := range p.targets().Nodes {
		if p.isBound(n) {
			continue
		}
		if key, _ := getAttr(n, p.b.marker); key != "" {
			p.missing = append(p.missing, key)
		}
	}
}

func (p *pass) bind(sel *goquery.Selection, v any) {
	if sel.Length() == 0 {
		return
	}
	switch KindOf(v) {
	case KindSequence:
		p.bindArray(sel, v)
	case KindMapping:
		p.bindObject(sel, v)
		for _, n := range sel.Nodes {
			p.markBound(n)
		}
	case KindAbsent:
		sel.Remove()
	default:
		for _, n := range sel.Nodes {
			p.bindPrimitive(n, v)
		}
	}
}

// bindArray uses the first element of sel as a template: every other element
// is dropped, one clone per item takes the template's place, and the template
// itself is removed. Clones are inserted before they are bound so nested
// arrays and null items have a parent to work with.
func (p *pass) bindArray(sel *goquery.Selection, v any) {
	var items []any
	switch t := v.(type) {
	case Array:
		items = t
	case []any:
		items = t
	}

	tmpl := sel.Get(0)
	sel.Slice(1, goquery.ToEnd).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return !attached(s.Get(0), tmpl)
	}).Remove()
	parent := tmpl.Parent
	if parent == nil {
		return
	}
	for _, item := range items {
		c := cloneNode(tmpl)
		parent.InsertBefore(c, tmpl)
		p.bind(p.wrap(c), item)
	}
	parent.RemoveChild(tmpl)
}

// bindObject binds each entry of v to the descendants of sel matching its key.
// Elements already bound during this pass, such as the contents of array
// clones, are not rebound by an outer key.
func (p *pass) bindObject(sel *goquery.Selection, v any) {
	for _, k := range Keys(v) {
		val, _ := Lookup(v, k)
		found := sel.FindMatcher(keyMatcher{key: k, marker: p.b.marker})
		found = found.FilterFunction(func(_ int, s *goquery.Selection) bool {
			return !p.isBound(s.Get(0))
		})
		p.bind(found, val)
	}
}

func (p *pass) bindPrimitive(n *html.Node, v any) {
	s := Display(v)
	switch n.Data {
	case "input":
		setAttr(n, "value", s)
	case "select":
		selectOption(n, s)
	case "a":
		setAttr(n, "href", FixURL(s))
		setText(n, s)
	default:
		setText(n, s)
	}
	p.markBound(n)
}

// occurrences returns the marker elements sharing the key of the first one.
func (p *pass) occurrences() *goquery.Selection {
	targets := p.targets()
	if targets.Length() == 0 {
		return targets
	}
	key, _ := targets.First().Attr(p.b.marker)
	return targets.FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr(p.b.marker)
		return v == key
	})
}

// wrap returns a selection holding exactly nodes.
func (p *pass) wrap(nodes ...*html.Node) *goquery.Selection {
	return p.doc.Slice(0, 0).AddNodes(nodes...)
}

// selectOption marks the option whose value equals val as selected and clears
// every other option. An option without a value attribute is compared by its
// trimmed text.
func selectOption(sel *html.Node, val string) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.Data != "option" {
				walk(c)
				continue
			}
			ov, ok := getAttr(c, "value")
			if !ok {
				ov = strings.TrimSpace(textContent(c))
			}
			if ov == val {
				setAttr(c, "selected", "")
			} else {
				removeAttr(c, "selected")
			}
		}
	}
	walk(sel)
}

// FixURL turns a bare address into a link target: strings containing "://"
// are kept, strings containing "@" become mailto: links and everything else
// gets an http:// prefix.
func FixURL(s string) string {
	switch {
	case strings.Contains(s, "://"):
		return s
	case strings.Contains(s, "@"):
		return "mailto:" + s
	default:
		return "http://" + s
	}
}

// keyMatcher selects elements named by a data key: by tag name, by class or by
// marker attribute value. It implements goquery.Matcher.
type keyMatcher struct {
	key    string
	marker string
}

func (m keyMatcher) Match(n *html.Node) bool {
	if n.Type != html.ElementNode || m.key == "" {
		return false
	}
	if strings.EqualFold(n.Data, m.key) {
		return true
	}
	if v, ok := getAttr(n, m.marker); ok && v == m.key {
		return true
	}
	return hasClass(n, m.key)
}

// MatchAll returns n and its descendants that match, in document order.
func (m keyMatcher) MatchAll(n *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if m.Match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func (m keyMatcher) Filter(nodes []*html.Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		if m.Match(n) {
			out = append(out, n)
		}
	}
	return out
}
