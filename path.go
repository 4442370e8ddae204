package dbind

import (
	"strings"

	"golang.org/x/net/html"
)

// path resolves each marker value as a dot-separated path ("user.address.city").
// Object and array values are bound into the element's direct children whose
// marker names one of their keys; those children are then skipped by the outer
// loop.
func (p *pass) path(data any) {
	for _, n := range p.targets().Nodes {
		if p.isBound(n) {
			continue
		}
		key, _ := getAttr(n, p.b.marker)
		if key == "" {
			continue
		}
		v, ok := Resolve(data, strings.Split(key, "."))
		if !ok {
			p.missing = append(p.missing, key)
			continue
		}
		p.setContent(n, v)
	}
}

func (p *pass) setContent(n *html.Node, v any) {
	switch KindOf(v) {
	case KindMapping, KindSequence:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			key, _ := getAttr(c, p.b.marker)
			if key == "" {
				continue
			}
			if cv, ok := Lookup(v, key); ok {
				p.setContent(c, cv)
			}
		}
	default:
		setText(n, Display(v))
	}
	p.markBound(n)
}
