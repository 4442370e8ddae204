package dbind

import "github.com/PuerkitoBio/goquery"

// flat binds every marker element to the top-level entry named by its marker
// value. Elements sharing a key are bound independently.
func (p *pass) flat(data any) {
	p.targets().Each(func(_ int, s *goquery.Selection) {
		key, _ := s.Attr(p.b.marker)
		if key == "" {
			return
		}
		v, ok := Lookup(data, key)
		if !ok {
			p.missing = append(p.missing, key)
			return
		}
		n := s.Get(0)
		setText(n, Display(v))
		p.markBound(n)
	})
}
