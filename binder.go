// Package dbind binds data values into HTML templates. Elements carrying a
// marker attribute (d="key" by default) have their content replaced by the
// matching value from the data; everything else in the markup is left alone.
//
//	m, _ := dbind.ParseHTML(`<h1 d="greeting">Hello</h1>`)
//	data, _ := dbind.DecodeJSON([]byte(`{"greeting": "Hi"}`))
//	res, _ := dbind.Bind(m, data)
//	fmt.Println(m, res.Missing) // <h1 d="greeting">Hi</h1> []
package dbind

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	ErrInvalidStrategy = errors.New("invalid binding strategy")
	ErrInvalidMarker   = errors.New("invalid marker attribute")
)

// DefaultMarker is the attribute naming the binding key.
const DefaultMarker = "d"

// Strategy selects how marker values are resolved against the data.
type Strategy string

const (
	// StrategyFlat treats the marker value as a single top-level key.
	StrategyFlat Strategy = "flat"
	// StrategyTyped binds recursively by data shape: arrays clone a template
	// element, mappings bind descendants by tag, class or marker, and null
	// removes the element.
	StrategyTyped Strategy = "typed"
	// StrategyPath treats the marker value as a dot-separated path and binds
	// object values into the element's direct children.
	StrategyPath Strategy = "path"
)

// ParseStrategy maps a strategy name to a Strategy. The empty string selects
// StrategyFlat.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyFlat:
		return StrategyFlat, nil
	case StrategyTyped:
		return StrategyTyped, nil
	case StrategyPath:
		return StrategyPath, nil
	default:
		return "", fmt.Errorf("strategy %q: %w", s, ErrInvalidStrategy)
	}
}

func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

var markerName = regexp.MustCompile(`^[a-z_][a-z0-9_-]*$`)

// Binder applies data to markup. A Binder holds configuration only and may be
// shared; all state of a binding pass lives in the pass itself.
type Binder struct {
	strategy Strategy
	marker   string
	strip    bool
	root     string

	query   cascadia.Selector
	rootSel cascadia.Selector
}

// Option configures a Binder.
type Option func(b *Binder) error

// WithStrategy selects the binding strategy. Default StrategyFlat.
func WithStrategy(s Strategy) Option {
	return func(b *Binder) error {
		v, err := ParseStrategy(string(s))
		if err != nil {
			return err
		}
		b.strategy = v
		return nil
	}
}

// WithMarker sets the marker attribute name. Default "d".
func WithMarker(name string) Option {
	return func(b *Binder) error {
		b.marker = strings.ToLower(strings.TrimSpace(name))
		return nil
	}
}

// WithStripMarker removes the marker attribute from bound elements once the
// pass completes. Unresolved elements keep theirs. Default false, which keeps
// the output bindable again with different data.
func WithStripMarker(strip bool) Option {
	return func(b *Binder) error {
		b.strip = strip
		return nil
	}
}

// WithRoot sets the CSS selector the typed strategy binds the whole data value
// against. Ignored by the other strategies.
func WithRoot(selector string) Option {
	return func(b *Binder) error {
		b.root = strings.TrimSpace(selector)
		return nil
	}
}

// New builds a Binder from opts.
func New(opts ...Option) (*Binder, error) {
	b := &Binder{strategy: StrategyFlat, marker: DefaultMarker}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	if !markerName.MatchString(b.marker) {
		return nil, fmt.Errorf("marker %q: %w", b.marker, ErrInvalidMarker)
	}
	q, err := cascadia.Compile("[" + b.marker + "]")
	if err != nil {
		return nil, fmt.Errorf("marker %q: %w: %w", b.marker, ErrInvalidMarker, err)
	}
	b.query = q

	if b.root != "" {
		sel, err := cascadia.Compile(b.root)
		if err != nil {
			return nil, fmt.Errorf("root selector %q: %w", b.root, err)
		}
		b.rootSel = sel
	}
	return b, nil
}

func (b *Binder) Strategy() Strategy { return b.strategy }
func (b *Binder) Marker() string     { return b.marker }

var defaultBinder, _ = New()

// Bind binds data into m with the default flat binder.
func Bind(m *Markup, data any) (*Result, error) {
	return defaultBinder.Bind(m, data)
}

// Result reports the outcome of a binding pass.
type Result struct {
	// Missing lists the binding keys that had no data, once per occurrence and
	// in document order.
	Missing []string
	// Bound counts the elements that received data and are still in the tree.
	Bound int
}

// Bind runs a single binding pass over m. Unresolved keys never fail the pass;
// they are reported in Result.Missing and their elements keep the template
// content.
func (b *Binder) Bind(m *Markup, data any) (*Result, error) {
	if m == nil || m.root == nil {
		return nil, errors.New("bind: nil markup")
	}

	p := &pass{
		b:     b,
		root:  m.root,
		doc:   m.Selection(),
		bound: make(map[*html.Node]struct{}),
	}
	switch b.strategy {
	case StrategyFlat:
		p.flat(data)
	case StrategyTyped:
		p.typed(data)
	case StrategyPath:
		p.path(data)
	default:
		return nil, fmt.Errorf("strategy %q: %w", b.strategy, ErrInvalidStrategy)
	}
	return p.finish(), nil
}

// pass is the state of one Bind call.
type pass struct {
	b       *Binder
	root    *html.Node
	doc     *goquery.Document
	bound   map[*html.Node]struct{}
	order   []*html.Node
	missing []string
}

// targets snapshots the marker elements in document order. The returned slice
// is not affected by later tree mutations.
func (p *pass) targets() *goquery.Selection {
	return p.doc.FindMatcher(p.b.query)
}

func (p *pass) markBound(n *html.Node) {
	if _, ok := p.bound[n]; ok {
		return
	}
	p.bound[n] = struct{}{}
	p.order = append(p.order, n)
}

func (p *pass) isBound(n *html.Node) bool {
	_, ok := p.bound[n]
	return ok
}

func (p *pass) finish() *Result {
	res := &Result{Missing: p.missing}
	if res.Missing == nil {
		res.Missing = []string{}
	}
	for _, n := range p.order {
		if !attached(n, p.root) {
			continue
		}
		res.Bound++
		if p.b.strip {
			removeAttr(n, p.b.marker)
		}
	}
	return res
}
