package dbind

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parse(t *testing.T, src string) *Markup {
	t.Helper()
	m, err := ParseHTML(src)
	require.NoError(t, err)
	return m
}

func TestParseHTML(t *testing.T) {
	t.Run("fragment round trips without wrapper elements", func(t *testing.T) {
		src := "<!-- header -->\n<h1 d=\"title\" class=\"big\">Hello</h1>\n<p>Text <b>bold</b></p>\n"
		m := parse(t, src)
		assert.True(t, m.Fragment())
		assert.Equal(t, src, m.String())
	})

	t.Run("full document is parsed as a document", func(t *testing.T) {
		src := "<!DOCTYPE html><html><head><title>T</title></head><body><p d=\"x\">a</p></body></html>"
		m := parse(t, src)
		assert.False(t, m.Fragment())
		assert.Equal(t, src, m.String())
	})

	t.Run("leading comment before doctype still selects document mode", func(t *testing.T) {
		m := parse(t, "  <!-- c --><html><body></body></html>")
		assert.False(t, m.Fragment())
	})

	t.Run("header tag is not mistaken for head", func(t *testing.T) {
		m := parse(t, "<header>x</header>")
		assert.True(t, m.Fragment())
		assert.Equal(t, "<header>x</header>", m.String())
	})

	t.Run("byte order mark does not hide a full document", func(t *testing.T) {
		src := "\ufeff<!DOCTYPE html><html><head></head><body><p d=\"a\">x</p></body></html>"
		m := parse(t, src)
		assert.False(t, m.Fragment())
		assert.Equal(t, src, m.String())
	})

	t.Run("byte order mark is kept on fragments", func(t *testing.T) {
		src := "\ufeff<p>x</p>"
		m := parse(t, src)
		assert.True(t, m.Fragment())
		assert.Equal(t, src, m.String())
		assert.Equal(t, "p", m.Root().FirstChild.Data, "mark is not parsed as text")
	})

	t.Run("table parts keep their tags", func(t *testing.T) {
		for _, src := range []string{
			`<tr><td d="a">x</td></tr>`,
			"<!-- rows -->\n<tr><th>h</th></tr>\n<tr><td d=\"b\">y</td></tr>",
			`<td d="a">x</td><td>z</td>`,
			`<tbody><tr><td>x</td></tr></tbody>`,
		} {
			m := parse(t, src)
			assert.True(t, m.Fragment())
			assert.Equal(t, src, m.String())
		}
	})

	t.Run("empty source gives an empty fragment", func(t *testing.T) {
		m := parse(t, "")
		assert.Equal(t, "", m.String())
	})

	t.Run("root is a document node", func(t *testing.T) {
		m := parse(t, "<p></p>")
		assert.Equal(t, html.DocumentNode, m.Root().Type)
		assert.Equal(t, 1, m.Selection().Find("p").Length())
	})
}

func TestNodeHelpers(t *testing.T) {
	m := parse(t, `<div class="a b" d="k"><span>x</span>y</div>`)
	div := m.Selection().Find("div").Get(0)

	t.Run("attributes", func(t *testing.T) {
		v, ok := getAttr(div, "d")
		require.True(t, ok)
		assert.Equal(t, "k", v)

		setAttr(div, "d", "j")
		setAttr(div, "title", "t")
		v, _ = getAttr(div, "d")
		assert.Equal(t, "j", v)

		removeAttr(div, "title")
		_, ok = getAttr(div, "title")
		assert.False(t, ok)
	})

	t.Run("classes", func(t *testing.T) {
		assert.True(t, hasClass(div, "b"))
		assert.False(t, hasClass(div, "a b"))
		assert.False(t, hasClass(div, "c"))
	})

	t.Run("clone is deep and detached", func(t *testing.T) {
		c := cloneNode(div)
		assert.Nil(t, c.Parent)
		assert.Equal(t, "xy", textContent(c))
		setAttr(c, "d", "changed")
		v, _ := getAttr(div, "d")
		assert.Equal(t, "j", v)
	})

	t.Run("set text replaces children", func(t *testing.T) {
		setText(div, "new")
		assert.Equal(t, "new", textContent(div))
		assert.True(t, strings.Contains(m.String(), ">new</div>"))

		setText(div, "")
		assert.Nil(t, div.FirstChild)
	})

	t.Run("attached follows parents to the root", func(t *testing.T) {
		assert.True(t, attached(div, m.Root()))
		assert.False(t, attached(cloneNode(div), m.Root()))
	})
}
