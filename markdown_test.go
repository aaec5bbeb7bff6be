package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, exts int, src string) string {
	t.Helper()
	engine := New(exts, 16, NewHTMLRenderer(0))
	return string(engine.Render([]byte(src)))
}

func TestRenderParagraphAndEmphasis(t *testing.T) {
	out := render(t, NoIntraEmphasis, "hello *world*, this is **bold**.\n")
	assert.Contains(t, out, "<em>world</em>")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestRenderBlockquote(t *testing.T) {
	out := render(t, 0, "> quoted text\n> more\n")
	assert.Contains(t, out, "<blockquote>")
	assert.Contains(t, out, "quoted text")
}

func TestRenderCodeSpan(t *testing.T) {
	out := render(t, 0, "use `fmt.Println` here\n")
	assert.Contains(t, out, "<code>fmt.Println</code>")
}

func TestRenderReferenceLink(t *testing.T) {
	src := "See [the docs][ref] for more.\n\n[ref]: https://example.com/docs \"Docs\"\n"
	out := render(t, 0, src)
	assert.Contains(t, out, `href="https://example.com/docs"`)
	assert.Contains(t, out, `title="Docs"`)
	assert.Contains(t, out, "the docs</a>")
}

func TestRenderFencedCode(t *testing.T) {
	src := "```go\nfmt.Println(1)\n```\n"
	out := render(t, FencedCode, src)
	assert.Contains(t, out, `<pre><code class="language-go">`)
	assert.Contains(t, out, "fmt.Println(1)")
}

func TestRenderTable(t *testing.T) {
	src := "a | b\n--- | ---:\n1 | 2\n"
	out := render(t, Tables, src)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, `align="right"`)
	assert.Contains(t, out, "<td")
}

func TestRenderATXHeader(t *testing.T) {
	out := render(t, 0, "# Title\n\nbody\n")
	assert.Contains(t, out, "<h1>Title</h1>")
}

func TestRenderSetextHeader(t *testing.T) {
	out := render(t, 0, "Title\n=====\n\nbody\n")
	assert.Contains(t, out, "<h1>Title</h1>")
}

func TestRenderUnorderedList(t *testing.T) {
	out := render(t, 0, "* one\n* two\n* three\n")
	assert.Contains(t, out, "<ul>")
	assert.Contains(t, out, "<li>one</li>")
}

func TestRenderOrderedList(t *testing.T) {
	out := render(t, 0, "1. one\n2. two\n")
	assert.Contains(t, out, "<ol>")
}

func TestRenderHRule(t *testing.T) {
	out := render(t, 0, "above\n\n---\n\nbelow\n")
	assert.Contains(t, out, "<hr")
}

func TestRenderAutolinkExtension(t *testing.T) {
	out := render(t, Autolink, "visit www.example.com today\n")
	assert.Contains(t, out, `href="http://www.example.com"`)
}

func TestRenderStrikethrough(t *testing.T) {
	out := render(t, Strikethrough, "this is ~~gone~~ now\n")
	assert.Contains(t, out, "<del>gone</del>")
}

func TestRenderAngleBracketEmailAutolink(t *testing.T) {
	out := render(t, 0, "write to <user@example.com> please\n")
	assert.Contains(t, out, `href="mailto:user@example.com"`)
}

func TestRenderSpaceHeadersRequiresSpace(t *testing.T) {
	out := render(t, SpaceHeaders, "#foo\n")
	assert.NotContains(t, out, "<h1>")

	out = render(t, SpaceHeaders, "# foo\n")
	assert.Contains(t, out, "<h1>foo</h1>")
}

func TestRenderWithoutSpaceHeadersAllowsNoSpace(t *testing.T) {
	out := render(t, 0, "#foo\n")
	assert.Contains(t, out, "<h1>foo</h1>")
}

func TestRenderHTMLBlockSelfClosingHRule(t *testing.T) {
	out := render(t, 0, "above\n\n<hr/>\n\nbelow\n")
	assert.Contains(t, out, "<hr/>")
}

func TestRenderHTMLBlockClosingTagMustBeAloneOnLine(t *testing.T) {
	src := "<div>\nstuff </div> trailing text on the same line\nmore stuff\n</div>\n\nafter\n"
	out := render(t, 0, src)
	assert.Contains(t, out, "more stuff")
	assert.Contains(t, out, "after")
}

func TestRenderTablePadsMissingTrailingCells(t *testing.T) {
	src := "a | b | c\n--- | --- | ---\n1 | 2\n"
	out := render(t, Tables, src)
	assert.Equal(t, 3, strings.Count(out, "<td>"))
	assert.Contains(t, out, "<td></td>")
}

func TestRenderPoolsBalanceAfterRender(t *testing.T) {
	engine := New(Tables|FencedCode|Autolink, 16, NewHTMLRenderer(0))
	engine.Render([]byte("# h\n\n* a\n* b\n\n> q\n\n```\ncode\n```\n"))
	assert.Equal(t, 0, engine.pools[bufBlock].depth())
	assert.Equal(t, 0, engine.pools[bufSpan].depth())
}

func TestRenderNestingLimitTruncatesSilently(t *testing.T) {
	engine := New(0, 2, NewHTMLRenderer(0))
	deep := "> > > > > > > > deeply nested\n"

	var out []byte
	require.NotPanics(t, func() {
		out = engine.Render([]byte(deep))
	})
	assert.NotNil(t, out)
}

func TestRenderIsDeterministic(t *testing.T) {
	src := "# Title\n\nSome *text* with a [link](http://example.com).\n"
	a := render(t, Tables|FencedCode|Autolink, src)
	b := render(t, Tables|FencedCode|Autolink, src)
	assert.Equal(t, a, b)
}

func TestRenderStripsBOM(t *testing.T) {
	src := "\xEF\xBB\xBF# Title\n"
	out := render(t, 0, src)
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.NotContains(t, out, "\xEF\xBB\xBF")
}

func TestVersion(t *testing.T) {
	major, minor, rev := Version()
	assert.Equal(t, 1, major)
	assert.Equal(t, 0, minor)
	assert.Equal(t, 0, rev)
}
