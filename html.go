package markdown

import "fmt"

// HTMLFlags configures NewHTMLRenderer's behavior, distinct from the
// engine's Extension bits: these govern only how the default renderer
// shapes its output, never what the block/inline parsers recognize.
const (
	HTMLSkipHTML = 1 << iota
	HTMLUseXHTML
	HTMLSafelink
)

// htmlRenderer holds the state the default callbacks close over: the
// configured HTML flags. Headers are written without id attributes.
type htmlRenderer struct {
	flags int
}

// NewHTMLRenderer builds the library's reference Renderer: a direct HTML
// translation of each callback, grounded on original_source's sdhtml
// companion (the renderer shipped alongside sd_markdown, not part of the
// core engine contract itself per spec §1).
func NewHTMLRenderer(flags int) *Renderer {
	h := &htmlRenderer{flags: flags}
	return &Renderer{
		BlockCode:  h.blockCode,
		BlockQuote: h.blockQuote,
		BlockHTML:  h.blockHTML,
		Header:     h.header,
		HRule:      h.hrule,
		List:       h.list,
		ListItem:   h.listItem,
		Paragraph:  h.paragraph,
		Table:      h.table,
		TableRow:   h.tableRow,
		TableCell:  h.tableCell,

		Autolink:       h.autolink,
		CodeSpan:       h.codeSpan,
		DoubleEmphasis: h.doubleEmphasis,
		Emphasis:       h.emphasis,
		Image:          h.image,
		LineBreak:      h.lineBreak,
		Link:           h.link,
		RawHTMLTag:     h.rawHTMLTag,
		TripleEmphasis: h.tripleEmphasis,
		Strikethrough:  h.strikethrough,
		Superscript:    h.superscript,

		Entity:     h.entity,
		NormalText: h.normalText,
	}
}

func (h *htmlRenderer) closeTag() string {
	if h.flags&HTMLUseXHTML != 0 {
		return " />"
	}
	return ">"
}

func (h *htmlRenderer) blockCode(out *ByteBuffer, text []byte, lang string) {
	out.WriteString("<pre><code")
	if lang != "" {
		out.WriteString(` class="language-`)
		attrEscape(out, []byte(lang))
		out.WriteByte('"')
	}
	out.WriteByte('>')
	escapeHTML(out, text)
	out.WriteString("</code></pre>\n")
}

func (h *htmlRenderer) blockQuote(out *ByteBuffer, text []byte) {
	out.WriteString("<blockquote>\n")
	out.Write(text)
	out.WriteString("</blockquote>\n")
}

func (h *htmlRenderer) blockHTML(out *ByteBuffer, text []byte) {
	if h.flags&HTMLSkipHTML != 0 {
		return
	}
	out.Write(text)
}

func (h *htmlRenderer) header(out *ByteBuffer, text []byte, level int) {
	fmt.Fprintf(stringerOf(out), "<h%d>", level)
	out.Write(text)
	fmt.Fprintf(stringerOf(out), "</h%d>\n", level)
}

func (h *htmlRenderer) hrule(out *ByteBuffer) {
	out.WriteString("<hr" + h.closeTag() + "\n")
}

func (h *htmlRenderer) list(out *ByteBuffer, text []byte, flags int) {
	tag := "ul"
	if flags&ListItemOrdered != 0 {
		tag = "ol"
	}
	out.WriteString("<" + tag + ">\n")
	out.Write(text)
	out.WriteString("</" + tag + ">\n")
}

func (h *htmlRenderer) listItem(out *ByteBuffer, text []byte, flags int) {
	out.WriteString("<li>")
	b := text
	for len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	out.Write(b)
	out.WriteString("</li>\n")
}

func (h *htmlRenderer) paragraph(out *ByteBuffer, text []byte) {
	out.WriteString("<p>")
	out.Write(text)
	out.WriteString("</p>\n")
}

func (h *htmlRenderer) table(out *ByteBuffer, header, body []byte) {
	out.WriteString("<table>\n<thead>\n")
	out.Write(header)
	out.WriteString("</thead>\n<tbody>\n")
	out.Write(body)
	out.WriteString("</tbody>\n</table>\n")
}

func (h *htmlRenderer) tableRow(out *ByteBuffer, text []byte) {
	out.WriteString("<tr>\n")
	out.Write(text)
	out.WriteString("</tr>\n")
}

func (h *htmlRenderer) tableCell(out *ByteBuffer, text []byte, flags int) {
	tag := "td"
	if flags&TableHeader != 0 {
		tag = "th"
	}
	out.WriteString("<" + tag)
	switch flags & TableAlignCenter {
	case TableAlignLeft:
		out.WriteString(` align="left"`)
	case TableAlignRight:
		out.WriteString(` align="right"`)
	case TableAlignCenter:
		out.WriteString(` align="center"`)
	}
	out.WriteByte('>')
	out.Write(text)
	out.WriteString("</" + tag + ">\n")
}

func (h *htmlRenderer) autolink(out *ByteBuffer, link []byte, kind int) int {
	out.WriteString(`<a href="`)
	if kind == AutolinkEmail {
		out.WriteString("mailto:")
	}
	escapeHREF(out, link)
	out.WriteString(`">`)
	escapeHTML(out, link)
	out.WriteString("</a>")
	return 1
}

func (h *htmlRenderer) codeSpan(out *ByteBuffer, text []byte) int {
	out.WriteString("<code>")
	escapeHTML(out, text)
	out.WriteString("</code>")
	return 1
}

func (h *htmlRenderer) doubleEmphasis(out *ByteBuffer, text []byte) int {
	out.WriteString("<strong>")
	out.Write(text)
	out.WriteString("</strong>")
	return 1
}

func (h *htmlRenderer) emphasis(out *ByteBuffer, text []byte) int {
	if len(text) == 0 {
		return 0
	}
	out.WriteString("<em>")
	out.Write(text)
	out.WriteString("</em>")
	return 1
}

func (h *htmlRenderer) image(out *ByteBuffer, link, title, alt []byte) int {
	out.WriteString(`<img src="`)
	escapeHREF(out, link)
	out.WriteString(`" alt="`)
	attrEscape(out, alt)
	out.WriteByte('"')
	if len(title) > 0 {
		out.WriteString(` title="`)
		attrEscape(out, title)
		out.WriteByte('"')
	}
	out.WriteString(h.closeTag())
	return 1
}

func (h *htmlRenderer) lineBreak(out *ByteBuffer) int {
	out.WriteString("<br" + h.closeTag() + "\n")
	return 1
}

func (h *htmlRenderer) link(out *ByteBuffer, link, title, content []byte) int {
	if h.flags&HTMLSafelink != 0 && !autolinkIssafe(link) && len(link) > 0 {
		out.Write(content)
		return 1
	}
	out.WriteString(`<a href="`)
	escapeHREF(out, link)
	out.WriteByte('"')
	if len(title) > 0 {
		out.WriteString(` title="`)
		attrEscape(out, title)
		out.WriteByte('"')
	}
	out.WriteByte('>')
	out.Write(content)
	out.WriteString("</a>")
	return 1
}

func (h *htmlRenderer) rawHTMLTag(out *ByteBuffer, tag []byte) int {
	if h.flags&HTMLSkipHTML != 0 {
		return 1
	}
	out.Write(tag)
	return 1
}

func (h *htmlRenderer) tripleEmphasis(out *ByteBuffer, text []byte) int {
	out.WriteString("<strong><em>")
	out.Write(text)
	out.WriteString("</em></strong>")
	return 1
}

func (h *htmlRenderer) strikethrough(out *ByteBuffer, text []byte) int {
	out.WriteString("<del>")
	out.Write(text)
	out.WriteString("</del>")
	return 1
}

func (h *htmlRenderer) superscript(out *ByteBuffer, text []byte) int {
	out.WriteString("<sup>")
	out.Write(text)
	out.WriteString("</sup>")
	return 1
}

func (h *htmlRenderer) entity(out *ByteBuffer, entity []byte) {
	out.Write(entity)
}

func (h *htmlRenderer) normalText(out *ByteBuffer, text []byte) {
	escapeHTML(out, text)
}

// stringerOf adapts a *ByteBuffer to io.Writer for the handful of call
// sites that are more readable with fmt.Fprintf than manual itoa.
func stringerOf(out *ByteBuffer) *bbWriter {
	return &bbWriter{out}
}

type bbWriter struct{ b *ByteBuffer }

func (w *bbWriter) Write(p []byte) (int, error) {
	w.b.Write(p)
	return len(p), nil
}
