// Package markdown implements a two-pass, block-then-inline Markdown
// parsing engine in the lineage of Sundown/Upskirt and Blackfriday: a
// line-oriented block dispatcher drives a character-triggered inline
// tokenizer, and both stages emit output exclusively through a
// caller-supplied set of renderer callbacks.
//
// The package never decodes the input as Unicode text; bytes are treated
// as opaque 8-bit units except where tab expansion counts runes to align
// to a column.
package markdown

import "unicode/utf8"

// Version identifies the engine release, kept distinct from the Sundown
// version numbers it descends from.
const (
	VersionMajor    = 1
	VersionMinor    = 0
	VersionRevision = 0
)

// Version returns the engine's (major, minor, revision) triple.
func Version() (int, int, int) {
	return VersionMajor, VersionMinor, VersionRevision
}

// Extension bits. Values are stable per spec §6; bit 5 is reserved.
const (
	NoIntraEmphasis = 1 << iota // 1<<0
	Tables                      // 1<<1
	FencedCode                  // 1<<2
	Autolink                    // 1<<3
	Strikethrough               // 1<<4
	_reservedBit5               // 1<<5 — reserved, unused
	SpaceHeaders                // 1<<6
	Superscript                 // 1<<7
	LaxSpacing                  // 1<<8
)

// List/listitem flags, per spec §6.
const (
	ListItemOrdered = 1 << iota
	ListItemContainsBlock
	listItemEndOfList // internal-only; must never reach a callback
)

// Table cell alignment/flags, per spec §6.
const (
	TableAlignLeft = 1 << iota
	TableAlignRight
	TableAlignCenter = TableAlignLeft | TableAlignRight
	TableHeader      = 1 << 2
)

// Autolink kinds delivered to the Autolink callback.
const (
	AutolinkNotAutolink = iota
	AutolinkNormal
	AutolinkEmail
)

// Renderer is the vtable of rendering callbacks. A nil block-level field
// skips that block entirely; a nil or zero-returning span-level field
// falls back to verbatim emission of the matched text; a nil low-level
// field copies its input directly into the output.
//
// Callbacks receive no opaque handle from the engine; a renderer that
// needs state keeps it in the function values it installs, as
// NewHTMLRenderer does with method values.
type Renderer struct {
	// Block-level callbacks — nil skips the block.
	BlockCode  func(out *ByteBuffer, text []byte, lang string)
	BlockQuote func(out *ByteBuffer, text []byte)
	BlockHTML  func(out *ByteBuffer, text []byte)
	Header     func(out *ByteBuffer, text []byte, level int)
	HRule      func(out *ByteBuffer)
	List       func(out *ByteBuffer, text []byte, flags int)
	ListItem   func(out *ByteBuffer, text []byte, flags int)
	Paragraph  func(out *ByteBuffer, text []byte)
	Table      func(out *ByteBuffer, header, body []byte)
	TableRow   func(out *ByteBuffer, text []byte)
	TableCell  func(out *ByteBuffer, text []byte, flags int)

	// Span-level callbacks — return 0 to fall back to verbatim emission.
	Autolink       func(out *ByteBuffer, link []byte, kind int) int
	CodeSpan       func(out *ByteBuffer, text []byte) int
	DoubleEmphasis func(out *ByteBuffer, text []byte) int
	Emphasis       func(out *ByteBuffer, text []byte) int
	Image          func(out *ByteBuffer, link, title, alt []byte) int
	LineBreak      func(out *ByteBuffer) int
	Link           func(out *ByteBuffer, link, title, content []byte) int
	RawHTMLTag     func(out *ByteBuffer, tag []byte) int
	TripleEmphasis func(out *ByteBuffer, text []byte) int
	Strikethrough  func(out *ByteBuffer, text []byte) int
	Superscript    func(out *ByteBuffer, text []byte) int

	// Low-level callbacks — nil copies input verbatim.
	Entity     func(out *ByteBuffer, entity []byte)
	NormalText func(out *ByteBuffer, text []byte)

	// Document bracketing.
	DocumentHeader func(out *ByteBuffer)
	DocumentFooter func(out *ByteBuffer)
}

// charTrigger tags a byte's role in the active-character dispatch table.
type charTrigger int

const (
	charNone charTrigger = iota
	charEmphasis
	charCodespan
	charLinebreak
	charLink
	charLangle
	charEscape
	charEntity
	charAutolinkURL
	charAutolinkEmail
	charAutolinkWWW
	charSuperscript
)

// Engine is an immutable, reusable parsing configuration: a renderer, the
// active extension bitmask, and the derived active-character table. One
// Engine may drive many independent Render calls; it is not safe for
// concurrent use by multiple goroutines at once (spec §5).
type Engine struct {
	renderer   *Renderer
	extensions int
	maxNesting int
	active     [256]charTrigger

	// Logger, if set, receives a one-line warning when an input's BOM is
	// stripped or when recursion truncates a subtree. It is ambient
	// tooling (see SPEC_FULL.md) layered above the core contract; the
	// core never requires it.
	Logger func(format string, args ...any)

	refs    refTable
	pools   [2]bufStack
	insideLinkBody bool
}

// New builds an Engine. maxNesting bounds the combined block+span buffer
// depth (spec §4.4/§5); callers typically pass something in the 10–20
// range. A zero or negative maxNesting is replaced by 16.
func New(extensions int, maxNesting int, renderer *Renderer) *Engine {
	if maxNesting <= 0 {
		maxNesting = 16
	}
	e := &Engine{
		renderer:   renderer,
		extensions: extensions,
		maxNesting: maxNesting,
	}
	e.configureActiveChars()
	return e
}

// configureActiveChars fills the 256-entry active-character table from
// which callbacks are present and which extensions are enabled, per
// spec §3 ("Active-character table").
func (e *Engine) configureActiveChars() {
	r := e.renderer
	if r == nil {
		return
	}
	if r.Emphasis != nil || r.DoubleEmphasis != nil || r.TripleEmphasis != nil {
		e.active['*'] = charEmphasis
		e.active['_'] = charEmphasis
		if e.extensions&Strikethrough != 0 {
			e.active['~'] = charEmphasis
		}
	}
	if r.CodeSpan != nil {
		e.active['`'] = charCodespan
	}
	if r.LineBreak != nil {
		e.active['\n'] = charLinebreak
	}
	if r.Image != nil || r.Link != nil {
		e.active['['] = charLink
	}
	e.active['<'] = charLangle
	e.active['\\'] = charEscape
	e.active['&'] = charEntity

	if e.extensions&Autolink != 0 {
		e.active[':'] = charAutolinkURL
		e.active['@'] = charAutolinkEmail
		e.active['w'] = charAutolinkWWW
	}
	if e.extensions&Superscript != 0 {
		e.active['^'] = charSuperscript
	}
}

// warnf forwards to Logger if set; otherwise it is a no-op, matching the
// "no errors surface from render" contract in spec §7.
func (e *Engine) warnf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger(format, args...)
	}
}

// Render parses document and drives the configured Renderer's callbacks,
// returning the accumulated output. It never returns an error: malformed
// constructs fall back to verbatim emission and OOM truncates output,
// per spec §7.
func (e *Engine) Render(document []byte) []byte {
	if e.renderer == nil {
		return nil
	}

	e.refs.reset()
	e.pools[bufBlock].drain()
	e.pools[bufSpan].drain()
	e.insideLinkBody = false

	text := e.preprocess(document)

	out := newByteBuffer(growEstimate(len(text)))
	if e.renderer.DocumentHeader != nil {
		e.renderer.DocumentHeader(out)
	}

	if len(text) > 0 {
		if text[len(text)-1] != '\n' {
			text = append(text, '\n')
		}
		e.parseBlock(out, text)
	}

	if e.renderer.DocumentFooter != nil {
		e.renderer.DocumentFooter(out)
	}

	if e.pools[bufBlock].depth() != 0 || e.pools[bufSpan].depth() != 0 {
		panic("markdown: work buffer pool not empty at end of render")
	}

	return out.Bytes()
}

// growEstimate mirrors the original's MARKDOWN_GROW(x) = x + x/2
// pre-sizing heuristic so the output buffer rarely needs to reallocate.
func growEstimate(n int) int {
	return n + n/2
}

// nestingExceeded reports whether the combined block+span buffer depth has
// crossed the configured budget, per spec §4.4/§5.
func (e *Engine) nestingExceeded() bool {
	if e.pools[bufBlock].depth()+e.pools[bufSpan].depth() > e.maxNesting {
		e.warnf("markdown: nesting depth above %d, subtree truncated", e.maxNesting)
		return true
	}
	return false
}

func (e *Engine) newBuf(scope bufScope) *ByteBuffer {
	return e.pools[scope].newBuf(scope)
}

func (e *Engine) popBuf(scope bufScope) {
	e.pools[scope].popBuf()
}

// decodeRuneWidth reports the byte width of the rune starting at data[0],
// used only by tab expansion's column counting (spec §3 tab stops are
// measured in columns, not bytes).
func decodeRuneWidth(data []byte) int {
	_, size := utf8.DecodeRune(data)
	if size == 0 {
		return 1
	}
	return size
}
