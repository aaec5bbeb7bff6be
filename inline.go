package markdown

// parseInline scans data for active characters (spec §3 "Active-character
// table") and dispatches each one to its handler, emitting everything
// else through the NormalText callback (or verbatim if absent). This is
// the direct translation of original_source's parse_inline.
func (e *Engine) parseInline(out *ByteBuffer, data []byte) {
	if e.nestingExceeded() {
		return
	}

	i, end := 0, 0
	for i < len(data) {
		for end < len(data) && e.active[data[end]] == charNone {
			end++
		}

		e.emitNormal(out, data[i:end])

		if end >= len(data) {
			break
		}
		i = end

		consumed := e.dispatchChar(out, data, i)
		if consumed == 0 {
			end = i + 1
		} else {
			i += consumed
			end = i
		}
	}
}

// emitNormal routes inactive-byte runs through NormalText, or writes them
// verbatim if no such callback is registered (spec §6, "low-level
// callbacks").
func (e *Engine) emitNormal(out *ByteBuffer, text []byte) {
	if len(text) == 0 {
		return
	}
	if e.renderer.NormalText != nil {
		e.renderer.NormalText(out, text)
	} else {
		out.Write(text)
	}
}

// dispatchChar invokes the handler for the active character at data[i],
// returning the number of bytes it consumed, or 0 if it declined.
func (e *Engine) dispatchChar(out *ByteBuffer, data []byte, i int) int {
	switch e.active[data[i]] {
	case charEmphasis:
		return e.inlineEmphasis(out, data, i)
	case charCodespan:
		return e.inlineCodespan(out, data, i)
	case charLinebreak:
		return e.inlineLinebreak(out, data, i)
	case charLink:
		return e.inlineLink(out, data, i)
	case charLangle:
		return e.inlineLangle(out, data, i)
	case charEscape:
		return e.inlineEscape(out, data, i)
	case charEntity:
		return e.inlineEntity(out, data, i)
	case charAutolinkURL:
		return e.inlineAutolinkURL(out, data, i)
	case charAutolinkEmail:
		return e.inlineAutolinkEmail(out, data, i)
	case charAutolinkWWW:
		return e.inlineAutolinkWWW(out, data, i)
	case charSuperscript:
		return e.inlineSuperscript(out, data, i)
	default:
		return 0
	}
}

// unscapeText copies src to a new slice with backslash escapes collapsed
// (the backslash itself dropped, the escaped byte kept), matching
// original_source's unscape_text. Used on URLs/autolink bodies, which are
// never otherwise inline-parsed.
func unscapeText(src []byte) []byte {
	out := newByteBuffer(len(src))
	i := 0
	for i < len(src) {
		start := i
		for i < len(src) && src[i] != '\\' {
			i++
		}
		if i > start {
			out.Write(src[start:i])
		}
		if i+1 >= len(src) {
			break
		}
		out.WriteByte(src[i+1])
		i += 2
	}
	return out.Bytes()
}

// --- emphasis (*, _, ~) -----------------------------------------------

// inlineEmphasis is char_emphasis: dispatches to the single/double/triple
// emphasis recognizers based on how many consecutive delimiter bytes
// follow the trigger.
func (e *Engine) inlineEmphasis(out *ByteBuffer, data []byte, i int) int {
	c := data[i]
	sub := data[i:]
	size := len(sub)

	if e.extensions&NoIntraEmphasis != 0 {
		if i > 0 && !isSpace(data[i-1]) && data[i-1] != '>' {
			return 0
		}
	}

	if size > 2 && sub[1] != c {
		if c == '~' || isSpace(sub[1]) {
			return 0
		}
		ret := e.parseEmph1(out, sub[1:], c)
		if ret == 0 {
			return 0
		}
		return ret + 1
	}

	if size > 3 && sub[1] == c && sub[2] != c {
		if isSpace(sub[2]) {
			return 0
		}
		ret := e.parseEmph2(out, sub[2:], c)
		if ret == 0 {
			return 0
		}
		return ret + 2
	}

	if size > 4 && sub[1] == c && sub[2] == c && sub[3] != c {
		if c == '~' || isSpace(sub[3]) {
			return 0
		}
		ret := e.parseEmph3(out, sub, 3, c)
		if ret == 0 {
			return 0
		}
		return ret + 3
	}

	return 0
}

// findEmphChar looks for the next occurrence of c, skipping over code
// spans, bracket/link groups, and backslash-escaped bytes — remembering
// the earliest candidate inside a skipped group so an unterminated group
// still yields a usable close (spec §4.5).
func findEmphChar(data []byte, c byte) int {
	i := 1
	for i < len(data) {
		for i < len(data) && data[i] != c && data[i] != '`' && data[i] != '[' {
			i++
		}
		if i == len(data) {
			return 0
		}
		if i > 0 && data[i-1] == '\\' {
			i++
			continue
		}
		if data[i] == c {
			return i
		}

		if data[i] == '`' {
			spanNb := 0
			tmpI := 0
			for i < len(data) && data[i] == '`' {
				i++
				spanNb++
			}
			if i >= len(data) {
				return 0
			}
			bt := 0
			for i < len(data) && bt < spanNb {
				if tmpI == 0 && data[i] == c {
					tmpI = i
				}
				if data[i] == '`' {
					bt++
				} else {
					bt = 0
				}
				i++
			}
			if i >= len(data) {
				return tmpI
			}
		} else if data[i] == '[' {
			tmpI := 0
			i++
			for i < len(data) && data[i] != ']' {
				if tmpI == 0 && data[i] == c {
					tmpI = i
				}
				i++
			}
			i++
			for i < len(data) && (data[i] == ' ' || data[i] == '\n') {
				i++
			}
			if i >= len(data) {
				return tmpI
			}

			var cc byte
			if data[i] == '[' {
				cc = ']'
			} else if data[i] == '(' {
				cc = ')'
			} else {
				if tmpI != 0 {
					return tmpI
				}
				continue
			}

			i++
			for i < len(data) && data[i] != cc {
				if tmpI == 0 && data[i] == c {
					tmpI = i
				}
				i++
			}
			if i >= len(data) {
				return tmpI
			}
			i++
		}
	}
	return 0
}

// parseEmph1 recognizes single emphasis (e.g. *word*), closed by a
// delimiter not preceded by whitespace.
func (e *Engine) parseEmph1(out *ByteBuffer, data []byte, c byte) int {
	if e.renderer.Emphasis == nil {
		return 0
	}
	i := 0
	if len(data) > 1 && data[0] == c && data[1] == c {
		i = 1
	}
	for i < len(data) {
		length := findEmphChar(data[i:], c)
		if length == 0 {
			return 0
		}
		i += length
		if i >= len(data) {
			return 0
		}

		if data[i] == c && !isSpace(data[i-1]) {
			if e.extensions&NoIntraEmphasis != 0 {
				if i+1 < len(data) && isAlnum(data[i+1]) {
					continue
				}
			}
			work := e.newBuf(bufSpan)
			e.parseInline(work, data[:i])
			r := e.renderer.Emphasis(out, work.Bytes())
			e.popBuf(bufSpan)
			if r != 0 {
				return i + 1
			}
			return 0
		}
	}
	return 0
}

// parseEmph2 recognizes double emphasis/strikethrough (**strong**, ~~s~~).
func (e *Engine) parseEmph2(out *ByteBuffer, data []byte, c byte) int {
	var render func(*ByteBuffer, []byte) int
	if c == '~' {
		render = e.renderer.Strikethrough
	} else {
		render = e.renderer.DoubleEmphasis
	}
	if render == nil {
		return 0
	}

	i := 0
	for i < len(data) {
		length := findEmphChar(data[i:], c)
		if length == 0 {
			return 0
		}
		i += length

		if i+1 < len(data) && data[i] == c && data[i+1] == c && i > 0 && !isSpace(data[i-1]) {
			work := e.newBuf(bufSpan)
			e.parseInline(work, data[:i])
			r := render(out, work.Bytes())
			e.popBuf(bufSpan)
			if r != 0 {
				return i + 2
			}
			return 0
		}
		i++
	}
	return 0
}

// parseEmph3 recognizes triple emphasis (***both***), delegating to
// parseEmph1/parseEmph2 with a rewound view when the actual close turns
// out to be single- or double-width. sub is the full run starting at the
// opening delimiter; skip is how many of its leading bytes (the opener)
// to start scanning past.
func (e *Engine) parseEmph3(out *ByteBuffer, sub []byte, skip int, c byte) int {
	d := sub[skip:]
	i := 0
	for i < len(d) {
		length := findEmphChar(d[i:], c)
		if length == 0 {
			return 0
		}
		i += length

		if d[i] != c || isSpace(d[i-1]) {
			continue
		}

		if i+2 < len(d) && d[i+1] == c && d[i+2] == c && e.renderer.TripleEmphasis != nil {
			work := e.newBuf(bufSpan)
			e.parseInline(work, d[:i])
			r := e.renderer.TripleEmphasis(out, work.Bytes())
			e.popBuf(bufSpan)
			if r != 0 {
				return i + 3
			}
			return 0
		} else if i+1 < len(d) && d[i+1] == c {
			length = e.parseEmph1(out, sub[skip-2:], c)
			if length == 0 {
				return 0
			}
			return length - 2
		} else {
			length = e.parseEmph2(out, sub[skip-1:], c)
			if length == 0 {
				return 0
			}
			return length - 1
		}
	}
	return 0
}

// --- code span (`) ------------------------------------------------------

func (e *Engine) inlineCodespan(out *ByteBuffer, data []byte, i int) int {
	sub := data[i:]
	if e.renderer.CodeSpan == nil {
		return 0
	}

	nb := 0
	for nb < len(sub) && sub[nb] == '`' {
		nb++
	}

	end, matched := nb, 0
	for ; end < len(sub) && matched < nb; end++ {
		if sub[end] == '`' {
			matched++
		} else {
			matched = 0
		}
	}
	if matched < nb && end >= len(sub) {
		return 0
	}

	fBeg := nb
	for fBeg < end && sub[fBeg] == ' ' {
		fBeg++
	}
	fEnd := end - nb
	for fEnd > nb && sub[fEnd-1] == ' ' {
		fEnd--
	}

	var ok bool
	if fBeg < fEnd {
		ok = e.renderer.CodeSpan(out, sub[fBeg:fEnd]) != 0
	} else {
		ok = e.renderer.CodeSpan(out, nil) != 0
	}
	if !ok {
		return 0
	}
	return end
}

// --- line break ----------------------------------------------------------

func (e *Engine) inlineLinebreak(out *ByteBuffer, data []byte, i int) int {
	if i < 2 || data[i-1] != ' ' || data[i-2] != ' ' {
		return 0
	}
	b := out.Bytes()
	n := len(b)
	for n > 0 && b[n-1] == ' ' {
		n--
	}
	out.Truncate(n)

	if e.renderer.LineBreak(out) != 0 {
		return 1
	}
	return 0
}

// --- escape (\) -----------------------------------------------------------

const escapeChars = "\\`*_{}[]()#+-.!:|&<>^~"

func (e *Engine) inlineEscape(out *ByteBuffer, data []byte, i int) int {
	rest := len(data) - i
	if rest > 1 {
		c := data[i+1]
		found := false
		for k := 0; k < len(escapeChars); k++ {
			if escapeChars[k] == c {
				found = true
				break
			}
		}
		if !found {
			return 0
		}
		e.emitNormal(out, data[i+1:i+2])
	} else if rest == 1 {
		out.WriteByte(data[i])
	}
	return 2
}

// --- entity (&) -------------------------------------------------------------

func (e *Engine) inlineEntity(out *ByteBuffer, data []byte, i int) int {
	sub := data[i:]
	end := 1
	if end < len(sub) && sub[end] == '#' {
		end++
	}
	for end < len(sub) && isAlnum(sub[end]) {
		end++
	}
	if end < len(sub) && sub[end] == ';' {
		end++
	} else {
		return 0
	}

	if e.renderer.Entity != nil {
		e.renderer.Entity(out, sub[:end])
	} else {
		out.Write(sub[:end])
	}
	return end
}

// --- angle-bracket tags and autolinks (<) -----------------------------------

func (e *Engine) inlineLangle(out *ByteBuffer, data []byte, i int) int {
	sub := data[i:]
	altype := AutolinkNotAutolink
	end := tagLength(sub, &altype)
	ret := false

	if end > 2 {
		if e.renderer.Autolink != nil && altype != AutolinkNotAutolink {
			link := unscapeText(sub[1 : end-1])
			ret = e.renderer.Autolink(out, link, altype) != 0
		} else if e.renderer.RawHTMLTag != nil {
			ret = e.renderer.RawHTMLTag(out, sub[:end]) != 0
		}
	}

	if !ret {
		return 0
	}
	return end
}

// tagLength determines whether data begins with an email autolink, a
// scheme autolink, or a plain HTML tag, returning the byte length of the
// "<...>" span and the autolink kind via altype. Ported from
// original_source's tag_length.
func tagLength(data []byte, altype *int) int {
	if len(data) < 3 {
		return 0
	}
	if data[0] != '<' {
		return 0
	}
	i := 1
	if data[1] == '/' {
		i = 2
	}
	if i >= len(data) || !isAlnum(data[i]) {
		return 0
	}

	*altype = AutolinkNotAutolink
	for i < len(data) && (isAlnum(data[i]) || data[i] == '.' || data[i] == '+' || data[i] == '-') {
		i++
	}

	if i > 1 && i < len(data) && data[i] == '@' {
		if j := isMailAutolink(data[i:]); j != 0 {
			*altype = AutolinkEmail
			return i + j
		}
	}

	if i > 2 && i < len(data) && data[i] == ':' {
		*altype = AutolinkNormal
		i++
	}

	if i >= len(data) {
		*altype = AutolinkNotAutolink
	} else if *altype != AutolinkNotAutolink {
		j := i
		for i < len(data) {
			if data[i] == '\\' {
				i += 2
				continue
			}
			if data[i] == '>' || data[i] == '\'' || data[i] == '"' || data[i] == ' ' || data[i] == '\n' {
				break
			}
			i++
		}
		if i >= len(data) {
			return 0
		}
		if i > j && data[i] == '>' {
			return i + 1
		}
		*altype = AutolinkNotAutolink
	}

	for i < len(data) && data[i] != '>' {
		i++
	}
	if i >= len(data) {
		return 0
	}
	return i + 1
}

// isMailAutolink checks for an "@host.tld>" tail (data starts at the '@'
// tagLength stopped on), returning its length including the closing '>',
// or 0.
func isMailAutolink(data []byte) int {
	nb := 0
	i := 0
	for i < len(data) {
		if isAlnum(data[i]) {
			i++
			continue
		}
		switch data[i] {
		case '@':
			nb++
			i++
		case '-', '.', '_':
			i++
		case '>':
			if nb == 1 {
				return i + 1
			}
			return 0
		default:
			return 0
		}
	}
	return 0
}

// --- autolinks (bare www/url/email triggers, spec §4.5) --------------------

func (e *Engine) inlineAutolinkWWW(out *ByteBuffer, data []byte, i int) int {
	if e.renderer.Link == nil || e.insideLinkBody {
		return 0
	}
	link, rewind, consumed := scanWWW(data[:i], data[i:])
	if consumed == 0 {
		return 0
	}

	before := out.Bytes()
	out.Truncate(len(before) - rewind)

	linkURL := append([]byte("http://"), link...)
	if e.renderer.NormalText != nil {
		textBuf := newByteBuffer(len(link))
		e.renderer.NormalText(textBuf, link)
		e.renderer.Link(out, linkURL, nil, textBuf.Bytes())
	} else {
		e.renderer.Link(out, linkURL, nil, link)
	}
	return consumed
}

func (e *Engine) inlineAutolinkEmail(out *ByteBuffer, data []byte, i int) int {
	if e.renderer.Autolink == nil || e.insideLinkBody {
		return 0
	}
	link, rewind, consumed := scanEmail(data[:i], data[i:])
	if consumed == 0 {
		return 0
	}
	before := out.Bytes()
	out.Truncate(len(before) - rewind)
	e.renderer.Autolink(out, link, AutolinkEmail)
	return consumed
}

func (e *Engine) inlineAutolinkURL(out *ByteBuffer, data []byte, i int) int {
	if e.renderer.Autolink == nil || e.insideLinkBody {
		return 0
	}
	link, rewind, consumed := scanURL(data[:i], data[i:])
	if consumed == 0 {
		return 0
	}
	before := out.Bytes()
	out.Truncate(len(before) - rewind)
	e.renderer.Autolink(out, link, AutolinkNormal)
	return consumed
}

// --- links and images ([, or ! immediately before [) ------------------------

func (e *Engine) inlineLink(out *ByteBuffer, data []byte, i int) int {
	isImg := i > 0 && data[i-1] == '!'
	sub := data[i:]

	if (isImg && e.renderer.Image == nil) || (!isImg && e.renderer.Link == nil) {
		return 0
	}

	// Find the matching closing bracket.
	level := 1
	j := 1
	textHasNL := false
	for ; j < len(sub); j++ {
		if sub[j] == '\n' {
			textHasNL = true
		} else if sub[j-1] == '\\' {
			continue
		} else if sub[j] == '[' {
			level++
		} else if sub[j] == ']' {
			level--
			if level <= 0 {
				break
			}
		}
	}
	if j >= len(sub) {
		return 0
	}
	txtE := j
	j++

	for j < len(sub) && isSpace(sub[j]) {
		j++
	}

	var link, title []byte
	var linkB, linkE, titleB, titleE int

	switch {
	case j < len(sub) && sub[j] == '(':
		j++
		for j < len(sub) && isSpace(sub[j]) {
			j++
		}
		linkB = j
		for j < len(sub) {
			if sub[j] == '\\' {
				j += 2
			} else if sub[j] == ')' {
				break
			} else if j >= 1 && isSpace(sub[j-1]) && (sub[j] == '\'' || sub[j] == '"') {
				break
			} else {
				j++
			}
		}
		if j >= len(sub) {
			return 0
		}
		linkE = j

		if j < len(sub) && (sub[j] == '\'' || sub[j] == '"') {
			qtype := sub[j]
			inTitle := true
			j++
			titleB = j
			for j < len(sub) {
				if sub[j] == '\\' {
					j += 2
				} else if sub[j] == qtype {
					inTitle = false
					j++
				} else if sub[j] == ')' && !inTitle {
					break
				} else {
					j++
				}
			}
			if j >= len(sub) {
				return 0
			}
			titleE = j - 1
			for titleE > titleB && isSpace(sub[titleE]) {
				titleE--
			}
			if sub[titleE] != '\'' && sub[titleE] != '"' {
				titleB, titleE = 0, 0
				linkE = j
			}
		}

		for linkE > linkB && isSpace(sub[linkE-1]) {
			linkE--
		}
		if linkB < len(sub) && sub[linkB] == '<' {
			linkB++
		}
		if linkE > linkB && sub[linkE-1] == '>' {
			linkE--
		}

		if linkE > linkB {
			link = append([]byte(nil), sub[linkB:linkE]...)
		}
		if titleE > titleB {
			title = append([]byte(nil), sub[titleB:titleE]...)
		}
		j++

	case j < len(sub) && sub[j] == '[':
		j++
		linkB = j
		for j < len(sub) && sub[j] != ']' {
			j++
		}
		if j >= len(sub) {
			return 0
		}
		linkE = j

		id := refLabel(sub, linkB, linkE, txtE, textHasNL)
		ref := e.refs.find(id)
		if ref == nil {
			return 0
		}
		link, title = ref.link, ref.title
		j++

	default:
		id := refLabel(sub, 0, 0, txtE, textHasNL)
		ref := e.refs.find(id)
		if ref == nil {
			return 0
		}
		link, title = ref.link, ref.title
		j = txtE + 1
	}

	var content []byte
	if txtE > 1 {
		if isImg {
			content = append([]byte(nil), sub[1:txtE]...)
		} else {
			work := e.newBuf(bufSpan)
			prevInLink := e.insideLinkBody
			e.insideLinkBody = true
			e.parseInline(work, sub[1:txtE])
			e.insideLinkBody = prevInLink
			content = append([]byte(nil), work.Bytes()...)
			e.popBuf(bufSpan)
		}
	}

	var uLink []byte
	if link != nil {
		uLink = unscapeText(link)
	}

	var ok bool
	if isImg {
		b := out.Bytes()
		if len(b) > 0 && b[len(b)-1] == '!' {
			out.Truncate(len(b) - 1)
		}
		ok = e.renderer.Image(out, uLink, title, content) != 0
	} else {
		ok = e.renderer.Link(out, uLink, title, content) != 0
	}

	if !ok {
		return 0
	}
	return j
}

// refLabel computes a reference id: either the explicit "[id]" span
// (linkB..linkE, when non-empty) or the link text itself with embedded
// newlines collapsed to single spaces, per spec §4.5.
func refLabel(sub []byte, linkB, linkE, txtE int, textHasNL bool) []byte {
	if linkE > linkB {
		return sub[linkB:linkE]
	}
	if !textHasNL {
		return sub[1:txtE]
	}
	b := newByteBuffer(txtE)
	for j := 1; j < txtE; j++ {
		if sub[j] != '\n' {
			b.WriteByte(sub[j])
		} else if sub[j-1] != ' ' {
			b.WriteByte(' ')
		}
	}
	return b.Bytes()
}

// --- superscript (^) ---------------------------------------------------------

func (e *Engine) inlineSuperscript(out *ByteBuffer, data []byte, i int) int {
	sub := data[i:]
	if e.renderer.Superscript == nil || len(sub) < 2 {
		return 0
	}

	var supStart, supLen int
	if sub[1] == '(' {
		supStart, supLen = 2, 2
		for supLen < len(sub) && sub[supLen] != ')' && sub[supLen-1] != '\\' {
			supLen++
		}
		if supLen == len(sub) {
			return 0
		}
	} else {
		supStart, supLen = 1, 1
		for supLen < len(sub) && !isSpace(sub[supLen]) {
			supLen++
		}
	}

	if supLen-supStart == 0 {
		if supStart == 2 {
			return 3
		}
		return 0
	}

	work := e.newBuf(bufSpan)
	e.parseInline(work, sub[supStart:supLen])
	e.renderer.Superscript(out, work.Bytes())
	e.popBuf(bufSpan)

	if supStart == 2 {
		return supLen + 1
	}
	return supLen
}
