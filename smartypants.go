package markdown

import "bytes"

// SmartyPants is an HTML post-processor, grounded on original_source's
// sdhtml_smartypants: it rewrites straight quotes, dashes, ellipses, and
// a handful of other typographic conventions into their named-entity
// forms. It operates on already-rendered HTML, never on Markdown source,
// and is meant to run over the bytes NewHTMLRenderer produces.
func SmartyPants(text []byte) []byte {
	out := newByteBuffer(len(text))
	var inSquote, inDquote bool

	i := 0
	for i < len(text) {
		org := i
		for i < len(text) && !isSmartyTrigger(text[i]) {
			i++
		}
		if i > org {
			out.Write(text[org:i])
		}
		if i >= len(text) {
			break
		}

		var prev byte
		if i > 0 {
			prev = text[i-1]
		}
		rest := text[i:]

		switch text[i] {
		case '\'':
			i += smartySquote(out, prev, rest, &inSquote, &inDquote)
		case '"':
			i += smartyDquote(out, prev, rest, &inDquote)
		case '&':
			i += smartyAmp(out, prev, rest, &inDquote)
		case '.':
			i += smartyPeriod(out, rest)
		case '-':
			i += smartyDash(out, rest)
		case '(':
			i += smartyParens(out, rest)
		case '1', '3':
			i += smartyNumber(out, prev, rest)
		case '`':
			i += smartyBacktick(out, prev, rest, &inDquote)
		case '\\':
			i += smartyEscape(out, rest)
		case '<':
			j := i
			for j < len(text) && text[j] != '>' {
				j++
			}
			if j == len(text) {
				j--
			}
			out.Write(text[i : j+1])
			i = j
		}
		i++
	}

	return out.Bytes()
}

func isSmartyTrigger(c byte) bool {
	switch c {
	case '-', '(', '\'', '"', '&', '.', '1', '3', '<', '`', '\\':
		return true
	}
	return false
}

func wordBoundary(c byte) bool {
	return c == 0 || isSpace(c) || isPunct(c)
}

// smartyQuote writes an opening or closing curly-quote entity (keyed by
// quoteKind, 'd' or 's') if word-boundary rules allow a transition,
// flipping *isOpen and reporting success.
func smartyQuote(out *ByteBuffer, previous, next byte, quoteKind byte, isOpen *bool) bool {
	if *isOpen && !wordBoundary(next) {
		return false
	}
	if !*isOpen && !wordBoundary(previous) {
		return false
	}
	side := byte('l')
	if *isOpen {
		side = 'r'
	}
	out.WriteByte('&')
	out.WriteByte(side)
	out.WriteByte(quoteKind)
	out.WriteString("quo;")
	*isOpen = !*isOpen
	return true
}

func smartySquote(out *ByteBuffer, previous byte, text []byte, inSquote, inDquote *bool) int {
	if len(text) >= 2 {
		t1 := toLower(text[1])
		if t1 == '\'' {
			var next byte
			if len(text) >= 3 {
				next = text[2]
			}
			if smartyQuote(out, previous, next, 'd', inDquote) {
				return 1
			}
		}
		if (t1 == 's' || t1 == 't' || t1 == 'm' || t1 == 'd') &&
			(len(text) == 3 || wordBoundary(text[2])) {
			out.WriteString("&rsquo;")
			return 0
		}
		if len(text) >= 3 {
			t2 := toLower(text[2])
			if ((t1 == 'r' && t2 == 'e') || (t1 == 'l' && t2 == 'l') || (t1 == 'v' && t2 == 'e')) &&
				(len(text) == 4 || wordBoundary(text[3])) {
				out.WriteString("&rsquo;")
				return 0
			}
		}
	}

	var next byte
	if len(text) > 1 {
		next = text[1]
	}
	if smartyQuote(out, previous, next, 's', inSquote) {
		return 0
	}
	out.WriteByte(text[0])
	return 0
}

func smartyDquote(out *ByteBuffer, previous byte, text []byte, inDquote *bool) int {
	var next byte
	if len(text) > 1 {
		next = text[1]
	}
	if !smartyQuote(out, previous, next, 'd', inDquote) {
		out.WriteString("&quot;")
	}
	return 0
}

func smartyParens(out *ByteBuffer, text []byte) int {
	if len(text) >= 3 {
		t1, t2 := toLower(text[1]), toLower(text[2])
		if t1 == 'c' && t2 == ')' {
			out.WriteString("&copy;")
			return 2
		}
		if t1 == 'r' && t2 == ')' {
			out.WriteString("&reg;")
			return 2
		}
		if len(text) >= 4 && t1 == 't' && t2 == 'm' && text[3] == ')' {
			out.WriteString("&trade;")
			return 3
		}
	}
	out.WriteByte(text[0])
	return 0
}

func smartyDash(out *ByteBuffer, text []byte) int {
	if len(text) >= 3 && text[1] == '-' && text[2] == '-' {
		out.WriteString("&mdash;")
		return 2
	}
	if len(text) >= 2 && text[1] == '-' {
		out.WriteString("&ndash;")
		return 1
	}
	out.WriteByte(text[0])
	return 0
}

func smartyAmp(out *ByteBuffer, previous byte, text []byte, inDquote *bool) int {
	if len(text) >= 6 && bytes.Equal(text[:6], []byte("&quot;")) {
		var next byte
		if len(text) >= 7 {
			next = text[6]
		}
		if smartyQuote(out, previous, next, 'd', inDquote) {
			return 5
		}
	}
	if len(text) >= 4 && bytes.Equal(text[:4], []byte("&#0;")) {
		return 3
	}
	out.WriteByte('&')
	return 0
}

func smartyPeriod(out *ByteBuffer, text []byte) int {
	if len(text) >= 3 && text[1] == '.' && text[2] == '.' {
		out.WriteString("&hellip;")
		return 2
	}
	if len(text) >= 5 && text[1] == ' ' && text[2] == '.' && text[3] == ' ' && text[4] == '.' {
		out.WriteString("&hellip;")
		return 4
	}
	out.WriteByte(text[0])
	return 0
}

func smartyNumber(out *ByteBuffer, previous byte, text []byte) int {
	if wordBoundary(previous) && len(text) >= 3 {
		if text[0] == '1' && text[1] == '/' && text[2] == '2' {
			if len(text) == 3 || wordBoundary(text[3]) {
				out.WriteString("&frac12;")
				return 2
			}
		}
		if text[0] == '1' && text[1] == '/' && text[2] == '4' {
			if len(text) == 3 || wordBoundary(text[3]) ||
				(len(text) >= 5 && toLower(text[3]) == 't' && toLower(text[4]) == 'h') {
				out.WriteString("&frac14;")
				return 2
			}
		}
		if text[0] == '3' && text[1] == '/' && text[2] == '4' {
			if len(text) == 3 || wordBoundary(text[3]) ||
				(len(text) >= 6 && toLower(text[3]) == 't' && toLower(text[4]) == 'h' && toLower(text[5]) == 's') {
				out.WriteString("&frac34;")
				return 2
			}
		}
	}
	out.WriteByte(text[0])
	return 0
}

func smartyBacktick(out *ByteBuffer, previous byte, text []byte, inDquote *bool) int {
	if len(text) >= 2 && text[1] == '`' {
		var next byte
		if len(text) >= 3 {
			next = text[2]
		}
		if smartyQuote(out, previous, next, 'd', inDquote) {
			return 1
		}
	}
	return 0
}

func smartyEscape(out *ByteBuffer, text []byte) int {
	if len(text) < 2 {
		return 0
	}
	out.WriteByte(text[1])
	return 1
}
