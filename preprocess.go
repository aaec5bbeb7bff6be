package markdown

// tabSize is the fixed tab-stop width, measured in columns from the start
// of each input line, per spec §3. The teacher/original expose this as a
// configurable extension bit; SPEC_FULL.md pins it to 4 for this port.
const tabSize = 4

// preprocess is the first pass over the raw document: it strips a leading
// UTF-8 BOM, walks the input line by line extracting reference
// definitions into e.refs, expands tabs, and normalizes all line endings
// to "\n" — producing the text buffer the block parser consumes.
//
// Reference definitions are recognized only at this top level, never
// while re-entering preprocess for block-quote or list content (which
// never happens — nested blocks are parsed directly from the normalized
// buffer by parseBlock, not re-preprocessed).
func (e *Engine) preprocess(input []byte) []byte {
	if len(input) >= 3 && input[0] == 0xEF && input[1] == 0xBB && input[2] == 0xBF {
		input = input[3:]
		e.warnf("markdown: stripped UTF-8 byte order mark")
	}

	out := newByteBuffer(64)
	out.Grow(len(input))

	beg := 0
	for beg < len(input) {
		if end := e.scanReference(input[beg:]); end > 0 {
			beg += end
			continue
		}

		end := beg
		for end < len(input) && input[end] != '\n' && input[end] != '\r' {
			end++
		}

		if end > beg {
			expandTabs(out, input[beg:end])
		}
		out.WriteByte('\n')

		if end < len(input) && input[end] == '\r' {
			end++
		}
		if end < len(input) && input[end] == '\n' {
			end++
		}
		beg = end
	}

	return out.Bytes()
}

// expandTabs replaces tabs with spaces so that each tab advances to the
// next multiple of tabSize columns, matching original_source's
// expand_tabs. Each UTF-8 rune counts as one column; the runs between
// tabs are copied through as bytes.
func expandTabs(out *ByteBuffer, line []byte) {
	column := 0
	i := 0
	for i < len(line) {
		start := i
		for i < len(line) && line[i] != '\t' {
			i += decodeRuneWidth(line[i:])
			column++
		}
		if i > start {
			out.Write(line[start:i])
		}
		if i >= len(line) {
			break
		}
		for {
			out.WriteByte(' ')
			column++
			if column%tabSize == 0 {
				break
			}
		}
		i++
	}
}

// scanReference checks whether data begins with a reference definition
// of the form "[label]: url \"title\"" (spec §4.3). On a match it records
// the reference in e.refs and returns the number of bytes to skip;
// otherwise it returns 0 and the caller copies the line verbatim.
func (e *Engine) scanReference(data []byte) int {
	n := len(data)
	if n < 4 {
		return 0
	}

	i := 0
	for i < 3 && data[i] == ' ' {
		i++
	}

	if data[i] != '[' {
		return 0
	}
	i++
	idOffset := i
	for i < n && data[i] != '\n' && data[i] != '\r' && data[i] != ']' {
		i++
	}
	if i >= n || data[i] != ']' {
		return 0
	}
	idEnd := i

	i++
	if i >= n || data[i] != ':' {
		return 0
	}
	i++
	for i < n && data[i] == ' ' {
		i++
	}
	if i < n && (data[i] == '\n' || data[i] == '\r') {
		i++
		if i < n && data[i] == '\r' && data[i-1] == '\n' {
			i++
		}
	}
	for i < n && data[i] == ' ' {
		i++
	}
	if i >= n {
		return 0
	}

	if data[i] == '<' {
		i++
	}
	linkOffset := i
	for i < n && data[i] != ' ' && data[i] != '\n' && data[i] != '\r' {
		i++
	}
	var linkEnd int
	if i > linkOffset && data[i-1] == '>' {
		linkEnd = i - 1
	} else {
		linkEnd = i
	}

	for i < n && data[i] == ' ' {
		i++
	}
	if i < n && data[i] != '\n' && data[i] != '\r' && data[i] != '\'' && data[i] != '"' && data[i] != '(' {
		return 0
	}

	lineEnd := 0
	if i >= n || data[i] == '\r' || data[i] == '\n' {
		lineEnd = i
	}
	if i+1 < n && data[i] == '\n' && data[i+1] == '\r' {
		lineEnd = i + 1
	}

	if lineEnd > 0 {
		i = lineEnd + 1
		for i < n && data[i] == ' ' {
			i++
		}
	}

	titleOffset, titleEnd := 0, 0
	if i+1 < n && (data[i] == '\'' || data[i] == '"' || data[i] == '(') {
		i++
		titleOffset = i
		for i < n && data[i] != '\n' && data[i] != '\r' {
			i++
		}
		if i+1 < n && data[i] == '\n' && data[i+1] == '\r' {
			titleEnd = i + 1
		} else {
			titleEnd = i
		}
		i--
		for i > titleOffset && data[i] == ' ' {
			i--
		}
		if i > titleOffset && (data[i] == '\'' || data[i] == '"' || data[i] == ')') {
			lineEnd = titleEnd
			titleEnd = i
		}
	}

	if lineEnd == 0 || linkEnd == linkOffset {
		return 0
	}

	label := make([]byte, idEnd-idOffset)
	copy(label, data[idOffset:idEnd])

	link := make([]byte, linkEnd-linkOffset)
	copy(link, data[linkOffset:linkEnd])

	var title []byte
	if titleEnd > titleOffset {
		title = make([]byte, titleEnd-titleOffset)
		copy(title, data[titleOffset:titleEnd])
	}

	e.refs.add(label, link, title)
	return lineEnd
}
