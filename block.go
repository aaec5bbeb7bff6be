package markdown

import "bytes"

// This file is the block-level half of the engine: parseBlock walks the
// normalized document line by line, recognizing each construct in the
// fixed priority order from original_source's parse_block, and recursing
// into itself for container blocks (blockquote, list items). Leaf text
// is handed to parseInline for span-level processing.

// parseBlock is the block dispatcher. It consumes data from the front,
// trying each recognizer in order and falling through to paragraph
// parsing when nothing else matches.
func (e *Engine) parseBlock(out *ByteBuffer, data []byte) {
	if e.nestingExceeded() {
		return
	}

	for len(data) > 0 {
		switch {
		case e.isATXHeader(data):
			data = data[e.parseATXHeader(out, data):]

		case data[0] == '<':
			if n := e.parseHTMLBlock(out, data); n > 0 {
				data = data[n:]
			} else {
				data = data[e.parseParagraph(out, data):]
			}

		case isEmpty(data) > 0:
			data = data[isEmpty(data):]

		case isHrule(data):
			if e.renderer.HRule != nil {
				e.renderer.HRule(out)
			}
			end := lineEnd(data)
			adv := end + 1
			if adv > len(data) {
				adv = len(data)
			}
			data = data[adv:]

		case e.extensions&FencedCode != 0 && prefixCodefence(data) > 0:
			if n := e.parseFencedCode(out, data); n > 0 {
				data = data[n:]
			} else {
				data = data[e.parseParagraph(out, data):]
			}

		case e.extensions&Tables != 0 && looksLikeTable(data):
			if n := e.parseTable(out, data); n > 0 {
				data = data[n:]
			} else {
				data = data[e.parseParagraph(out, data):]
			}

		case prefixQuote(data) > 0:
			data = data[e.parseBlockquote(out, data):]

		case prefixCode(data) > 0:
			data = data[e.parseBlockCode(out, data):]

		case prefixUli(data) > 0:
			data = data[e.parseList(out, data, 0):]

		case prefixOli(data) > 0:
			data = data[e.parseList(out, data, ListItemOrdered):]

		default:
			data = data[e.parseParagraph(out, data):]
		}
	}
}

// --- line predicates, ported from original_source's is_empty/is_hrule/etc --

// isEmpty returns the number of bytes (including the newline) composing a
// blank first line, or 0 if the line has content.
func isEmpty(data []byte) int {
	i := 0
	for i < len(data) && data[i] != '\n' {
		if data[i] != ' ' && data[i] != '\t' {
			return 0
		}
		i++
	}
	return i + 1
}

// isHrule reports whether the first line is a horizontal rule: three or
// more matching '*', '-', or '_' bytes, optionally space-separated, with
// up to three leading spaces.
func isHrule(data []byte) bool {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	if i >= len(data) {
		return false
	}
	c := data[i]
	if c != '*' && c != '-' && c != '_' {
		return false
	}
	n := 0
	for i < len(data) && data[i] != '\n' {
		switch {
		case data[i] == c:
			n++
		case data[i] == ' ':
		default:
			return false
		}
		i++
	}
	return n >= 3
}

// prefixCodefence returns the fence length (>=3) if the line opens a
// fenced code block, or 0.
func prefixCodefence(data []byte) int {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	if i >= len(data) {
		return 0
	}
	c := data[i]
	if c != '`' && c != '~' {
		return 0
	}
	n := 0
	for i < len(data) && data[i] == c {
		i++
		n++
	}
	if n < 3 {
		return 0
	}
	return n
}

func prefixQuote(data []byte) int {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	if i < len(data) && data[i] == '>' {
		i++
		if i < len(data) && data[i] == ' ' {
			i++
		}
		return i
	}
	return 0
}

func prefixCode(data []byte) int {
	if len(data) >= 4 && data[0] == ' ' && data[1] == ' ' && data[2] == ' ' && data[3] == ' ' {
		return 4
	}
	return 0
}

func prefixOli(data []byte) int {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	if i >= len(data) || !isDigit(data[i]) {
		return 0
	}
	for i < len(data) && isDigit(data[i]) {
		i++
	}
	if i+1 >= len(data) || data[i] != '.' || data[i+1] != ' ' {
		return 0
	}
	i += 2
	for i < len(data) && data[i] == ' ' {
		i++
	}
	return i
}

func prefixUli(data []byte) int {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	if i+1 >= len(data) {
		return 0
	}
	if (data[i] != '*' && data[i] != '+' && data[i] != '-') || data[i+1] != ' ' {
		return 0
	}
	if isHrule(data) {
		return 0
	}
	i += 2
	for i < len(data) && data[i] == ' ' {
		i++
	}
	return i
}

// isATXHeader reports whether the line opens with a '#'. When the
// SpaceHeaders extension is active, the byte after the run of 1-6 '#'
// bytes must be a space (a newline there rejects the line; only the end
// of data is also accepted), matching original_source's is_atxheader.
func (e *Engine) isATXHeader(data []byte) bool {
	if len(data) == 0 || data[0] != '#' {
		return false
	}
	if e.extensions&SpaceHeaders == 0 {
		return true
	}

	level := 0
	for level < len(data) && level < 6 && data[level] == '#' {
		level++
	}
	if level < len(data) && data[level] != ' ' {
		return false
	}
	return true
}

func lineEnd(data []byte) int {
	end := 0
	for end < len(data) && data[end] != '\n' {
		end++
	}
	return end
}

// --- ATX headers -------------------------------------------------------

func (e *Engine) parseATXHeader(out *ByteBuffer, data []byte) int {
	end := lineEnd(data)
	level := 0
	for level < len(data) && level < 6 && data[level] == '#' {
		level++
	}
	i := level
	for i < end && data[i] == ' ' {
		i++
	}

	textEnd := end
	for textEnd > i && (data[textEnd-1] == '#' || data[textEnd-1] == ' ') {
		textEnd--
	}

	if e.renderer.Header != nil {
		work := e.newBuf(bufSpan)
		if textEnd > i {
			e.parseInline(work, data[i:textEnd])
		}
		e.renderer.Header(out, work.Bytes(), level)
		e.popBuf(bufSpan)
	}

	if end < len(data) {
		return end + 1
	}
	return end
}

// --- horizontal rule is handled inline in parseBlock --------------------

// --- fenced code ---------------------------------------------------------

// parseFencedCode consumes a ```lang\n...\n``` block, returning the
// number of bytes consumed, or 0 if the fence is never closed.
func (e *Engine) parseFencedCode(out *ByteBuffer, data []byte) int {
	fenceLen := prefixCodefence(data)
	if fenceLen == 0 {
		return 0
	}
	fenceChar := data[indexOfFenceChar(data)]
	firstEnd := lineEnd(data)
	lang := bytes.TrimSpace(data[indexOfFenceChar(data)+fenceLen : firstEnd])

	i := firstEnd + 1
	if i > len(data) {
		i = len(data)
	}
	contentStart := i

	for i < len(data) {
		lineS := i
		lEnd := lineS + lineEnd(data[lineS:])
		if n := prefixCodefence(data[lineS:]); n >= fenceLen && data[lineS+indexOfFenceChar(data[lineS:])] == fenceChar {
			closeEnd := lEnd
			if closeEnd < len(data) {
				closeEnd++
			}
			if e.renderer.BlockCode != nil {
				content := data[contentStart:lineS]
				e.renderer.BlockCode(out, content, string(lang))
			}
			return closeEnd
		}
		i = lEnd + 1
	}
	return 0
}

// indexOfFenceChar finds the offset of the first fence byte on the line
// (skipping the up-to-3 leading spaces prefixCodefence already counted).
func indexOfFenceChar(data []byte) int {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	return i
}

// --- indented code blocks --------------------------------------------------

func (e *Engine) parseBlockCode(out *ByteBuffer, data []byte) int {
	work := e.newBuf(bufBlock)
	total := 0

	for len(data) > 0 {
		if n := prefixCode(data); n > 0 {
			end := lineEnd(data)
			work.Write(data[n:end])
			work.WriteByte('\n')
			adv := end + 1
			if adv > len(data) {
				adv = len(data)
			}
			data = data[adv:]
			total += adv
			continue
		}
		if isEmpty(data) > 0 {
			end := isEmpty(data)
			work.WriteByte('\n')
			data = data[end:]
			total += end
			continue
		}
		break
	}

	b := work.Bytes()
	for len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	b = append(b, '\n')

	if e.renderer.BlockCode != nil {
		e.renderer.BlockCode(out, b, "")
	}
	e.popBuf(bufBlock)
	return total
}

// --- block quotes -----------------------------------------------------------

func (e *Engine) parseBlockquote(out *ByteBuffer, data []byte) int {
	work := e.newBuf(bufBlock)
	total := 0

	for len(data) > 0 {
		end := lineEnd(data)
		adv := end + 1
		if adv > len(data) {
			adv = len(data)
		}
		line := data[:end]

		if n := prefixQuote(line); n > 0 {
			work.Write(line[n:])
			work.WriteByte('\n')
		} else if isEmpty(line) > 0 {
			next := data[adv:]
			if len(next) > 0 && prefixQuote(next) == 0 && isEmpty(next) == 0 {
				data = data[adv:]
				total += adv
				break
			}
			work.WriteByte('\n')
		} else {
			work.Write(line)
			work.WriteByte('\n')
		}

		data = data[adv:]
		total += adv
	}

	if e.renderer.BlockQuote != nil {
		inner := e.newBuf(bufBlock)
		e.parseBlock(inner, work.Bytes())
		e.renderer.BlockQuote(out, inner.Bytes())
		e.popBuf(bufBlock)
	}
	e.popBuf(bufBlock)
	return total
}

// --- paragraphs and setext headers ------------------------------------------

// parseParagraph consumes lines until a blank line, a setext underline
// ("===" or "---", which it absorbs and reports as the paragraph's
// level), or a line opening an ATX header, horizontal rule or blockquote;
// under LaxSpacing, also a later line not starting with a letter that
// opens a list, an HTML block or (with FencedCode) a code fence. Ported from
// original_source's parse_paragraph, which re-examines the line about to
// be appended (not a lookahead) at the top of each iteration.
func (e *Engine) parseParagraph(out *ByteBuffer, data []byte) int {
	i, end := 0, 0
	level := 0

	for i < len(data) {
		lnEnd := i + lineEnd(data[i:])
		end = lnEnd + 1
		if end > len(data) {
			end = len(data)
		}

		line := data[i:lnEnd]
		if isEmpty(line) > 0 {
			end = i
			break
		}
		if lvl := setextLevel(line); lvl != 0 {
			level = lvl
			break
		}
		if e.isATXHeader(line) || isHrule(line) || prefixQuote(line) > 0 {
			end = i
			break
		}
		if e.extensions&LaxSpacing != 0 && i > 0 && !isAlpha(line[0]) {
			if prefixUli(line) > 0 || prefixOli(line) > 0 ||
				(line[0] == '<' && e.parseHTMLBlock(newByteBuffer(0), data[i:]) > 0) ||
				(e.extensions&FencedCode != 0 && prefixCodefence(line) > 0) {
				end = i
				break
			}
		}

		i = end
	}

	text := data[:i]
	for len(text) > 0 && text[len(text)-1] == '\n' {
		text = text[:len(text)-1]
	}

	if level == 0 {
		if e.renderer.Paragraph != nil && len(text) > 0 {
			work := e.newBuf(bufSpan)
			e.parseInline(work, text)
			e.renderer.Paragraph(out, work.Bytes())
			e.popBuf(bufSpan)
		}
		if end >= len(data) {
			return len(data)
		}
		return end
	}

	// The loop broke on the underline line itself. Only the line directly
	// above the underline becomes the header; any earlier lines in this
	// run are their own paragraph, per original_source.
	headerText := text
	var paraText []byte
	if last := bytes.LastIndexByte(text, '\n'); last >= 0 {
		paraText = text[:last]
		headerText = text[last+1:]
	}

	if len(paraText) > 0 && e.renderer.Paragraph != nil {
		work := e.newBuf(bufSpan)
		e.parseInline(work, paraText)
		e.renderer.Paragraph(out, work.Bytes())
		e.popBuf(bufSpan)
	}
	if e.renderer.Header != nil {
		work := e.newBuf(bufSpan)
		e.parseInline(work, headerText)
		e.renderer.Header(out, work.Bytes(), level)
		e.popBuf(bufSpan)
	}
	if end >= len(data) {
		return len(data)
	}
	return end
}

// setextLevel reports 1 or 2 if the line is entirely '=' (level 1) or '-'
// (level 2) bytes, else 0.
func setextLevel(data []byte) int {
	end := lineEnd(data)
	if end == 0 {
		return 0
	}
	var c byte
	for i := 0; i < end; i++ {
		if data[i] != '=' && data[i] != '-' {
			return 0
		}
		if c == 0 {
			c = data[i]
		} else if data[i] != c {
			return 0
		}
	}
	if c == '=' {
		return 1
	}
	return 2
}

// --- lists, per spec §4.4.2 --------------------------------------------------

// parseList consumes a run of list items sharing the same bullet/ordered
// style, calling parseListItem for each and wrapping them in a single
// List callback.
func (e *Engine) parseList(out *ByteBuffer, data []byte, flags int) int {
	work := e.newBuf(bufBlock)
	total := 0
	itemFlags := flags

	for len(data) > 0 {
		itemEnd, consumedFlags := e.parseListItem(work, data, flags)
		if itemEnd == 0 {
			break
		}
		itemFlags |= consumedFlags & ListItemContainsBlock
		data = data[itemEnd:]
		total += itemEnd

		if consumedFlags&listItemEndOfList != 0 {
			break
		}
		if len(data) == 0 {
			break
		}
		if prefixUli(data) == 0 && prefixOli(data) == 0 {
			break
		}
	}

	if e.renderer.List != nil {
		e.renderer.List(out, work.Bytes(), itemFlags&^listItemEndOfList)
	}
	e.popBuf(bufBlock)
	return total
}

// parseListItem implements the list-item state machine from spec §4.4.2:
// it tracks the item's own indent (orgpre), whether blank lines have been
// seen (an indented line after one makes this item ContainsBlock, and its
// content is then block-parsed), and whether it's inside a fenced code
// span (so list markers inside don't split the item). A more-indented
// line is appended to this item's content; sublists are not split out, so
// in an item without blank lines a nested list marker is inline-parsed
// with the rest of the item rather than rendered as a list.
func (e *Engine) parseListItem(out *ByteBuffer, data []byte, flags int) (int, int) {
	orgpre := 0
	for orgpre < 3 && orgpre < len(data) && data[orgpre] == ' ' {
		orgpre++
	}

	var markerLen int
	if flags&ListItemOrdered != 0 {
		markerLen = prefixOli(data)
	} else {
		markerLen = prefixUli(data)
	}
	if markerLen == 0 {
		return 0, listItemEndOfList
	}

	work := e.newBuf(bufBlock)
	inFence := false
	hasInsideEmpty := false
	containsBlock := false

	total := markerLen
	firstEnd := lineEnd(data)
	work.Write(data[markerLen:firstEnd])
	work.WriteByte('\n')
	if n := prefixCodefence(data[markerLen:firstEnd]); n > 0 {
		inFence = !inFence
	}

	pos := firstEnd + 1
	if pos > len(data) {
		pos = len(data)
	}

	for pos < len(data) {
		line := data[pos:]
		lEnd := lineEnd(line)
		adv := pos + lEnd + 1
		if adv > len(data) {
			adv = len(data)
		}

		if isEmpty(line) > 0 {
			hasInsideEmpty = true
			work.WriteByte('\n')
			pos = adv
			continue
		}

		indent := 0
		for indent < len(line) && indent < lEnd && line[indent] == ' ' {
			indent++
		}

		if !inFence && hasInsideEmpty && indent < orgpre+markerLen {
			// Blank line(s) followed by a less-indented line: the item ends.
			break
		}

		if !inFence && indent >= orgpre+markerLen {
			if hasInsideEmpty {
				containsBlock = true
			}
			cut := orgpre + markerLen
			if cut > lEnd {
				cut = lEnd
			}
			work.Write(line[cut:lEnd])
			work.WriteByte('\n')
			if n := prefixCodefence(line[cut:lEnd]); n > 0 {
				inFence = !inFence
			}
			pos = adv
			continue
		}

		if !inFence && (prefixUli(line) > 0 || prefixOli(line) > 0) && indent < orgpre+markerLen {
			break
		}

		if !inFence {
			if n := prefixCodefence(line[:lEnd]); n > 0 {
				inFence = true
			}
		} else if n := prefixCodefence(line[:lEnd]); n > 0 {
			inFence = false
		}

		work.Write(line[:lEnd])
		work.WriteByte('\n')
		pos = adv
	}

	total = pos

	content := work.Bytes()
	for len(content) > 0 && content[len(content)-1] == '\n' {
		if containsBlock {
			break
		}
		content = content[:len(content)-1]
		break
	}

	itemFlags := flags
	if containsBlock {
		itemFlags |= ListItemContainsBlock
	}

	if e.renderer.ListItem != nil {
		inner := e.newBuf(bufSpan)
		if containsBlock {
			blk := e.newBuf(bufBlock)
			e.parseBlock(blk, content)
			e.renderer.ListItem(out, blk.Bytes(), itemFlags)
			e.popBuf(bufBlock)
		} else {
			e.parseInline(inner, content)
			e.renderer.ListItem(out, inner.Bytes(), itemFlags)
		}
		e.popBuf(bufSpan)
	}

	e.popBuf(bufBlock)

	if total >= len(data) {
		return len(data), itemFlags
	}
	return total, itemFlags
}

// --- tables, per spec §4.4.1 --------------------------------------------------

// looksLikeTable peeks at the first two lines to decide whether a table
// recognizer attempt is worthwhile: the second line must be a delimiter
// row of '-', ':', '|' and spaces.
func looksLikeTable(data []byte) bool {
	firstEnd := lineEnd(data)
	if firstEnd+1 >= len(data) {
		return false
	}
	rest := data[firstEnd+1:]
	secondEnd := lineEnd(rest)
	return isTableDelimiterRow(rest[:secondEnd])
}

func isTableDelimiterRow(line []byte) bool {
	seenDash := false
	for _, c := range line {
		switch c {
		case '-':
			seenDash = true
		case ':', '|', ' ', '\t':
		default:
			return false
		}
	}
	return seenDash
}

// parseTable recognizes a GFM-style pipe table: a header row, a delimiter
// row declaring column count and alignment, and zero or more body rows.
func (e *Engine) parseTable(out *ByteBuffer, data []byte) int {
	firstEnd := lineEnd(data)
	secondStart := firstEnd + 1
	if secondStart > len(data) {
		return 0
	}
	secondEnd := secondStart + lineEnd(data[secondStart:])
	if !isTableDelimiterRow(data[secondStart:secondEnd]) {
		return 0
	}

	aligns := parseTableAlignments(data[secondStart:secondEnd])
	if len(aligns) == 0 {
		return 0
	}

	header := e.newBuf(bufBlock)
	e.parseTableRow(header, data[:firstEnd], aligns, TableHeader)

	body := e.newBuf(bufBlock)
	pos := secondEnd + 1
	if pos > len(data) {
		pos = len(data)
	}
	for pos < len(data) {
		line := data[pos:]
		lEnd := lineEnd(line)
		if isEmpty(line) > 0 || !bytes.ContainsRune(line[:lEnd], '|') {
			break
		}
		e.parseTableRow(body, line[:lEnd], aligns, 0)
		adv := pos + lEnd + 1
		if adv > len(data) {
			adv = len(data)
		}
		pos = adv
	}

	if e.renderer.Table != nil {
		e.renderer.Table(out, header.Bytes(), body.Bytes())
	}
	e.popBuf(bufBlock)
	e.popBuf(bufBlock)
	return pos
}

// parseTableAlignments reads the delimiter row into a per-column
// TableAlign* flag slice.
func parseTableAlignments(line []byte) []int {
	var aligns []int
	for _, cell := range splitTableRow(line) {
		cell = bytes.TrimSpace(cell)
		if len(cell) == 0 {
			continue
		}
		left := len(cell) > 0 && cell[0] == ':'
		right := len(cell) > 0 && cell[len(cell)-1] == ':'
		switch {
		case left && right:
			aligns = append(aligns, TableAlignCenter)
		case left:
			aligns = append(aligns, TableAlignLeft)
		case right:
			aligns = append(aligns, TableAlignRight)
		default:
			aligns = append(aligns, 0)
		}
	}
	return aligns
}

// splitTableRow splits a row on unescaped '|' bytes, trimming one leading
// and trailing empty cell produced by optional outer pipes.
func splitTableRow(line []byte) [][]byte {
	var cells [][]byte
	start := 0
	for i := 0; i < len(line); i++ {
		if line[i] == '\\' {
			i++
			continue
		}
		if line[i] == '|' {
			cells = append(cells, line[start:i])
			start = i + 1
		}
	}
	cells = append(cells, line[start:])

	if len(cells) > 0 && len(bytes.TrimSpace(cells[0])) == 0 {
		cells = cells[1:]
	}
	if len(cells) > 0 && len(bytes.TrimSpace(cells[len(cells)-1])) == 0 {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// parseTableRow renders one row's cells, calling TableCell for each and
// wrapping them in a TableRow callback.
func (e *Engine) parseTableRow(out *ByteBuffer, line []byte, aligns []int, rowFlags int) {
	row := e.newBuf(bufBlock)
	cells := splitTableRow(line)
	for i, cell := range cells {
		cell = bytes.TrimSpace(cell)
		flags := rowFlags
		if i < len(aligns) {
			flags |= aligns[i]
		}
		if e.renderer.TableCell != nil {
			work := e.newBuf(bufSpan)
			e.parseInline(work, cell)
			e.renderer.TableCell(row, work.Bytes(), flags)
			e.popBuf(bufSpan)
		}
	}
	// Missing trailing cells are emitted empty, matching the column
	// count declared by the delimiter row.
	for i := len(cells); i < len(aligns); i++ {
		if e.renderer.TableCell != nil {
			e.renderer.TableCell(row, nil, rowFlags|aligns[i])
		}
	}
	if e.renderer.TableRow != nil {
		e.renderer.TableRow(out, row.Bytes())
	}
	e.popBuf(bufBlock)
}

// --- raw HTML blocks, per spec §4.4 ------------------------------------------

// htmlBlockTags is the set of tag names that open a block-level HTML
// construct recognized by parseHTMLBlock — the 24-name list from
// original_source, restoring "figure" and "style" that the teacher's own
// map had dropped.
var htmlBlockTags = map[string]bool{
	"p": true, "table": true, "dl": true, "ol": true, "ul": true,
	"del": true, "div": true, "ins": true, "pre": true, "form": true,
	"math": true, "iframe": true, "script": true, "fieldset": true,
	"noscript": true, "blockquote": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true,
	"figure": true, "style": true,
}

// parseHTMLBlock recognizes a raw HTML block: an opening tag from
// htmlBlockTags, an HTML comment, or a self-closing <hr> — consumed
// through to its matching close (or, for comment/hr, through to the
// blank line that follows it on the same line). Returns the number of
// bytes consumed, or 0 if data does not open such a block.
func (e *Engine) parseHTMLBlock(out *ByteBuffer, data []byte) int {
	if len(data) < 2 || data[0] != '<' {
		return 0
	}

	// HTML comment, laxist form.
	if len(data) > 5 && data[1] == '!' && data[2] == '-' && data[3] == '-' {
		i := 5
		for i < len(data) && !(data[i-2] == '-' && data[i-1] == '-' && data[i] == '>') {
			i++
		}
		i++
		if i < len(data) {
			if j := isEmpty(data[i:]); j > 0 {
				end := i + j
				return e.renderHTMLBlock(out, data, end)
			}
		}
		return 0
	}

	// <hr>, the only self-closing block tag recognized.
	if len(data) > 4 && (data[1] == 'h' || data[1] == 'H') && (data[2] == 'r' || data[2] == 'R') {
		i := 3
		for i < len(data) && data[i] != '>' {
			i++
		}
		if i+1 < len(data) {
			i++
			if j := isEmpty(data[i:]); j > 0 {
				end := i + j
				return e.renderHTMLBlock(out, data, end)
			}
		}
		return 0
	}

	i := 1
	for i < len(data) && data[i] != '>' && data[i] != ' ' {
		i++
	}
	name := string(bytes.ToLower(data[1:i]))
	if !htmlBlockTags[name] {
		return 0
	}

	// Looking for an unindented matching closing tag followed by a
	// blank line; if not found, try again allowing indentation, unless
	// the tag is "ins" or "del" (original Markdown.pl never does).
	end := htmlBlockEnd(data, name, true)
	if end == 0 && name != "ins" && name != "del" {
		end = htmlBlockEnd(data, name, false)
	}
	if end == 0 {
		return 0
	}
	return e.renderHTMLBlock(out, data, end)
}

// renderHTMLBlock emits data[:end] through BlockHTML and returns end,
// the number of bytes consumed (already including the trailing blank
// line matched by the caller).
func (e *Engine) renderHTMLBlock(out *ByteBuffer, data []byte, end int) int {
	if e.renderer.BlockHTML != nil {
		e.renderer.BlockHTML(out, data[:end])
	}
	return end
}

// htmlBlockEndTag checks whether data, which must begin with "</", opens
// a closing tag matching name followed only by whitespace up to and
// including a blank line. Returns the total length consumed on match
// (the closing tag plus the following blank line), or 0.
func htmlBlockEndTag(data []byte, name string) int {
	tagLen := len(name)
	if tagLen+3 >= len(data) {
		return 0
	}
	if !bytes.EqualFold(data[2:2+tagLen], []byte(name)) || data[tagLen+2] != '>' {
		return 0
	}

	i := tagLen + 3
	w := 0
	if i < len(data) {
		if w = isEmpty(data[i:]); w == 0 {
			return 0
		}
	}
	i += w
	w = 0
	if i < len(data) {
		w = isEmpty(data[i:])
	}
	return i + w
}

// htmlBlockEnd searches data for a closing "</name>" tag followed by a
// blank line, returning the absolute offset just past that blank line,
// or 0 if none is found. When startOfLine is true, a candidate closing
// tag is rejected unless it begins a line (or is still on data's first
// line) — used for the first, unindented-only pass.
func htmlBlockEnd(data []byte, name string, startOfLine bool) int {
	i := 1
	blockLines := 0

	for i < len(data) {
		i++
		for i < len(data) && !(data[i-1] == '<' && data[i] == '/') {
			if data[i] == '\n' {
				blockLines++
			}
			i++
		}

		if startOfLine && blockLines > 0 && data[i-2] != '\n' {
			continue
		}

		if i+2+len(name) >= len(data) {
			break
		}

		if endTag := htmlBlockEndTag(data[i-1:], name); endTag > 0 {
			return i + endTag - 1
		}
	}

	return 0
}
