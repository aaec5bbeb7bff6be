package markdown

// ByteBuffer is a growable byte sequence used as scratch space and output
// accumulator throughout the parser. It mirrors the C sd_buf contract: a
// logical size, an allocated capacity, and a minimum growth unit.
//
// Unlike bytes.Buffer it enforces a hard ceiling on any single grow
// request: a request that would exceed it fails silently and the
// triggering append becomes a no-op, per the OOM policy in spec §7.
type ByteBuffer struct {
	data []byte
	unit int
}

// bufferMaxAllocSize is the 16 MiB grow ceiling from spec §4.1.
const bufferMaxAllocSize = 1024 * 1024 * 16

// newByteBuffer allocates a buffer with the given initial capacity and
// growth unit.
func newByteBuffer(initialCap int) *ByteBuffer {
	b := &ByteBuffer{unit: initialCap}
	if initialCap > 0 {
		b.data = make([]byte, 0, initialCap)
	}
	return b
}

// Len returns the logical size of the buffer.
func (b *ByteBuffer) Len() int { return len(b.data) }

// Bytes returns the buffer's contents. The slice is valid until the next
// mutating call.
func (b *ByteBuffer) Bytes() []byte { return b.data }

// Grow ensures the buffer can hold at least n additional bytes without
// reallocating, honoring the grow-unit and the 16 MiB ceiling. It reports
// whether the request could be satisfied.
func (b *ByteBuffer) Grow(n int) bool {
	need := len(b.data) + n
	if cap(b.data) >= need {
		return true
	}
	if need > bufferMaxAllocSize {
		return false
	}
	newCap := cap(b.data)
	if newCap == 0 {
		newCap = b.unit
		if newCap == 0 {
			newCap = 64
		}
	}
	for newCap < need {
		newCap += newCap/2 + 1
	}
	if newCap > bufferMaxAllocSize {
		newCap = bufferMaxAllocSize
	}
	grown := make([]byte, len(b.data), newCap)
	copy(grown, b.data)
	b.data = grown
	return true
}

// Write appends raw bytes, silently truncating if the ceiling is hit.
func (b *ByteBuffer) Write(p []byte) {
	if len(p) == 0 {
		return
	}
	if !b.Grow(len(p)) {
		return
	}
	b.data = append(b.data, p...)
}

// WriteString appends a string's bytes.
func (b *ByteBuffer) WriteString(s string) {
	if len(s) == 0 {
		return
	}
	if !b.Grow(len(s)) {
		return
	}
	b.data = append(b.data, s...)
}

// WriteByte appends a single byte.
func (b *ByteBuffer) WriteByte(c byte) {
	if !b.Grow(1) {
		return
	}
	b.data = append(b.data, c)
}

// PrefixMatches reports whether the buffer begins with prefix.
func (b *ByteBuffer) PrefixMatches(prefix string) bool {
	if len(b.data) < len(prefix) {
		return false
	}
	return string(b.data[:len(prefix)]) == prefix
}

// Truncate shrinks the logical size to n, discarding the tail. It never
// reallocates.
func (b *ByteBuffer) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n > len(b.data) {
		return
	}
	b.data = b.data[:n]
}

// Slurp removes the first n bytes from the head of the buffer, shifting
// the remainder down.
func (b *ByteBuffer) Slurp(n int) {
	if n >= len(b.data) {
		b.data = b.data[:0]
		return
	}
	copy(b.data, b.data[n:])
	b.data = b.data[:len(b.data)-n]
}

// Reset empties the buffer without releasing its backing array.
func (b *ByteBuffer) Reset() {
	b.data = b.data[:0]
}
