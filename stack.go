package markdown

// bufScope selects which of the two work-buffer pools a scratch buffer is
// drawn from, matching spec §4.2/§3 ("Work buffer pool").
type bufScope int

const (
	bufBlock bufScope = iota
	bufSpan
)

// bufPoolInitialCap is the starting capacity handed to a freshly
// allocated scratch buffer for each scope, per spec §3.
var bufPoolInitialCap = [2]int{256, 64}

// bufStack is a LIFO of *ByteBuffer handles. Buffers popped past their
// logical size remain allocated for recycling; pushing beyond the
// recycled tail allocates a new buffer and appends it.
//
// This is the Go shape of the C "struct stack" in original_source,
// specialized to *ByteBuffer since that is its only use in this engine.
type bufStack struct {
	items []*ByteBuffer
	size  int
}

// newBuf checks out a scratch buffer for the given scope: either the next
// already-allocated-but-unused slot, or a freshly allocated one pushed
// onto the stack.
func (s *bufStack) newBuf(scope bufScope) *ByteBuffer {
	if s.size < len(s.items) {
		buf := s.items[s.size]
		buf.Reset()
		s.size++
		return buf
	}
	buf := newByteBuffer(bufPoolInitialCap[scope])
	s.items = append(s.items, buf)
	s.size++
	return buf
}

// popBuf returns the most recently checked-out buffer to the pool without
// freeing it.
func (s *bufStack) popBuf() {
	s.size--
}

// depth reports the number of buffers currently checked out, used by the
// nesting-budget check in block.go/inline.go.
func (s *bufStack) depth() int { return s.size }

// drain discards every pooled buffer, used when recycling an Engine
// between renders and at teardown.
func (s *bufStack) drain() {
	s.items = nil
	s.size = 0
}
