package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteBufferWriteAndTruncate(t *testing.T) {
	b := newByteBuffer(8)
	b.WriteString("hello")
	b.WriteByte(' ')
	b.Write([]byte("world"))
	assert.Equal(t, "hello world", string(b.Bytes()))

	b.Truncate(5)
	assert.Equal(t, "hello", string(b.Bytes()))
}

func TestByteBufferGrowCeiling(t *testing.T) {
	b := newByteBuffer(0)
	require.True(t, b.Grow(1024))
	assert.False(t, b.Grow(bufferMaxAllocSize+1))
}

func TestByteBufferWriteBeyondCeilingIsNoop(t *testing.T) {
	b := newByteBuffer(0)
	huge := make([]byte, bufferMaxAllocSize+1)
	b.Write(huge)
	assert.Equal(t, 0, b.Len(), "an over-ceiling write must be silently dropped, never panic or error")
}

func TestByteBufferSlurp(t *testing.T) {
	b := newByteBuffer(0)
	b.WriteString("abcdef")
	b.Slurp(2)
	assert.Equal(t, "cdef", string(b.Bytes()))
}

func TestByteBufferPrefixMatches(t *testing.T) {
	b := newByteBuffer(0)
	b.WriteString("<!--comment-->")
	assert.True(t, b.PrefixMatches("<!--"))
	assert.False(t, b.PrefixMatches("<div"))
}

func TestBufStackBalances(t *testing.T) {
	var pool bufStack
	a := pool.newBuf(bufSpan)
	a.WriteString(strings.Repeat("x", 10))
	require.Equal(t, 1, pool.depth())

	pool.popBuf()
	assert.Equal(t, 0, pool.depth())

	// The same backing buffer should be recycled rather than reallocated.
	b := pool.newBuf(bufSpan)
	assert.Equal(t, 0, b.Len())
}
