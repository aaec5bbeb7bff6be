package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefTableFindCaseInsensitive(t *testing.T) {
	var refs refTable
	refs.add([]byte("Go Lang"), []byte("https://go.dev"), nil)

	ref := refs.find([]byte("go lang"))
	require.NotNil(t, ref)
	assert.Equal(t, "https://go.dev", string(ref.link))
}

func TestRefTableMissingLookup(t *testing.T) {
	var refs refTable
	assert.Nil(t, refs.find([]byte("nowhere")))
}

// TestRefTableHashCollisionAliases documents the intentionally preserved
// original_source behavior: find returns the first bucket entry sharing a
// hash, without re-comparing labels. "anvwyy" and "zxwwaq" are distinct
// labels with equal hash values, so looking up the one that was never
// defined returns the entry stored under the other.
func TestRefTableHashCollisionAliases(t *testing.T) {
	var refs refTable
	label := []byte("anvwyy")
	other := []byte("zxwwaq")
	h := hashRefLabel(label)
	require.Equal(t, h, hashRefLabel(other))

	refs.add(label, []byte("/first"), nil)
	bucket := h % refTableSize
	require.NotNil(t, refs.buckets[bucket])

	found := refs.find(other)
	require.NotNil(t, found)
	assert.Equal(t, "/first", string(found.link))
}

func TestRefTableReset(t *testing.T) {
	var refs refTable
	refs.add([]byte("a"), []byte("/a"), nil)
	refs.reset()
	assert.Nil(t, refs.find([]byte("a")))
}
