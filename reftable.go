package markdown

// refTableSize is the fixed bucket count for the reference table, matching
// original_source's REF_TABLE_SIZE. Spec §3 calls this "a fixed-size
// bucket array of size 8."
const refTableSize = 8

// reference is a single parsed link reference definition: (id, url, title).
type reference struct {
	hash  uint32
	link  []byte
	title []byte
	next  *reference
}

// refTable is a small open-chained hash of link references, keyed by a
// lowercase rolling hash of the reference label. Per spec §3/§9, lookups
// on a hash match return the first bucket entry with that hash WITHOUT
// re-comparing the label bytes — a hash collision is a silent alias, kept
// bug-for-bug compatible with the original.
type refTable struct {
	buckets [refTableSize]*reference
}

// hashRefLabel is the lowercase rolling hash from original_source's
// hash_link_ref: hash = tolower(b) + (hash<<6) + (hash<<16) - hash.
func hashRefLabel(label []byte) uint32 {
	var hash uint32
	for _, c := range label {
		hash = uint32(toLower(c)) + (hash << 6) + (hash << 16) - hash
	}
	return hash
}

// add inserts a new reference, chaining on hash collision.
func (t *refTable) add(label, link, title []byte) {
	h := hashRefLabel(label)
	ref := &reference{hash: h, link: link, title: title}
	bucket := h % refTableSize
	ref.next = t.buckets[bucket]
	t.buckets[bucket] = ref
}

// find looks up a reference by label, matching case-insensitively via the
// hash. Returns nil if no bucket entry shares the hash.
func (t *refTable) find(label []byte) *reference {
	h := hashRefLabel(label)
	ref := t.buckets[h%refTableSize]
	for ref != nil {
		if ref.hash == h {
			return ref
		}
		ref = ref.next
	}
	return nil
}

// reset clears every bucket, used between renders on a reused Engine.
func (t *refTable) reset() {
	for i := range t.buckets {
		t.buckets[i] = nil
	}
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
