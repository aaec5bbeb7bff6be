package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanWWWBasic(t *testing.T) {
	link, rewind, consumed := scanWWW(nil, []byte("www.example.com is nice"))
	assert.Equal(t, "www.example.com", string(link))
	assert.Equal(t, 0, rewind)
	assert.Equal(t, len("www.example.com"), consumed)
}

func TestScanWWWRequiresWordBoundaryBefore(t *testing.T) {
	_, _, consumed := scanWWW([]byte("xwww"), []byte("www.example.com"))
	assert.Equal(t, 0, consumed)
}

func TestScanEmailBasic(t *testing.T) {
	before := []byte("contact ")
	link, rewind, consumed := scanEmail(before, []byte("@user.example.com."))
	assert.Equal(t, 0, consumed, "no local-part before the @ means no match")
	_ = link
	_ = rewind
}

func TestScanEmailWithLocalPart(t *testing.T) {
	before := []byte("mail me at user")
	link, rewind, consumed := scanEmail(before, []byte("@example.com for details"))
	assert.Greater(t, consumed, 0)
	assert.Equal(t, len("user"), rewind)
	assert.Equal(t, "user@example.com", string(link))
}

func TestScanURLBasic(t *testing.T) {
	before := []byte("see https")
	link, rewind, consumed := scanURL(before, []byte("://example.com/page more text"))
	assert.Greater(t, consumed, 0)
	assert.Equal(t, len("https"), rewind)
	assert.Equal(t, "https://example.com/page", string(link))
}

func TestAutolinkDelimTrimsTrailingPunctuation(t *testing.T) {
	data := []byte("example.com.")
	end := autolinkDelim(data, len(data))
	assert.Equal(t, len("example.com"), end)
}

func TestAutolinkDelimBalancesParens(t *testing.T) {
	data := []byte("example.com/(wiki)")
	end := autolinkDelim(data, len(data))
	assert.Equal(t, len(data), end, "balanced parens are kept in the link")
}

func TestAutolinkDelimUnbalancedTrailingParen(t *testing.T) {
	data := []byte("example.com/wiki)")
	end := autolinkDelim(data, len(data))
	assert.Equal(t, len("example.com/wiki"), end)
}

func TestCheckDomainRequiresDot(t *testing.T) {
	assert.Equal(t, 0, checkDomain([]byte("localhost"), false))
	assert.Greater(t, checkDomain([]byte("example.com"), false), 0)
}

func TestAutolinkIssafeSchemes(t *testing.T) {
	assert.True(t, autolinkIssafe([]byte("http://example.com")))
	assert.True(t, autolinkIssafe([]byte("HTTPS://example.com")))
	assert.False(t, autolinkIssafe([]byte("javascript:alert(1)")))
}

func TestIsMailAutolinkMatchesAngleBracketEmail(t *testing.T) {
	n := isMailAutolink([]byte("@example.com>"))
	assert.Equal(t, len("@example.com>"), n)
}

func TestIsMailAutolinkRejectsSecondAt(t *testing.T) {
	n := isMailAutolink([]byte("@ex@ample.com>"))
	assert.Equal(t, 0, n)
}

func TestIsMailAutolinkRejectsUnterminated(t *testing.T) {
	n := isMailAutolink([]byte("@example.com"))
	assert.Equal(t, 0, n)
}
