package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmartyPantsDashes(t *testing.T) {
	out := SmartyPants([]byte("em---dash and en-dash--ish"))
	assert.Contains(t, string(out), "&mdash;")
}

func TestSmartyPantsEllipsis(t *testing.T) {
	out := SmartyPants([]byte("wait for it..."))
	assert.Contains(t, string(out), "&hellip;")
}

func TestSmartyPantsQuotes(t *testing.T) {
	out := SmartyPants([]byte(`she said "hello" to "the world"`))
	assert.Contains(t, string(out), "&ldquo;hello&rdquo;")
}

func TestSmartyPantsCopyrightParens(t *testing.T) {
	out := SmartyPants([]byte("Acme(c) and Acme(tm)"))
	assert.Contains(t, string(out), "&copy;")
	assert.Contains(t, string(out), "&trade;")
}

func TestSmartyPantsContraction(t *testing.T) {
	out := SmartyPants([]byte("it's fine"))
	assert.Contains(t, string(out), "&rsquo;")
}
