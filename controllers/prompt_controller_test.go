package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePromptCollapsesBlankLines(t *testing.T) {
	in := "first line  \n\n\n\nsecond line\t\n\n\nthird"
	want := "first line\n\nsecond line\n\nthird"
	assert.Equal(t, want, normalizePrompt(in))
}

func TestNormalizePromptKeepsCodeFencesVerbatim(t *testing.T) {
	in := "explain this:\n```go\nfunc f() {\n\n\n\treturn\n}\n```\n\n\nthanks"
	got := normalizePrompt(in)

	// Blank lines inside the fence survive, those outside are collapsed.
	assert.Contains(t, got, "func f() {\n\n\n\treturn\n}")
	assert.Contains(t, got, "```go")
	assert.NotContains(t, got, "thanks\n\n")
	assert.Equal(t, "explain this:\n```go\nfunc f() {\n\n\n\treturn\n}\n```\n\nthanks", got)
}

func TestNormalizePromptTrimsEdges(t *testing.T) {
	assert.Equal(t, "hello", normalizePrompt("\n\n  hello  \n\n"))
}
