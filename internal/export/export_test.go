package export_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgesriver/spydus-assistant/internal/export"
)

var fixedTime = time.Date(2025, time.June, 1, 14, 30, 5, 0, time.UTC)

func TestFilename(t *testing.T) {
	name := export.Filename(fixedTime)
	assert.Equal(t, "spydus-qa-2025-06-01.md", name)
	assert.Regexp(t, regexp.MustCompile(`^spydus-qa-\d{4}-\d{2}-\d{2}\.md$`), name)
}

func TestFilename_UsesUTCDate(t *testing.T) {
	sydney := time.FixedZone("AEST", 10*60*60)
	local := time.Date(2025, time.June, 2, 8, 0, 0, 0, sydney)
	assert.Equal(t, "spydus-qa-2025-06-01.md", export.Filename(local))
}

func TestMarkdown(t *testing.T) {
	content, ok := export.Markdown("Q", "A", fixedTime)
	require.True(t, ok)

	assert.Equal(t, `# Spydus Cataloguing Assistant - Q&A

## Question:
Q

## Answer:
A

---
Generated by Spydus Cataloguing Assistant
Date: 01/06/2025`, content)
}

func TestMarkdown_EmptyIsNoop(t *testing.T) {
	for _, tc := range []struct{ q, a string }{{"", "A"}, {"Q", ""}, {"  ", "A"}, {"Q", "\n"}} {
		content, ok := export.Markdown(tc.q, tc.a, fixedTime)
		assert.False(t, ok)
		assert.Empty(t, content)
	}
}

func TestPrintHTML(t *testing.T) {
	doc, err := export.PrintHTML("How do I\nmerge?", "Use <Select/Change>\r\nthen save.", fixedTime)
	require.NoError(t, err)

	assert.Contains(t, doc, "<!DOCTYPE html>")
	assert.Contains(t, doc, "How do I<br>merge?")
	assert.Contains(t, doc, "Use &lt;Select/Change&gt;<br>then save.")
	assert.Contains(t, doc, "Generated on 01/06/2025 at 2:30:05 PM")
	assert.Contains(t, doc, "window.print()")
	assert.Contains(t, doc, "border-left: 4px solid #007582;")
}

func TestPrintHTML_EmptyIsNoop(t *testing.T) {
	doc, err := export.PrintHTML("Q", "   ", fixedTime)
	assert.ErrorIs(t, err, export.ErrEmpty)
	assert.Empty(t, doc)
}

func TestMarkdown_NormalizesFormLineBreaks(t *testing.T) {
	content, ok := export.Markdown("Q", "line one\r\nline two", fixedTime)
	require.True(t, ok)
	assert.Contains(t, content, "line one\nline two")
	assert.NotContains(t, content, "\r")
}
