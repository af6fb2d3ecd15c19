// Package export formats a question and its answer for download and printing.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	appName = "Spydus Cataloguing Assistant"

	// DateLayout is the day-first date used inside exported documents.
	DateLayout = "02/01/2006"
	// TimeLayout is the clock time printed in the print view footer.
	TimeLayout = "3:04:05 PM"
)

// Filename returns the download name for a Q&A export made at t, e.g.
// spydus-qa-2025-06-01.md. The date is taken in UTC.
func Filename(t time.Time) string {
	return "spydus-qa-" + t.UTC().Format(time.DateOnly) + ".md"
}

// ErrEmpty is returned by PrintHTML when the question or the answer is empty.
var ErrEmpty = errors.New("question or answer is empty")

// normalizeNewlines turns the CRLF line breaks of form submissions into LF.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func empty(question, answer string) bool {
	return strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == ""
}

// Markdown renders the downloadable Q&A file. ok is false, and nothing is
// produced, when either the question or the answer is empty.
func Markdown(question, answer string, t time.Time) (content string, ok bool) {
	if empty(question, answer) {
		return "", false
	}
	question, answer = normalizeNewlines(question), normalizeNewlines(answer)

	return fmt.Sprintf(`# %[1]s - Q&A

## Question:
%[2]s

## Answer:
%[3]s

---
Generated by %[1]s
Date: %[4]s`, appName, question, answer, t.Format(DateLayout)), true
}
