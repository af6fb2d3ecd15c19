package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.App}} - Q&amp;A</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            border-bottom: 2px solid #007582;
            padding-bottom: 10px;
            margin-bottom: 30px;
        }
        .header h1 {
            color: #007582;
            margin: 0;
            font-size: 24px;
        }
        .question {
            background-color: #f8f9fa;
            padding: 15px;
            border-left: 4px solid #007582;
            margin-bottom: 20px;
        }
        .question h2 {
            margin-top: 0;
            color: #007582;
            font-size: 18px;
        }
        .answer {
            margin-bottom: 30px;
        }
        .answer h2 {
            color: #007582;
            font-size: 18px;
            margin-bottom: 15px;
        }
        .footer {
            border-top: 1px solid #ddd;
            padding-top: 15px;
            margin-top: 30px;
            font-size: 12px;
            color: #666;
            text-align: center;
        }
        @media print {
            body { margin: 0; }
            .no-print { display: none; }
        }
    </style>
</head>
<body onload="window.focus(); window.print();">
    <div class="header">
        <h1>{{.App}}</h1>
        <p>Expert Q&amp;A Session</p>
    </div>

    <div class="question">
        <h2>Question:</h2>
        <p>{{.Question}}</p>
    </div>

    <div class="answer">
        <h2>Answer:</h2>
        <div>{{.Answer}}</div>
    </div>

    <div class="footer">
        <p>Generated on {{.Date}} at {{.Time}}</p>
        <p>{{.App}}</p>
    </div>
</body>
</html>
`))

// withBreaks escapes s and turns newlines into <br> tags.
func withBreaks(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>")) //nolint:gosec // input is escaped above
}

// PrintHTML renders a standalone printable document that opens the print
// dialog once loaded. It returns ErrEmpty when either the question or the
// answer is empty.
func PrintHTML(question, answer string, t time.Time) (string, error) {
	if empty(question, answer) {
		return "", ErrEmpty
	}
	question, answer = normalizeNewlines(question), normalizeNewlines(answer)

	var buf bytes.Buffer
	err := printTemplate.Execute(&buf, struct {
		App      string
		Question template.HTML
		Answer   template.HTML
		Date     string
		Time     string
	}{
		App:      appName,
		Question: withBreaks(question),
		Answer:   withBreaks(answer),
		Date:     t.Format(DateLayout),
		Time:     t.Format(TimeLayout),
	})
	if err != nil {
		return "", fmt.Errorf("render print view: %w", err)
	}
	return buf.String(), nil
}
