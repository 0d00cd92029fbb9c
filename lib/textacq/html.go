package textacq

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
)

// Text inside these elements never reaches the extracted output.
var disallowedNodes = map[string]struct{}{
	"head":     {},
	"link":     {},
	"meta":     {},
	"script":   {},
	"source":   {},
	"style":    {},
	"input":    {},
	"textarea": {},
	"audio":    {},
	"video":    {},
}

// Closing one of these elements emits a line break, so tables and lists in
// trade documents keep their row structure in the plain text.
var linebreakNodes = map[string]struct{}{
	"ol": {}, "ul": {}, "li": {},
	"table": {}, "tbody": {}, "tr": {}, "th": {}, "td": {},
	"br": {}, "p": {}, "div": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
}

// htmlToText walks the token stream, keeping text outside disallowed
// elements and inserting newlines at block boundaries.
func htmlToText(r io.Reader) (string, error) {
	tokenizer := html.NewTokenizer(r)
	var stack []string
	buf := bytes.NewBuffer(nil)

	top := func() string {
		if len(stack) == 0 {
			return ""
		}
		return stack[len(stack)-1]
	}

Loop:
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			break Loop
		case html.TextToken:
			if _, disallowed := disallowedNodes[top()]; !disallowed {
				buf.Write(tokenizer.Text())
			}
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			stack = append(stack, string(tn))
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			if _, breakLine := linebreakNodes[string(tn)]; breakLine {
				buf.WriteByte('\n')
			}
			if len(stack) > 0 && top() == string(tn) {
				stack = stack[:len(stack)-1]
			}
		case html.SelfClosingTagToken:
			tn, _ := tokenizer.TagName()
			if _, breakLine := linebreakNodes[string(tn)]; breakLine {
				buf.WriteByte('\n')
			}
		}
	}
	if err := tokenizer.Err(); err != io.EOF {
		return "", err
	}

	return buf.String(), nil
}
