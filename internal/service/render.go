// internal/service/render.go
package service

import (
	"fmt"
	"html"
	"strings"
)

// BuildEmailHTML renders the email body: the message text HTML-escaped,
// followed by one inline image per attachment reference.
func BuildEmailHTML(message string, attachments []string) string {
	var b strings.Builder
	b.WriteString("<p>")
	b.WriteString(html.EscapeString(message))
	b.WriteString("</p>")

	for _, src := range attachments {
		if strings.TrimSpace(src) == "" {
			continue
		}
		fmt.Fprintf(&b, `<img src=%q alt="" />`, src)
	}

	return b.String()
}
