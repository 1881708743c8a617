// Package wikitext renders marker tooltip text into safe popup HTML.
//
// Tooltips support a restricted inline syntax: literal newlines and wiki
// links of the form [[Page]] or [[Page|label]]. Everything else is treated
// as plain text and HTML-escaped.
package wikitext

import (
	"html"
	"regexp"
	"strings"
)

var linkPattern = regexp.MustCompile(`\[\[(.+?)\]\]`)

// RenderTooltip escapes tooltip text and expands the inline syntax.
// HTML metacharacters are escaped first, then wiki links become anchors
// under /wiki/, then literal newlines become <br/>.
func RenderTooltip(input string) string {
	escaped := html.EscapeString(input)

	escaped = linkPattern.ReplaceAllStringFunc(escaped, func(match string) string {
		inner := match[2 : len(match)-2]
		page, label, found := strings.Cut(inner, "|")
		if !found {
			label = page
		}
		return renderLink(page, label)
	})

	return strings.ReplaceAll(escaped, "\n", "<br/>")
}

// renderLink builds an anchor for a wiki page. The page name passed through
// html.EscapeString already, so it is safe to place in the attribute.
func renderLink(page, label string) string {
	return `<a href="/wiki/` + page + `">` + label + `</a>`
}
