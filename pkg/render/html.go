package render

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday"
)

const extensions = blackfriday.EXTENSION_FENCED_CODE |
	blackfriday.EXTENSION_STRIKETHROUGH |
	blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
	blackfriday.EXTENSION_SPACE_HEADERS |
	blackfriday.EXTENSION_AUTOLINK

var (
	paragraphTags = regexp.MustCompile(`</?p>`)
	headingOpen   = regexp.MustCompile(`<h[1-6][^>]*>`)
	headingClose  = regexp.MustCompile(`</h[1-6]>`)
	listTags      = regexp.MustCompile(`</?(ul|ol)>\n?`)
	itemOpen      = regexp.MustCompile(`<li>`)
	itemClose     = regexp.MustCompile(`</li>`)
	breakTags     = regexp.MustCompile(`<br\s*/?>`)
	ruleTags      = regexp.MustCompile(`<hr\s*/?>`)
	strongTags    = regexp.MustCompile(`<(/?)strong>`)
	emTags        = regexp.MustCompile(`<(/?)em>`)
	delTags       = regexp.MustCompile(`<(/?)del>`)
	blankLines    = regexp.MustCompile(`\n{3,}`)
)

// ToHTML converts a markdown answer into the HTML subset Telegram accepts.
func ToHTML(markdown string) string {
	renderer := blackfriday.HtmlRenderer(blackfriday.HTML_SKIP_HTML, "", "")
	out := string(blackfriday.Markdown([]byte(markdown), renderer, extensions))

	out = paragraphTags.ReplaceAllString(out, "")
	out = headingOpen.ReplaceAllString(out, "<b>")
	out = headingClose.ReplaceAllString(out, "</b>")
	out = listTags.ReplaceAllString(out, "")
	out = itemOpen.ReplaceAllString(out, "• ")
	out = itemClose.ReplaceAllString(out, "")
	out = breakTags.ReplaceAllString(out, "\n")
	out = ruleTags.ReplaceAllString(out, "")
	out = strongTags.ReplaceAllString(out, "<${1}b>")
	out = emTags.ReplaceAllString(out, "<${1}i>")
	out = delTags.ReplaceAllString(out, "<${1}s>")
	out = blankLines.ReplaceAllString(out, "\n\n")

	return strings.TrimSpace(out)
}
