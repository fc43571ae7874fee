package content

import "github.com/microcosm-cc/bluemonday"

// policy is the allow-list for user-submitted rich text. Anything outside it
// is stripped, not escaped: unknown tags are unwrapped around their inner
// content, script-like elements are removed together with their content.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()

	// Structural and text formatting tags.
	p.AllowElements(
		"p", "br", "hr",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"em", "strong", "i", "b", "u", "s", "del", "mark", "sub", "sup",
		"ul", "ol", "li",
		"blockquote", "pre", "code",
		"div", "span",
		"figure", "figcaption",
		"table", "thead", "tbody", "tr", "th", "td",
	)

	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")

	return p
}

// Sanitize reduces raw HTML to the allow-listed subset. It is deterministic
// and idempotent: sanitizing already-sanitized content is a no-op.
func Sanitize(raw string) string {
	return policy.Sanitize(raw)
}
