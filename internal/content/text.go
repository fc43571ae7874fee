package content

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Reading speed assumptions: CJK ideographs are read character by character,
// space-delimited languages word by word.
const (
	cjkCharsPerMinute = 400
	wordsPerMinute    = 200
)

// PlainText strips all markup and returns the text content with runs of
// whitespace collapsed to single spaces. Script and style bodies are dropped.
func PlainText(raw string) string {
	z := html.NewTokenizer(strings.NewReader(raw))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			name, _ := z.TagName()
			if isNonContentTag(string(name)) {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if isNonContentTag(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func isNonContentTag(name string) bool {
	switch name {
	case "script", "style", "noscript", "iframe":
		return true
	}
	return false
}

// ReadingTime estimates whole minutes to read the given HTML. CJK ideographs
// are counted separately from space-delimited word tokens since mixed-language
// content is common. The result is never below one minute.
func ReadingTime(sanitized string) int {
	text := PlainText(sanitized)

	cjk := 0
	var rest strings.Builder
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			cjk++
		} else {
			rest.WriteRune(r)
		}
	}
	words := len(strings.Fields(rest.String()))

	minutes := int(math.Ceil(float64(cjk)/cjkCharsPerMinute + float64(words)/wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// CoverImage returns the src of the first image in the given HTML, or ""
// when the content has no image.
func CoverImage(sanitized string) string {
	z := html.NewTokenizer(strings.NewReader(sanitized))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "img" {
				continue
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "src" {
					return string(val)
				}
			}
		}
	}
}
