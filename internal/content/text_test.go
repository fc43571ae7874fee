package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "strips tags", in: "<p>Hello <strong>World</strong></p>", want: "Hello World"},
		{name: "drops script bodies", in: "<p>Hi</p><script>var x = 1;</script>", want: "Hi"},
		{name: "collapses whitespace", in: "<p>a</p>\n\n<p>  b  </p>", want: "a b"},
		{name: "decodes entities", in: "<p>a &amp; b</p>", want: "a & b"},
		{name: "plain input unchanged", in: "no markup here", want: "no markup here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestReadingTime_Floor(t *testing.T) {
	assert.Equal(t, 1, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime("x"))
	assert.Equal(t, 1, ReadingTime("<p>Hi</p>"))
}

func TestReadingTime_Words(t *testing.T) {
	// 200 words per minute: 400 words is exactly 2 minutes, 401 rounds up to 3.
	words := strings.Repeat("word ", 400)
	assert.Equal(t, 2, ReadingTime(words))
	assert.Equal(t, 3, ReadingTime(words+"more"))
}

func TestReadingTime_CJK(t *testing.T) {
	// 400 CJK characters per minute.
	han := strings.Repeat("字", 800)
	assert.Equal(t, 2, ReadingTime(han))
}

func TestReadingTime_Mixed(t *testing.T) {
	// 400 han (1 min) + 200 words (1 min) = 2 minutes exactly.
	mixed := strings.Repeat("字", 400) + " " + strings.Repeat("word ", 200)
	assert.Equal(t, 2, ReadingTime(mixed))
}

func TestCoverImage(t *testing.T) {
	assert.Equal(t, "", CoverImage("<p>no image</p>"))
	assert.Equal(t, "/uploads/medium/a.jpg",
		CoverImage(`<p>text</p><img src="/uploads/medium/a.jpg" alt="a"><img src="/b.jpg">`))
}
