package extract

import (
	"strings"
	"testing"
)

func TestArticleText(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		maxChars int
		want     string
	}{
		{
			name:     "joins paragraphs",
			html:     `<html><body><p>First paragraph.</p><div><p>Second <b>bold</b> one.</p></div></body></html>`,
			maxChars: DefaultMaxChars,
			want:     "First paragraph. Second bold one.",
		},
		{
			name:     "ignores text outside paragraphs",
			html:     `<html><head><title>Page</title></head><body><h1>Headline</h1><nav>Menu</nav><p>Body text.</p></body></html>`,
			maxChars: DefaultMaxChars,
			want:     "Body text.",
		},
		{
			name:     "collapses whitespace",
			html:     "<p>  Lots \n\n of\t  space  </p>",
			maxChars: DefaultMaxChars,
			want:     "Lots of space",
		},
		{
			name:     "skips scripts inside paragraphs",
			html:     `<p>Visible<script>var hidden = 1;</script> text</p>`,
			maxChars: DefaultMaxChars,
			want:     "Visible text",
		},
		{
			name:     "skips empty paragraphs",
			html:     `<p> </p><p>Only one</p><p></p>`,
			maxChars: DefaultMaxChars,
			want:     "Only one",
		},
		{
			name:     "no paragraphs",
			html:     `<html><body><div>Just a div</div></body></html>`,
			maxChars: DefaultMaxChars,
			want:     "",
		},
		{
			name:     "truncates",
			html:     `<p>abcdefghij</p>`,
			maxChars: 4,
			want:     "abcd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ArticleText(tt.html, tt.maxChars)
			if err != nil {
				t.Fatalf("ArticleText returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestArticleText_DefaultLimit(t *testing.T) {
	long := strings.Repeat("word ", 2000)
	got, err := ArticleText("<p>"+long+"</p>", DefaultMaxChars)
	if err != nil {
		t.Fatalf("ArticleText returned error: %v", err)
	}
	if len([]rune(got)) > DefaultMaxChars {
		t.Errorf("Expected at most %d chars, got %d", DefaultMaxChars, len([]rune(got)))
	}
}

func TestTitle(t *testing.T) {
	if got := Title(`<html><head><title> Breaking  News </title></head></html>`); got != "Breaking News" {
		t.Errorf("Expected title 'Breaking News', got %q", got)
	}
	if got := Title(`<p>no title</p>`); got != "" {
		t.Errorf("Expected empty title, got %q", got)
	}
}
