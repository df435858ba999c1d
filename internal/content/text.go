package content

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultExcerptLength is the longest derived excerpt, in characters.
	DefaultExcerptLength = 160
	// WordsPerMinute is the reading speed behind ReadingTime.
	WordsPerMinute = 200
	// DefaultAuthor is credited on posts that name no author.
	DefaultAuthor = "MotoRider"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// RenderHTML renders a Markdown body (GitHub flavoured) to HTML.
func RenderHTML(body string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// PlainText strips Markdown syntax from body. Block elements end with a newline;
// code blocks are dropped.
func PlainText(body string) string {
	src := []byte(body)
	doc := markdown.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(n.Segment.Value(src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(n.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// ReadingTime estimates reading time for plain text, e.g. "4 min read". Never less than 1.
func ReadingTime(plain string) string {
	words := len(strings.Fields(plain))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// ExtractExcerpt returns plain unchanged when it fits in maxLength characters.
// Otherwise it cuts at the last sentence or line end within maxLength, or hard-cuts
// and appends "..." when there is none. A non-positive maxLength uses DefaultExcerptLength.
func ExtractExcerpt(plain string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}
	r := []rune(plain)
	if len(r) <= maxLength {
		return plain
	}
	head := string(r[:maxLength])

	cutoff := -1
	if i := strings.LastIndex(head, "."); i > 0 {
		cutoff = i + 1
	}
	if i := strings.LastIndex(head, "\n"); i > 0 && i > cutoff {
		cutoff = i
	}
	if cutoff > 0 {
		return strings.TrimSpace(head[:cutoff])
	}
	return strings.TrimSpace(head) + "..."
}

var (
	slugSpace   = regexp.MustCompile(`\s+`)
	slugInvalid = regexp.MustCompile(`[^a-z0-9_-]+`)
	slugDashes  = regexp.MustCompile(`-{2,}`)
)

// Slugify turns s into a lowercase, URL-safe identifier. Accents are folded,
// whitespace becomes '-', and other punctuation is dropped.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	out := strings.ToLower(strings.TrimSpace(folded))
	out = slugSpace.ReplaceAllString(out, "-")
	out = slugInvalid.ReplaceAllString(out, "")
	out = slugDashes.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}
