package tools

import (
	"bytes"
	"context"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atomicstack/commit-browser/internal/logging"
)

// HighlightFunc colours text written in language. It never fails: on any
// problem it returns text unchanged.
type HighlightFunc func(ctx context.Context, text, language string) string

const chromaStyle = "github-dark"

// Highlight returns the syntax highlighter binding.
func (a *Adapter) Highlight() HighlightFunc {
	return a.highlight.get(func() HighlightFunc {
		if a.opts.NoHighlight {
			return plainHighlight
		}
		if path, ok := a.Find(Highlighters...); ok {
			return batHighlight(path)
		}
		return chromaHighlight
	})
}

func plainHighlight(_ context.Context, text, _ string) string {
	return text
}

func batHighlight(path string) HighlightFunc {
	return func(ctx context.Context, text, language string) string {
		args := []string{"--color=always", "--style=plain", "--paging=never"}
		if language != "" {
			args = append(args, "--language="+language)
		}
		cmd := execCommand(ctx, path, args...)
		cmd.Stdin = strings.NewReader(text)
		out, err := cmd.Output()
		if err != nil {
			logging.Error(err)
			return chromaHighlight(ctx, text, language)
		}
		return string(out)
	}
}

func chromaHighlight(_ context.Context, text, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		return text
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(chromaStyle)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return text
	}
	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return text
	}
	return buf.String()
}
