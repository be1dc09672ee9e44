package tools

import (
	"context"
	"strconv"
	"strings"

	"github.com/atomicstack/commit-browser/internal/logging"
	"github.com/atomicstack/commit-browser/internal/theme"
)

// ColorizeFunc colours a plain unified diff for a view width columns wide.
type ColorizeFunc func(ctx context.Context, diff string, width int) string

// ColorizeDiff returns the diff colorizer binding.
func (a *Adapter) ColorizeDiff() ColorizeFunc {
	return a.colorize.get(func() ColorizeFunc {
		if path, ok := a.Find(DiffColorizers...); ok {
			return externalColorizer(path)
		}
		return ColorizeUnified
	})
}

func externalColorizer(path string) ColorizeFunc {
	delta := strings.HasSuffix(path, "delta")
	return func(ctx context.Context, diff string, width int) string {
		var args []string
		if delta {
			args = append(args, "--paging=never")
			if width > 0 {
				args = append(args, "--width="+strconv.Itoa(width))
			}
		}
		cmd := execCommand(ctx, path, args...)
		cmd.Stdin = strings.NewReader(diff)
		out, err := cmd.Output()
		if err != nil {
			logging.Error(err)
			return ColorizeUnified(ctx, diff, width)
		}
		return string(out)
	}
}

// ColorizeUnified styles a unified diff line by line with the theme's diff
// styles.
func ColorizeUnified(_ context.Context, diff string, _ int) string {
	s := theme.Default()
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "diff --git"), strings.HasPrefix(line, "index "),
			strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = theme.Render(s.DiffHeader, line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = theme.Render(s.DiffHunk, line)
		case strings.HasPrefix(line, "+"):
			lines[i] = theme.Render(s.DiffAdd, line)
		case strings.HasPrefix(line, "-"):
			lines[i] = theme.Render(s.DiffDelete, line)
		}
	}
	return strings.Join(lines, "\n")
}
