package helper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/atomicstack/commit-browser/internal/config"
)

// Mode selects what a helper invocation does.
type Mode int

const (
	// ModeNone is the top-level interactive session.
	ModeNone Mode = iota
	ModePreview
	ModeMenu
	ModeMenuItem
	ModeMenuPreview
	ModeDiff
	ModeCopy
)

var (
	// ErrUnknownMode is returned for a helper flag outside the mode table.
	ErrUnknownMode = errors.New("unknown helper mode")
	// ErrInvariant reports an entry point used in a way the protocol forbids.
	ErrInvariant = errors.New("helper invariant violated")
)

var modeNames = map[Mode]string{
	ModePreview:     "preview",
	ModeMenu:        "menu",
	ModeMenuItem:    "menu-item",
	ModeMenuPreview: "menu-preview",
	ModeDiff:        "diff",
	ModeCopy:        "copy",
}

func (m Mode) String() string {
	if m == ModeNone {
		return "none"
	}
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps the helper flag to a Mode. An empty flag is the top-level
// session.
func ParseMode(flag string) (Mode, error) {
	flag = strings.TrimSpace(flag)
	if flag == "" {
		return ModeNone, nil
	}
	for mode, name := range modeNames {
		if name == flag {
			return mode, nil
		}
	}
	return ModeNone, fmt.Errorf("%w: %q", ErrUnknownMode, flag)
}

// FullScreen reports modes allowed to take over the terminal. Every other
// mode draws into a preview pane or nowhere at all.
func (m Mode) FullScreen() bool {
	return m == ModeMenu || m == ModeMenuItem || m == ModeDiff
}

// Command is the shell command a picker runs to re-enter this program in
// mode. The selected line arrives on stdin.
func Command(exe string, mode Mode, args ...string) string {
	parts := []string{config.EnvHelper + "=" + mode.String(), shellescape.Quote(exe)}
	for _, a := range args {
		parts = append(parts, shellescape.Quote(a))
	}
	return strings.Join(parts, " ")
}
