// Package prompt is an interactive line editor that previews every style as
// the user types a line.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/dyne/fancyfont/internal/log"
	"github.com/dyne/fancyfont/internal/preview"
	"github.com/dyne/fancyfont/internal/style"
)

var errQuit = errors.New("quit")

// Session holds what the user pinned between lines.
type Session struct {
	Out    io.Writer
	Styles []string
	Width  int

	pinned string
}

func NewSession(out io.Writer, styles []string, width int) *Session {
	return &Session{Out: out, Styles: styles, Width: width}
}

// Pinned returns the style id shown alone, or "" when every style is shown.
func (s *Session) Pinned() string {
	return s.pinned
}

// Handle processes one input line. It returns errQuit when the user asked to
// leave; other errors come from the writer.
func (s *Session) Handle(line string) error {
	if !strings.HasPrefix(line, ":") {
		return s.show(line)
	}
	cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "q", "quit":
		return errQuit
	case "list":
		return preview.Styles(s.Out)
	case "all":
		s.pinned = ""
		return nil
	case "style":
		if err := style.Check(arg); err != nil {
			_, werr := fmt.Fprintf(s.Out, "error: %v\n", err)
			return werr
		}
		s.pinned = arg
		return nil
	case "plain":
		_, err := fmt.Fprintln(s.Out, style.Plain(arg))
		return err
	default:
		_, err := fmt.Fprintf(s.Out, "error: unknown command %q (try :list, :style <id>, :all, :plain <text>, :q)\n", cmd)
		return err
	}
}

func (s *Session) show(text string) error {
	if s.pinned != "" {
		_, err := fmt.Fprintln(s.Out, style.Transform(text, s.pinned))
		return err
	}
	return preview.Table(s.Out, text, s.Styles, s.Width)
}

// Run reads lines until :q, Ctrl-C or EOF.
func Run(sess *Session, logger *log.Logger) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	for {
		input, err := line.Prompt("✎ ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		if logger != nil {
			logger.Debugf("prompt input %q", input)
		}
		if err := sess.Handle(input); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
}

var commands = []string{":all", ":list", ":plain ", ":q", ":quit", ":style "}

// complete offers command names, then style ids after ":style ".
func complete(line string) []string {
	var out []string
	if prefix, ok := strings.CutPrefix(line, ":style "); ok {
		for _, id := range style.Resolvable() {
			if strings.HasPrefix(id, prefix) {
				out = append(out, ":style "+id)
			}
		}
		return out
	}
	if !strings.HasPrefix(line, ":") || strings.Contains(line, " ") {
		return nil
	}
	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}
