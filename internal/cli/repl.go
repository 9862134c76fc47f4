package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aretw0/undokit/internal/logging"
	"github.com/aretw0/undokit/internal/presentation/tui"
	"github.com/aretw0/undokit/pkg/session"
	"gopkg.in/yaml.v3"
)

// REPLOptions configures an interactive editing session.
type REPLOptions struct {
	In         io.Reader
	Out        io.Writer
	DocumentID string
	Sessions   *session.Manager
	// Interactive prints the banner and a prompt before each line.
	Interactive bool
	// Render formats the document view; nil prints plain markdown.
	Render tui.Renderer
	Logger *slog.Logger
}

const replHelp = `commands:
  set <field> <value>        write one field (one undo step)
  batch <f>=<v> [<f>=<v>...] write several fields as one undo step
  undo | redo                step through the history
  limit <n>                  change the history capacity
  clear                      forget the history, keep the document
  show                       print the document
  help                       print this help
  quit                       leave
`

// RunREPL reads commands from opts.In until quit, EOF or ctx is cancelled.
func RunREPL(ctx context.Context, opts REPLOptions) error {
	if opts.Render == nil {
		opts.Render = tui.Plain
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.DocumentID == "" {
		opts.DocumentID = "default"
	}

	r := &repl{opts: opts}
	if opts.Interactive {
		tui.PrintBanner(opts.Out)
		printSystemMessage(opts.Out, "Editing '%s'. Type 'help' for commands.", opts.DocumentID)
	}

	scanner := bufio.NewScanner(NewInterruptibleReader(opts.In, ctx.Done()))
	for {
		if opts.Interactive {
			fmt.Fprint(opts.Out, "> ")
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && !isInterrupted(err) {
				return fmt.Errorf("input error: %w", err)
			}
			return nil
		}

		quit, err := r.exec(ctx, scanner.Text())
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			opts.Logger.Debug("command failed", "line", scanner.Text(), "err", err)
			fmt.Fprintf(opts.Out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

type repl struct {
	opts REPLOptions
}

func (r *repl) exec(ctx context.Context, line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprint(r.opts.Out, replHelp)
		return false, nil
	case "set":
		field, raw, ok := strings.Cut(rest, " ")
		if !ok || field == "" {
			return false, fmt.Errorf("usage: set <field> <value>")
		}
		return false, r.with(ctx, func(s *session.Session) error {
			merged, err := s.Set(field, parseValue(raw))
			if err != nil {
				return err
			}
			verb := "set"
			if merged {
				verb = "merged"
			}
			fmt.Fprintf(r.opts.Out, "%s %s\n", verb, field)
			return nil
		})
	case "batch":
		values, err := parseAssignments(rest)
		if err != nil {
			return false, err
		}
		return false, r.with(ctx, func(s *session.Session) error {
			if err := s.SetMany(values); err != nil {
				return err
			}
			fmt.Fprintf(r.opts.Out, "set %d fields\n", len(values))
			return nil
		})
	case "undo":
		return false, r.step(ctx, "undone", "nothing to undo", (*session.Session).Undo)
	case "redo":
		return false, r.step(ctx, "redone", "nothing to redo", (*session.Session).Redo)
	case "limit":
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			return false, fmt.Errorf("usage: limit <n>, n >= 0")
		}
		return false, r.with(ctx, func(s *session.Session) error {
			s.SetLimit(n)
			fmt.Fprintf(r.opts.Out, "limit %d\n", n)
			return nil
		})
	case "clear":
		return false, r.with(ctx, func(s *session.Session) error {
			s.Clear()
			fmt.Fprintln(r.opts.Out, "history cleared")
			return nil
		})
	case "show":
		return false, r.with(ctx, r.show)
	default:
		return false, fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
}

func (r *repl) with(ctx context.Context, fn func(*session.Session) error) error {
	return r.opts.Sessions.WithSession(ctx, r.opts.DocumentID, func(_ context.Context, s *session.Session) error {
		return fn(s)
	})
}

func (r *repl) step(ctx context.Context, done, none string, fn func(*session.Session) (bool, error)) error {
	return r.with(ctx, func(s *session.Session) error {
		changed, err := fn(s)
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintln(r.opts.Out, done)
		} else {
			fmt.Fprintln(r.opts.Out, none)
		}
		return nil
	})
}

func (r *repl) show(s *session.Session) error {
	fields, err := s.Snapshot()
	if err != nil {
		return err
	}
	out, err := r.opts.Render(tui.DocumentMarkdown(s.ID(), fields, s.Status()))
	if err != nil {
		return err
	}
	fmt.Fprint(r.opts.Out, out)
	return nil
}

// parseValue reads a scalar the way YAML does, so 42 is a number and
// true a bool. Anything that is not a plain scalar stays a string.
func parseValue(raw string) any {
	raw = strings.TrimSpace(raw)
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	switch v.(type) {
	case map[string]any, []any:
		return raw
	}
	return v
}

func parseAssignments(s string) (map[string]any, error) {
	values := make(map[string]any)
	for _, pair := range strings.Fields(s) {
		field, raw, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("usage: batch <field>=<value> ..., got %q", pair)
		}
		values[field] = parseValue(raw)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("usage: batch <field>=<value> ...")
	}
	return values, nil
}
