package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mankai/internal/lexer"
	"mankai/internal/parser"
	"mankai/internal/session"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"
)

const (
	PROMPT          = "mankai> "
	CONTINUE_PROMPT = "   ...> "
)

const helpText = `commands:
  :quit         leave the REPL
  :help         show this text
  :history [n]  show the last n inputs of this session (default 10)
  :env          list names defined in this session
`

// LineReader is the part of liner.State the loop needs.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

var _ LineReader = (*liner.State)(nil)

type Repl struct {
	Session *session.Session
	Reader  LineReader
	Out     io.Writer
	Prompt  string
}

// Start runs an interactive REPL on the terminal. Line history is loaded from
// and saved to historyFile when it is set.
func Start(ctx context.Context, sess *session.Session, prompt string, historyFile string) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(historyFile)
			if err != nil {
				slog.Warn("could not save line history",
					slog.String("file", historyFile),
					slog.Any("error", err))
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	r := &Repl{Session: sess, Reader: ln, Out: os.Stdout, Prompt: prompt}
	return r.Run(ctx)
}

// Run reads, evaluates and prints until end of input, :quit, or ctx is done.
func (r *Repl) Run(ctx context.Context) error {
	prompt := r.Prompt
	if prompt == "" {
		prompt = PROMPT
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		input, ok := r.readInput(prompt)
		if !ok {
			fmt.Fprintln(r.Out)
			return nil
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		r.Reader.AppendHistory(strings.ReplaceAll(input, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if quit := r.command(ctx, trimmed); quit {
				return nil
			}
			continue
		}

		val, err := r.Session.Eval(ctx, input)
		if err != nil {
			fmt.Fprintln(r.Out, err.Error())
			continue
		}
		fmt.Fprintln(r.Out, val.Inspect())
	}
}

// readInput keeps prompting while the collected text is an unfinished
// expression. ok is false at end of input.
func (r *Repl) readInput(prompt string) (string, bool) {
	var b strings.Builder

	for {
		current := prompt
		if b.Len() > 0 {
			current = CONTINUE_PROMPT
		}
		line, err := r.Reader.Prompt(current)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			slog.Warn("could not read input", slog.Any("error", err))
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !incomplete(src) {
			return src, true
		}
	}
}

func incomplete(src string) bool {
	if strings.TrimSpace(src) == "" {
		return false
	}
	_, err := parser.ParseString(src)

	var pe *parser.ParseError
	if errors.As(err, &pe) {
		return pe.Incomplete
	}
	var se *lexer.ScanError
	if errors.As(err, &se) {
		return se.Unfinished()
	}
	return false
}

func (r *Repl) command(ctx context.Context, line string) (quit bool) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ":quit", ":q":
		return true
	case ":help":
		io.WriteString(r.Out, helpText)
	case ":env":
		names := r.Session.Names()
		if len(names) == 0 {
			fmt.Fprintln(r.Out, "no definitions")
			return false
		}
		fmt.Fprintln(r.Out, strings.Join(names, " "))
	case ":history":
		n := 10
		if len(fields) > 1 {
			parsed, err := strconv.Atoi(fields[1])
			if err != nil || parsed <= 0 {
				fmt.Fprintf(r.Out, "invalid count '%s'\n", fields[1])
				return false
			}
			n = parsed
		}
		entries, err := r.Session.History(ctx, n)
		if err != nil {
			fmt.Fprintln(r.Out, err.Error())
			return false
		}
		for _, e := range entries {
			fmt.Fprintln(r.Out, e.String())
		}
	default:
		fmt.Fprintf(r.Out, "unknown command '%s'. Type :help for a list.\n", fields[0])
	}
	return false
}
