// Package session ties the lexer, parser and evaluator into one
// interpreter session with an optional transcript store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mankai/internal/ast"
	"mankai/internal/evaluator"
	"mankai/internal/history"
	"mankai/internal/object"
	"mankai/internal/parser"
	"mankai/internal/util"
	"os"
	"sync"

	"github.com/google/uuid"
)

// ErrNoHistory is returned by History when no transcript store is attached.
var ErrNoHistory = errors.New("history store is not configured")

// Session owns one evaluator. Calls are serialised, so a Session may be
// shared by front ends that serve requests concurrently.
type Session struct {
	ID     string
	Config util.Configuration

	mu        sync.Mutex
	evaluator *evaluator.Evaluator
	store     *history.Store
	seq       int64
}

// New creates a session. store may be nil.
func New(config util.Configuration, store *history.Store) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Config:    config,
		evaluator: evaluator.New(evaluator.Config{MaxDepth: config.MaxDepth}),
		store:     store,
	}
}

// Eval evaluates every expression in src and returns the value of the last
// one. Evaluation stops at the first failure; bindings made before it stay.
func (s *Session) Eval(ctx context.Context, src string) (object.Object, error) {
	return s.EvalSource(ctx, "", src)
}

// EvalFile reads and evaluates a source file.
func (s *Session) EvalFile(ctx context.Context, path string) (object.Object, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return s.EvalSource(ctx, path, string(src))
}

// EvalSource is Eval for source read from path. A non-empty path enables
// the AST debug dumps next to it.
func (s *Session) EvalSource(ctx context.Context, path string, src string) (object.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, err := s.run(path, src)
	if err != nil {
		slog.Debug("evaluation failed",
			slog.String("session", s.ID),
			slog.Any("error", err))
	}
	s.record(ctx, src, val, err)
	return val, err
}

func (s *Session) run(path string, src string) (object.Object, error) {
	exprs, err := parser.ParseString(src)
	if err != nil {
		return nil, err
	}
	if path != "" {
		s.dumpAST(path, exprs)
	}

	var result object.Object
	for _, expr := range exprs {
		result, err = s.evaluator.Eval(expr)
		if err != nil {
			return nil, fmt.Errorf("runtime error: %w", err)
		}
	}
	return result, nil
}

func (s *Session) dumpAST(path string, exprs []ast.Sexp) {
	if s.Config.DebugJsonAST {
		json, err := parser.RenderASTAsJSON(exprs)
		if err != nil {
			slog.Error("Failed to render AST as JSON",
				slog.Any("error", err))
		} else if err := os.WriteFile(path+".ast.json", []byte(json), 0644); err != nil {
			slog.Error("Failed to write AST as JSON",
				slog.Any("error", err))
		}
	}
	if s.Config.DebugTxtAST {
		text := parser.RenderASTAsText(exprs)
		if err := os.WriteFile(path+".ast.txt", []byte(text), 0644); err != nil {
			slog.Error("Failed to write AST as text",
				slog.Any("error", err))
		}
	}
}

func (s *Session) record(ctx context.Context, src string, val object.Object, evalErr error) {
	s.seq++
	if s.store == nil {
		return
	}
	entry := history.Entry{
		SessionID: s.ID,
		Seq:       s.seq,
		Source:    src,
	}
	if evalErr != nil {
		entry.Failure = evalErr.Error()
	} else if val != nil {
		entry.Result = val.Inspect()
	}
	if err := s.store.Record(ctx, entry); err != nil {
		slog.Warn("could not record history",
			slog.String("session", s.ID),
			slog.Any("error", err))
	}
}

// History returns up to n of this session's latest transcript entries,
// oldest first.
func (s *Session) History(ctx context.Context, n int) ([]history.Entry, error) {
	if s.store == nil {
		return nil, ErrNoHistory
	}
	return s.store.Recent(ctx, s.ID, n)
}

// Names lists the user bindings of the global layer, sorted. Special
// forms, native functions and constants are left out.
func (s *Session) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	for _, name := range s.evaluator.Env().Names() {
		if s.evaluator.ReservedCategory(name) == "" {
			names = append(names, name)
		}
	}
	return names
}
