package evaluator

import (
	"log/slog"
	"mankai/internal/ast"
	"mankai/internal/object"
	"mankai/internal/token"
)

const DefaultMaxDepth = 10000

type Config struct {
	// MaxDepth bounds nested user-defined calls. Zero or less disables the
	// check and leaves deep recursion to the host stack.
	MaxDepth int
}

// Evaluator owns one interpreter session: the environment and the reserved
// name tables. It is not safe for concurrent use.
type Evaluator struct {
	env *object.Environment

	specialForms    map[string]struct{}
	nativeFunctions map[string]struct{}
	constants       map[string]struct{}

	maxDepth int
	depth    int
}

func New(cfg Config) *Evaluator {
	e := &Evaluator{
		env:             object.NewEnvironment(),
		specialForms:    make(map[string]struct{}, len(specialForms)),
		nativeFunctions: make(map[string]struct{}, len(builtins)),
		constants:       make(map[string]struct{}, 2),
		maxDepth:        cfg.MaxDepth,
	}

	for name, fn := range specialForms {
		e.specialForms[name] = struct{}{}
		e.env.Define(name, &object.SpecialForm{Name: name, Fn: fn})
	}
	for name, fn := range builtins {
		e.nativeFunctions[name] = struct{}{}
		e.env.Define(name, &object.Native{Name: name, Fn: fn})
	}
	for name, val := range constants {
		e.constants[name] = struct{}{}
		e.env.Define(name, val)
	}

	return e
}

var constants = map[string]object.Object{
	"true":  object.TRUE,
	"false": object.FALSE,
}

// Env exposes the session environment so front ends can seed bindings.
func (e *Evaluator) Env() *object.Environment {
	return e.env
}

func (e *Evaluator) ReservedCategory(name string) string {
	if _, ok := e.specialForms[name]; ok {
		return "special form"
	}
	if _, ok := e.nativeFunctions[name]; ok {
		return "native function"
	}
	if _, ok := e.constants[name]; ok {
		return "constant"
	}
	return ""
}

func (e *Evaluator) Eval(expr ast.Sexp) (object.Object, error) {
	switch node := expr.(type) {
	case *ast.Atom:
		return e.evalAtom(node)
	case *ast.List:
		return e.evalList(node)
	default:
		return nil, object.NewError(object.Internal, "failed to evaluate expression of type %T", expr)
	}
}

func (e *Evaluator) evalAtom(atom *ast.Atom) (object.Object, error) {
	switch atom.Token.Type {
	case token.NUMBER:
		return &object.Number{Value: atom.Number}, nil
	case token.STRING:
		return &object.String{Value: atom.Token.Literal}, nil
	case token.IDENT:
		return e.env.Lookup(atom.Token.Literal)
	default:
		return nil, object.NewError(object.Internal, "failed to convert atom to value")
	}
}

func (e *Evaluator) evalList(list *ast.List) (object.Object, error) {
	if len(list.Elements) == 0 {
		return nil, object.NewError(object.MalformedExpression, "can't evaluate an empty list")
	}

	callee, err := e.Eval(list.Elements[0])
	if err != nil {
		return nil, err
	}
	rest := list.Elements[1:]

	if sf, ok := callee.(*object.SpecialForm); ok {
		slog.Debug("special form", slog.String("name", sf.Name), slog.Int("args", len(rest)))
		return sf.Fn(e, e.env, rest)
	}

	args := make([]object.Object, 0, len(rest))
	for _, expr := range rest {
		val, err := e.Eval(expr)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	return e.Apply(callee, args)
}

// Apply calls fn with already evaluated arguments.
func (e *Evaluator) Apply(fn object.Object, args []object.Object) (object.Object, error) {
	switch fn := fn.(type) {
	case *object.Native:
		return fn.Fn(args)
	case *object.Function:
		return e.applyFunction(fn, args)
	default:
		return nil, object.NewError(object.NotCallable, "'%s' is not callable", fn.Inspect())
	}
}

func (e *Evaluator) applyFunction(fn *object.Function, args []object.Object) (object.Object, error) {
	if len(args) != len(fn.Parameters) {
		return nil, object.NewError(object.ArityMismatch, "found %d arguments but '%s' requires %d",
			len(args), fn.DisplayName(), len(fn.Parameters))
	}

	if e.maxDepth > 0 && e.depth >= e.maxDepth {
		return nil, object.NewError(object.RecursionLimit, "maximum recursion depth of %d exceeded in '%s'",
			e.maxDepth, fn.DisplayName())
	}

	slog.Debug("call function", slog.String("name", fn.DisplayName()), slog.Int("depth", e.depth+1))

	e.depth++
	e.env.Extend()
	defer func() {
		e.env.Restrict()
		e.depth--
	}()

	for i, name := range fn.Parameters {
		e.env.Define(name, args[i])
	}

	return e.Eval(fn.Body)
}
