package object

import (
	"mankai/internal/ast"
	"strconv"
	"strings"
)

const (
	NUMBER_OBJ       = "NUMBER"
	STRING_OBJ       = "STRING"
	BOOLEAN_OBJ      = "BOOLEAN"
	LIST_OBJ         = "LIST"
	SPECIAL_FORM_OBJ = "SPECIAL_FORM"
	NATIVE_OBJ       = "NATIVE_FUNCTION"
	FUNCTION_OBJ     = "FUNCTION"
)

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

// EvaluatorContext is what a special form sees of the evaluator driving it.
type EvaluatorContext interface {
	Eval(expr ast.Sexp) (Object, error)
	// ReservedCategory names the reserved table holding name
	// ("special form", "native function" or "constant"), or "" if none does.
	ReservedCategory(name string) string
}

type SpecialFormFn func(ctx EvaluatorContext, env *Environment, args []ast.Sexp) (Object, error)

type NativeFn func(args []Object) (Object, error)

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return strconv.FormatFloat(n.Value, 'f', -1, 64) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return `"` + s.Value + `"` }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		parts[i] = el.Inspect()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// SpecialForm receives its arguments unevaluated.
type SpecialForm struct {
	Name string
	Fn   SpecialFormFn
}

func (sf *SpecialForm) Type() ObjectType { return SPECIAL_FORM_OBJ }
func (sf *SpecialForm) Inspect() string  { return "<special form>" }

// Native is a function implemented in Go, called with evaluated arguments.
type Native struct {
	Name string
	Fn   NativeFn
}

func (n *Native) Type() ObjectType { return NATIVE_OBJ }
func (n *Native) Inspect() string  { return "<native function>" }

// Function is a user-defined function. It owns its body and captures no
// environment: free identifiers resolve against the layers live at call time.
type Function struct {
	Name       string // empty for anonymous functions
	Parameters []string
	Body       ast.Sexp
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return "<user-defined function>" }

// DisplayName is the name used in diagnostics.
func (f *Function) DisplayName() string {
	if f.Name == "" {
		return "anonymous function"
	}
	return f.Name
}

func NativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// IsCallable reports whether obj may appear at the head of a call.
func IsCallable(obj Object) bool {
	switch obj.(type) {
	case *SpecialForm, *Native, *Function:
		return true
	default:
		return false
	}
}

// Equal is value equality. Callable values are never equal to anything,
// themselves included.
func Equal(a, b Object) bool {
	switch a := a.(type) {
	case *Number:
		other, ok := b.(*Number)
		return ok && a.Value == other.Value
	case *String:
		other, ok := b.(*String)
		return ok && a.Value == other.Value
	case *Boolean:
		other, ok := b.(*Boolean)
		return ok && a.Value == other.Value
	case *List:
		other, ok := b.(*List)
		if !ok || len(a.Elements) != len(other.Elements) {
			return false
		}
		for i := range a.Elements {
			if !Equal(a.Elements[i], other.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
