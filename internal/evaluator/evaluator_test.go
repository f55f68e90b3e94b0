package evaluator

import (
	"mankai/internal/ast"
	"mankai/internal/object"
	"mankai/internal/parser"
	"mankai/internal/token"
	"testing"
)

func testEvalWith(t *testing.T, e *Evaluator, input string) (object.Object, error) {
	t.Helper()
	exprs, err := parser.ParseString(input)
	if err != nil {
		t.Fatalf("parsing %q: %v", input, err)
	}

	var result object.Object
	for _, expr := range exprs {
		result, err = e.Eval(expr)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func testEval(t *testing.T, input string) (object.Object, error) {
	t.Helper()
	return testEvalWith(t, New(Config{MaxDepth: DefaultMaxDepth}), input)
}

func expectValue(t *testing.T, input string, expected object.Object) {
	t.Helper()
	val, err := testEval(t, input)
	if err != nil {
		t.Fatalf("eval %q: unexpected error: %v", input, err)
	}
	if !object.Equal(val, expected) {
		t.Fatalf("eval %q: expected %s, got %s", input, expected.Inspect(), val.Inspect())
	}
}

func expectError(t *testing.T, input string, kind object.ErrorKind, message string) {
	t.Helper()
	_, err := testEval(t, input)
	if err == nil {
		t.Fatalf("eval %q: expected error", input)
	}
	if !object.IsKind(err, kind) {
		t.Errorf("eval %q: expected %s error, got %v", input, kind, err)
	}
	if message != "" && err.Error() != message {
		t.Errorf("eval %q: message wrong.\nexpected=%q\ngot=%q", input, message, err.Error())
	}
}

func num(v float64) object.Object { return &object.Number{Value: v} }
func str(v string) object.Object  { return &object.String{Value: v} }
func list(elements ...object.Object) object.Object {
	return &object.List{Elements: elements}
}

func TestNumberLiteralsRoundTrip(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"5", 5},
		{"0", 0},
		{"64.333", 64.333},
		{"-3", -3},
		{"12.0", 12},
		{"1000000", 1000000},
	}

	for _, tt := range tests {
		expectValue(t, tt.input, num(tt.expected))
	}
}

func TestStringLiteral(t *testing.T) {
	expectValue(t, `"foo"`, str("foo"))
}

func TestConstants(t *testing.T) {
	expectValue(t, "true", object.TRUE)
	expectValue(t, "false", object.FALSE)
}

func TestUnboundSymbol(t *testing.T) {
	expectError(t, "foo", object.UnboundSymbol, "unbound symbol 'foo'")
}

func TestUnknownAtomKind(t *testing.T) {
	e := New(Config{})
	_, err := e.Eval(&ast.Atom{Token: token.Token{Type: token.ILLEGAL, Literal: "?"}})
	if !object.IsKind(err, object.Internal) || err.Error() != "failed to convert atom to value" {
		t.Errorf("expected internal conversion error, got %v", err)
	}
}

func TestSetAndDefine(t *testing.T) {
	tests := []struct {
		input    string
		expected object.Object
	}{
		{`(set! foo "bar") foo`, str("bar")},
		{`(set! foo "bar")`, str("bar")},
		{`(define! x (+ 1 2)) x`, num(3)},
		{`(define! x 1) (define! x 2) x`, num(2)},
		{`(set! f (lambda! (n) (* n n))) (f 4)`, num(16)},
	}

	for _, tt := range tests {
		expectValue(t, tt.input, tt.expected)
	}
}

func TestBindingErrors(t *testing.T) {
	tests := []struct {
		input   string
		kind    object.ErrorKind
		message string
	}{
		{`(set! x)`, object.ArityMismatch, "expected exactly 2 arguments to 'set!' but found 1"},
		{`(set! "x" 1)`, object.MalformedExpression, "expected identifier as first argument to 'set!'"},
		{`(define! (x) 1)`, object.MalformedExpression, "expected identifier as first argument to 'define!'"},
		{`(define! 3 1)`, object.MalformedExpression, "expected identifier as first argument to 'define!'"},
		{`(define! + 1)`, object.ReservedName, "can't assign to '+' because the name is reserved for a native function"},
		{`(define! if! 1)`, object.ReservedName, "can't assign to 'if!' because the name is reserved for a special form"},
		{`(define! true 1)`, object.ReservedName, "can't assign to 'true' because the name is reserved for a constant"},
		{`(defun! car (l) l)`, object.ReservedName, "can't assign to 'car' because the name is reserved for a native function"},
		{`(define! x (undefined))`, object.UnboundSymbol, "unbound symbol 'undefined'"},
	}

	for _, tt := range tests {
		expectError(t, tt.input, tt.kind, tt.message)
	}
}

func TestSetIsUnguarded(t *testing.T) {
	expectValue(t, `(set! + -) (+ 5 3)`, num(2))
	expectValue(t, `(set! true false) true`, object.FALSE)
}

func TestReservedCheckHappensBeforeEvaluation(t *testing.T) {
	e := New(Config{})
	_, err := testEvalWith(t, e, `(define! + (set! probe 1))`)
	if !object.IsKind(err, object.ReservedName) {
		t.Fatalf("expected reserved name error, got %v", err)
	}
	if _, ok := e.Env().Get("probe"); ok {
		t.Errorf("value expression must not be evaluated for a reserved name")
	}
}

func TestIfShortCircuits(t *testing.T) {
	expectValue(t, `(if! true "a" (undefined-probe))`, str("a"))
	expectValue(t, `(if! false (undefined-probe) "b")`, str("b"))
	expectValue(t, `(if! (< 1 2) (+ 1 1) (/ 1 0))`, num(2))

	e := New(Config{})
	if _, err := testEvalWith(t, e, `(if! true 1 (set! probe 2))`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := e.Env().Get("probe"); ok {
		t.Errorf("untaken branch was evaluated")
	}
}

func TestIfErrors(t *testing.T) {
	expectError(t, `(if! 1 "a" "b")`, object.TypeMismatch, "condition of 'if!' must evaluate to a boolean, found 1")
	expectError(t, `(if! true "a")`, object.ArityMismatch, "expected exactly 3 arguments to 'if!' but found 2")
	expectError(t, `(if! (nope) "a" "b")`, object.UnboundSymbol, "unbound symbol 'nope'")
}

func TestLambda(t *testing.T) {
	expectValue(t, `((lambda! (x y) (+ x y)) 1 2)`, num(3))
	expectValue(t, `(set! add (lambda! (x y) (+ x y))) (add 1 2)`, num(3))

	expectError(t, `((lambda! (x y) (+ x y)) 1)`, object.ArityMismatch,
		"found 1 arguments but 'anonymous function' requires 2")
	expectError(t, `((lambda! (x y) (+ x y)) 1 2 3)`, object.ArityMismatch,
		"found 3 arguments but 'anonymous function' requires 2")
	expectError(t, `(lambda! x x)`, object.MalformedExpression, "expected a list of parameters in 'lambda!'")
	expectError(t, `(lambda! (x 2 y) x)`, object.MalformedExpression, "parameter 2 of 'lambda!' is not an identifier")
	expectError(t, `(lambda! (x))`, object.ArityMismatch, "expected exactly 2 arguments to 'lambda!' but found 1")

	val, err := testEval(t, `(lambda! (x) x)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn, ok := val.(*object.Function)
	if !ok {
		t.Fatalf("expected function, got %T", val)
	}
	if fn.Name != "" || len(fn.Parameters) != 1 || fn.Parameters[0] != "x" {
		t.Errorf("unexpected function %+v", fn)
	}
}

func TestDefun(t *testing.T) {
	expectValue(t, `(defun! add (a b) (+ a b)) (add 2 3)`, num(5))
	expectValue(t, `(defun! fact (n) (if! (< n 2) 1 (* n (fact (- n 1))))) (fact 5)`, num(120))
	expectError(t, `(defun! add (a b) (+ a b)) (add 2)`, object.ArityMismatch,
		"found 1 arguments but 'add' requires 2")
	expectError(t, `(defun! (add) (a) a)`, object.MalformedExpression, "expected identifier as first argument to 'defun!'")
	expectError(t, `(defun! f ("a") 1)`, object.MalformedExpression, "parameter 1 of 'defun!' is not an identifier")

	val, err := testEval(t, `(defun! id (x) x)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn, ok := val.(*object.Function); !ok || fn.Name != "id" {
		t.Errorf("defun! should return the named function, got %s", val.Inspect())
	}
}

func TestFunctionOwnsItsBody(t *testing.T) {
	e := New(Config{})
	body := ast.NewList(ast.NewIdentifier("+"), ast.NewIdentifier("x"), ast.NewNumber("1", 1))
	lambda := ast.NewList(ast.NewIdentifier("lambda!"), ast.NewList(ast.NewIdentifier("x")), body)

	fn, err := e.Eval(lambda)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body.Elements[0] = ast.NewIdentifier("*")

	val, err := e.Apply(fn, []object.Object{num(5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !object.Equal(val, num(6)) {
		t.Errorf("expected 6, got %s", val.Inspect())
	}
}

func TestDynamicExtent(t *testing.T) {
	e := New(Config{})

	val, err := testEvalWith(t, e, `
(defun! getx (dummy) x)
(defun! f (x) (getx 0))
(f 42)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !object.Equal(val, num(42)) {
		t.Errorf("callee should see caller's layer, got %s", val.Inspect())
	}

	_, err = testEvalWith(t, e, `(getx 0)`)
	if !object.IsKind(err, object.UnboundSymbol) {
		t.Errorf("x should be unbound at top level, got %v", err)
	}
}

func TestNoClosureCapture(t *testing.T) {
	e := New(Config{})
	_, err := testEvalWith(t, e, `
(defun! make-adder (n) (lambda! (x) (+ x n)))
(set! add5 (make-adder 5))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = testEvalWith(t, e, `(add5 1)`)
	if !object.IsKind(err, object.UnboundSymbol) {
		t.Fatalf("n must not be captured at definition time, got %v", err)
	}

	val, err := testEvalWith(t, e, `(set! n 10) (add5 1)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !object.Equal(val, num(11)) {
		t.Errorf("expected 11, got %s", val.Inspect())
	}
}

func TestBindingsInsideCallsAreLocal(t *testing.T) {
	e := New(Config{})
	val, err := testEvalWith(t, e, `
(set! y 1)
(defun! f (x) (set! y x))
(f 7)
y`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !object.Equal(val, num(1)) {
		t.Errorf("set! inside a call must bind in the call layer, got %s", val.Inspect())
	}
}

func TestLayersUnwindOnError(t *testing.T) {
	e := New(Config{})
	_, err := testEvalWith(t, e, `
(defun! inner (a) (car (list)))
(defun! outer (b) (inner b))
(outer 1)`)
	if !object.IsKind(err, object.EmptyList) {
		t.Fatalf("expected empty list error, got %v", err)
	}
	if e.Env().Depth() != 1 {
		t.Errorf("expected only the global layer after failure, depth=%d", e.Env().Depth())
	}
	if _, ok := e.Env().Get("b"); ok {
		t.Errorf("parameter b leaked into the global layer")
	}
}

func TestRecursionLimit(t *testing.T) {
	e := New(Config{MaxDepth: 50})
	_, err := testEvalWith(t, e, `(defun! spin (n) (spin n)) (spin 1)`)
	if !object.IsKind(err, object.RecursionLimit) {
		t.Fatalf("expected recursion limit error, got %v", err)
	}
	if err.Error() != "maximum recursion depth of 50 exceeded in 'spin'" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if e.Env().Depth() != 1 {
		t.Errorf("expected only the global layer after failure, depth=%d", e.Env().Depth())
	}

	val, err := testEvalWith(t, e, `(defun! count (n) (if! (< n 1) 0 (+ 1 (count (- n 1))))) (count 49)`)
	if err != nil {
		t.Fatalf("recursion under the limit should succeed: %v", err)
	}
	if !object.Equal(val, num(49)) {
		t.Errorf("expected 49, got %s", val.Inspect())
	}
}

func TestNotCallable(t *testing.T) {
	expectError(t, `(1 2)`, object.NotCallable, "'1' is not callable")
	expectError(t, `("f")`, object.NotCallable, `'"f"' is not callable`)
	expectError(t, `((list 1 2) 3)`, object.NotCallable, "'(1 2)' is not callable")
}

func TestArgumentsEvaluateLeftToRight(t *testing.T) {
	e := New(Config{})
	_, err := testEvalWith(t, e, `(list (set! a 1) (undefined) (set! b 2))`)
	if !object.IsKind(err, object.UnboundSymbol) {
		t.Fatalf("expected unbound symbol error, got %v", err)
	}
	if _, ok := e.Env().Get("a"); !ok {
		t.Errorf("arguments before the failure should have been evaluated")
	}
	if _, ok := e.Env().Get("b"); ok {
		t.Errorf("arguments after the failure must not be evaluated")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	first := New(Config{})
	second := New(Config{})

	if _, err := testEvalWith(t, first, `(set! + -)`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, err := testEvalWith(t, second, `(+ 1 1)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !object.Equal(val, num(2)) {
		t.Errorf("rebinding in one session leaked into another: %s", val.Inspect())
	}
}

func TestReservedCategory(t *testing.T) {
	e := New(Config{})
	tests := map[string]string{
		"if!":       "special form",
		"defun!":    "special form",
		"+":         "native function",
		"to-string": "native function",
		"false":     "constant",
		"foo":       "",
	}
	for name, expected := range tests {
		if got := e.ReservedCategory(name); got != expected {
			t.Errorf("ReservedCategory(%q) = %q, want %q", name, got, expected)
		}
	}
}
