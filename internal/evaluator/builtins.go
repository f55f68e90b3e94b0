package evaluator

import (
	"fmt"
	"mankai/internal/object"
)

var builtins = map[string]object.NativeFn{
	// arithmetic
	"+": funcAdd,
	"-": funcSub,
	"*": funcMul,
	"/": funcDiv,

	// comparison
	"=": compareWith("=", func(a, b float64) bool { return a == b }),
	">": compareWith(">", func(a, b float64) bool { return a > b }),
	"<": compareWith("<", func(a, b float64) bool { return a < b }),

	// logic
	"and": funcAnd,
	"or":  funcOr,
	"not": funcNot,

	// list functions
	"car":  funcCar,
	"cdr":  funcCdr,
	"cons": funcCons,
	"list": funcList,

	// type predicates
	"bool?":   isType("bool?", object.BOOLEAN_OBJ),
	"list?":   isType("list?", object.LIST_OBJ),
	"number?": isType("number?", object.NUMBER_OBJ),
	"string?": isType("string?", object.STRING_OBJ),

	// string functions
	"string-concat": funcStringConcat,
	"to-string":     funcToString,
}

var typeNames = map[object.ObjectType]string{
	object.NUMBER_OBJ:  "number",
	object.STRING_OBJ:  "string",
	object.BOOLEAN_OBJ: "boolean",
	object.LIST_OBJ:    "list",
}

func atLeast(name string, args []object.Object, min int) error {
	if len(args) < min {
		return object.NewError(object.ArityMismatch,
			"'%s' requires at least %s but found %d", name, pluralArgs(min), len(args))
	}
	return nil
}

func exactly(name string, args []object.Object, want int) error {
	if len(args) != want {
		return object.NewError(object.ArityMismatch,
			"'%s' requires exactly %s but found %d", name, pluralArgs(want), len(args))
	}
	return nil
}

func pluralArgs(n int) string {
	if n == 1 {
		return "one argument"
	}
	return fmt.Sprintf("%d arguments", n)
}

func typeError(name string, pos int, want object.ObjectType, got object.Object) error {
	return object.NewError(object.TypeMismatch,
		"argument %d of '%s' must be a %s, found %s", pos, name, typeNames[want], got.Inspect())
}

func numberArg(name string, args []object.Object, i int) (float64, error) {
	n, ok := args[i].(*object.Number)
	if !ok {
		return 0, typeError(name, i+1, object.NUMBER_OBJ, args[i])
	}
	return n.Value, nil
}

func boolArg(name string, args []object.Object, i int) (bool, error) {
	b, ok := args[i].(*object.Boolean)
	if !ok {
		return false, typeError(name, i+1, object.BOOLEAN_OBJ, args[i])
	}
	return b.Value, nil
}

func listArg(name string, args []object.Object, i int) (*object.List, error) {
	l, ok := args[i].(*object.List)
	if !ok {
		return nil, typeError(name, i+1, object.LIST_OBJ, args[i])
	}
	return l, nil
}

func stringArg(name string, args []object.Object, i int) (string, error) {
	s, ok := args[i].(*object.String)
	if !ok {
		return "", typeError(name, i+1, object.STRING_OBJ, args[i])
	}
	return s.Value, nil
}

func numbers(name string, args []object.Object) ([]float64, error) {
	if err := atLeast(name, args, 1); err != nil {
		return nil, err
	}
	values := make([]float64, len(args))
	for i := range args {
		v, err := numberArg(name, args, i)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func funcAdd(args []object.Object) (object.Object, error) {
	values, err := numbers("+", args)
	if err != nil {
		return nil, err
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return &object.Number{Value: sum}, nil
}

func funcMul(args []object.Object) (object.Object, error) {
	values, err := numbers("*", args)
	if err != nil {
		return nil, err
	}
	product := 1.0
	for _, v := range values {
		product *= v
	}
	return &object.Number{Value: product}, nil
}

// funcSub negates a single argument, otherwise subtracts left to right.
func funcSub(args []object.Object) (object.Object, error) {
	values, err := numbers("-", args)
	if err != nil {
		return nil, err
	}
	if len(values) == 1 {
		return &object.Number{Value: -values[0]}, nil
	}
	result := values[0]
	for _, v := range values[1:] {
		result -= v
	}
	return &object.Number{Value: result}, nil
}

// funcDiv takes the reciprocal of a single argument, otherwise divides left
// to right. A zero divisor is reported with its position.
func funcDiv(args []object.Object) (object.Object, error) {
	values, err := numbers("/", args)
	if err != nil {
		return nil, err
	}
	if len(values) == 1 {
		if values[0] == 0 {
			return nil, divideByZero(1)
		}
		return &object.Number{Value: 1 / values[0]}, nil
	}
	result := values[0]
	for i, v := range values[1:] {
		if v == 0 {
			return nil, divideByZero(i + 2)
		}
		result /= v
	}
	return &object.Number{Value: result}, nil
}

func divideByZero(pos int) error {
	return object.NewError(object.DivideByZero, "divide by zero: argument %d of '/' is zero", pos)
}

// compareWith builds a chained comparison: every adjacent pair must satisfy op.
func compareWith(name string, op func(a, b float64) bool) object.NativeFn {
	return func(args []object.Object) (object.Object, error) {
		values, err := numbers(name, args)
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(values); i++ {
			if !op(values[i-1], values[i]) {
				return object.FALSE, nil
			}
		}
		return object.TRUE, nil
	}
}

// funcAnd returns false at the first false operand.
func funcAnd(args []object.Object) (object.Object, error) {
	if err := atLeast("and", args, 1); err != nil {
		return nil, err
	}
	for i := range args {
		b, err := boolArg("and", args, i)
		if err != nil {
			return nil, err
		}
		if !b {
			return object.FALSE, nil
		}
	}
	return object.TRUE, nil
}

// funcOr returns true at the first true operand.
func funcOr(args []object.Object) (object.Object, error) {
	if err := atLeast("or", args, 1); err != nil {
		return nil, err
	}
	for i := range args {
		b, err := boolArg("or", args, i)
		if err != nil {
			return nil, err
		}
		if b {
			return object.TRUE, nil
		}
	}
	return object.FALSE, nil
}

func funcNot(args []object.Object) (object.Object, error) {
	if err := exactly("not", args, 1); err != nil {
		return nil, err
	}
	b, err := boolArg("not", args, 0)
	if err != nil {
		return nil, err
	}
	return object.NativeBoolToBooleanObject(!b), nil
}

func isType(name string, typ object.ObjectType) object.NativeFn {
	return func(args []object.Object) (object.Object, error) {
		if err := exactly(name, args, 1); err != nil {
			return nil, err
		}
		return object.NativeBoolToBooleanObject(args[0].Type() == typ), nil
	}
}
