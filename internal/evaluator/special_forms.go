package evaluator

import (
	"mankai/internal/ast"
	"mankai/internal/object"
)

var specialForms = map[string]object.SpecialFormFn{
	"if!":     formIf,
	"lambda!": formLambda,
	"set!":    formSet,
	"define!": formDefine,
	"defun!":  formDefun,
}

// formIf evaluates exactly one of its branches.
func formIf(ctx object.EvaluatorContext, env *object.Environment, args []ast.Sexp) (object.Object, error) {
	if err := checkFormArity("if!", args, 3); err != nil {
		return nil, err
	}

	cond, err := ctx.Eval(args[0])
	if err != nil {
		return nil, err
	}
	b, ok := cond.(*object.Boolean)
	if !ok {
		return nil, object.NewError(object.TypeMismatch,
			"condition of 'if!' must evaluate to a boolean, found %s", cond.Inspect())
	}

	if b.Value {
		return ctx.Eval(args[1])
	}
	return ctx.Eval(args[2])
}

func formLambda(ctx object.EvaluatorContext, env *object.Environment, args []ast.Sexp) (object.Object, error) {
	if err := checkFormArity("lambda!", args, 2); err != nil {
		return nil, err
	}

	params, err := parseParameters("lambda!", args[0])
	if err != nil {
		return nil, err
	}

	return &object.Function{Parameters: params, Body: ast.Clone(args[1])}, nil
}

// formSet binds without consulting the reserved tables.
func formSet(ctx object.EvaluatorContext, env *object.Environment, args []ast.Sexp) (object.Object, error) {
	return bind(ctx, env, "set!", args, false)
}

func formDefine(ctx object.EvaluatorContext, env *object.Environment, args []ast.Sexp) (object.Object, error) {
	return bind(ctx, env, "define!", args, true)
}

func formDefun(ctx object.EvaluatorContext, env *object.Environment, args []ast.Sexp) (object.Object, error) {
	if err := checkFormArity("defun!", args, 3); err != nil {
		return nil, err
	}

	name, err := identifierArg("defun!", args[0])
	if err != nil {
		return nil, err
	}
	if err := checkReserved(ctx, name); err != nil {
		return nil, err
	}

	params, err := parseParameters("defun!", args[1])
	if err != nil {
		return nil, err
	}

	fn := &object.Function{Name: name, Parameters: params, Body: ast.Clone(args[2])}
	env.Define(name, fn)
	return fn, nil
}

func bind(ctx object.EvaluatorContext, env *object.Environment, form string, args []ast.Sexp, guarded bool) (object.Object, error) {
	if err := checkFormArity(form, args, 2); err != nil {
		return nil, err
	}

	name, err := identifierArg(form, args[0])
	if err != nil {
		return nil, err
	}
	if guarded {
		if err := checkReserved(ctx, name); err != nil {
			return nil, err
		}
	}

	val, err := ctx.Eval(args[1])
	if err != nil {
		return nil, err
	}

	env.Define(name, val)
	return val, nil
}

func checkFormArity(form string, args []ast.Sexp, want int) error {
	if len(args) != want {
		return object.NewError(object.ArityMismatch,
			"expected exactly %d arguments to '%s' but found %d", want, form, len(args))
	}
	return nil
}

func checkReserved(ctx object.EvaluatorContext, name string) error {
	if category := ctx.ReservedCategory(name); category != "" {
		return object.NewError(object.ReservedName,
			"can't assign to '%s' because the name is reserved for a %s", name, category)
	}
	return nil
}

func identifierArg(form string, expr ast.Sexp) (string, error) {
	atom, ok := expr.(*ast.Atom)
	if !ok || !atom.IsIdentifier() {
		return "", object.NewError(object.MalformedExpression,
			"expected identifier as first argument to '%s'", form)
	}
	return atom.Token.Literal, nil
}

func parseParameters(form string, expr ast.Sexp) ([]string, error) {
	list, ok := expr.(*ast.List)
	if !ok {
		return nil, object.NewError(object.MalformedExpression,
			"expected a list of parameters in '%s'", form)
	}

	params := make([]string, len(list.Elements))
	for i, el := range list.Elements {
		atom, ok := el.(*ast.Atom)
		if !ok || !atom.IsIdentifier() {
			return nil, object.NewError(object.MalformedExpression,
				"parameter %d of '%s' is not an identifier", i+1, form)
		}
		params[i] = atom.Token.Literal
	}
	return params, nil
}
