package evaluator

import (
	"mankai/internal/object"
)

func funcCar(args []object.Object) (object.Object, error) {
	l, err := nonEmptyList("car", args)
	if err != nil {
		return nil, err
	}
	return l.Elements[0], nil
}

func funcCdr(args []object.Object) (object.Object, error) {
	l, err := nonEmptyList("cdr", args)
	if err != nil {
		return nil, err
	}
	rest := make([]object.Object, len(l.Elements)-1)
	copy(rest, l.Elements[1:])
	return &object.List{Elements: rest}, nil
}

func nonEmptyList(name string, args []object.Object) (*object.List, error) {
	if err := exactly(name, args, 1); err != nil {
		return nil, err
	}
	l, err := listArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	if len(l.Elements) == 0 {
		return nil, object.NewError(object.EmptyList, "can't apply '%s' to empty list", name)
	}
	return l, nil
}

// funcCons appends the remaining arguments to the end of a copy of the first.
func funcCons(args []object.Object) (object.Object, error) {
	if err := atLeast("cons", args, 2); err != nil {
		return nil, err
	}
	l, err := listArg("cons", args, 0)
	if err != nil {
		return nil, err
	}

	elements := make([]object.Object, len(l.Elements), len(l.Elements)+len(args)-1)
	copy(elements, l.Elements)
	elements = append(elements, args[1:]...)
	return &object.List{Elements: elements}, nil
}

func funcList(args []object.Object) (object.Object, error) {
	elements := make([]object.Object, len(args))
	copy(elements, args)
	return &object.List{Elements: elements}, nil
}
