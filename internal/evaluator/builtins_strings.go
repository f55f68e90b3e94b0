package evaluator

import (
	"mankai/internal/object"
	"strings"
)

func funcStringConcat(args []object.Object) (object.Object, error) {
	if err := atLeast("string-concat", args, 1); err != nil {
		return nil, err
	}

	var sb strings.Builder
	for i := range args {
		s, err := stringArg("string-concat", args, i)
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)
	}
	return &object.String{Value: sb.String()}, nil
}

// funcToString leaves strings untouched and renders anything else.
func funcToString(args []object.Object) (object.Object, error) {
	if err := exactly("to-string", args, 1); err != nil {
		return nil, err
	}
	if s, ok := args[0].(*object.String); ok {
		return s, nil
	}
	return &object.String{Value: args[0].Inspect()}, nil
}
