package object

import (
	"log/slog"
	"sort"
)

// Environment is a stack of binding layers. Layer 0 is the global layer and
// is never removed; every user-defined call pushes one layer for its
// duration.
type Environment struct {
	layers []map[string]Object
}

func NewEnvironment() *Environment {
	return &Environment{
		layers: []map[string]Object{make(map[string]Object)},
	}
}

// Define binds name in the topmost layer, replacing any binding already there.
func (e *Environment) Define(name string, val Object) {
	e.layers[len(e.layers)-1][name] = val
	slog.Debug("binding value",
		slog.String("name", name),
		slog.Any("type", val.Type()),
		slog.Int("depth", len(e.layers)))
}

// Get searches from the topmost layer down to the global one.
func (e *Environment) Get(name string) (Object, bool) {
	for i := len(e.layers) - 1; i >= 0; i-- {
		if val, ok := e.layers[i][name]; ok {
			return val, true
		}
	}
	return nil, false
}

func (e *Environment) Lookup(name string) (Object, error) {
	val, ok := e.Get(name)
	if !ok {
		return nil, NewError(UnboundSymbol, "unbound symbol '%s'", name)
	}
	return val, nil
}

// Extend pushes a new empty layer.
func (e *Environment) Extend() {
	e.layers = append(e.layers, make(map[string]Object))
	slog.Debug("extend environment", slog.Int("depth", len(e.layers)))
}

// Restrict pops the topmost layer. Popping the global layer is a broken
// invariant and panics.
func (e *Environment) Restrict() {
	if len(e.layers) <= 1 {
		panic("attempted to restrict the global environment layer")
	}
	e.layers[len(e.layers)-1] = nil
	e.layers = e.layers[:len(e.layers)-1]
	slog.Debug("restrict environment", slog.Int("depth", len(e.layers)))
}

// Depth is the number of live layers, global included.
func (e *Environment) Depth() int {
	return len(e.layers)
}

// Names lists the identifiers bound in the topmost layer, sorted.
func (e *Environment) Names() []string {
	top := e.layers[len(e.layers)-1]
	names := make([]string, 0, len(top))
	for name := range top {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
