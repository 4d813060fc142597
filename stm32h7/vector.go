package stm32h7

import (
	"errors"
	"fmt"
)

// Handler is one interrupt service routine slot.
type Handler func()

var ErrUnknownIRQ = errors.New("unknown interrupt line")

// HandlerTable maps logical interrupt names to handlers. Every line
// resolves to the default handler unless an override is registered,
// which replaces the original's weak-symbol binding with an ordinary
// lookup. Reserved table positions cannot be overridden.
type HandlerTable struct {
	def       Handler
	names     []string
	index     map[string]int
	overrides map[string]Handler
}

// NewHandlerTable builds a table over the given interrupt lines, in
// vector order, with def as the fallback for every line.
func NewHandlerTable(def Handler, irqs []string) (*HandlerTable, error) {
	if def == nil {
		return nil, errors.New("handler table needs a default handler")
	}
	t := &HandlerTable{
		def:       def,
		names:     make([]string, len(irqs)),
		index:     make(map[string]int, len(irqs)),
		overrides: make(map[string]Handler),
	}
	copy(t.names, irqs)
	for i, name := range irqs {
		if name == "" {
			continue
		}
		if _, ok := t.index[name]; ok {
			return nil, fmt.Errorf("duplicate interrupt line %q", name)
		}
		t.index[name] = i
	}
	return t, nil
}

// Override installs a handler for one line. It fails for names the table
// does not know.
func (t *HandlerTable) Override(name string, h Handler) error {
	if _, ok := t.index[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownIRQ)
	}
	if h == nil {
		return fmt.Errorf("nil handler for %q", name)
	}
	t.overrides[name] = h
	return nil
}

// Resolve returns the handler for a line: the override if present, else
// the default.
func (t *HandlerTable) Resolve(name string) (Handler, error) {
	if _, ok := t.index[name]; !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownIRQ)
	}
	if h, ok := t.overrides[name]; ok {
		return h, nil
	}
	return t.def, nil
}

// Handlers returns the full table in vector order, reserved positions
// bound to the default handler.
func (t *HandlerTable) Handlers() []Handler {
	out := make([]Handler, len(t.names))
	for i, name := range t.names {
		out[i] = t.def
		if h, ok := t.overrides[name]; ok {
			out[i] = h
		}
	}
	return out
}
