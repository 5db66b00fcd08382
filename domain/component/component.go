// Package component defines the typed interactive elements a structured
// message can carry, and the registry that maps a kind discriminator to
// its concrete shape. New kinds are added by registering a factory at
// startup; the message codec never needs to change.
package component

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	errs "msg-kernel/errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// Component is one typed interactive element within a message.
type Component interface {
	Kind() string
}

// Factory produces an empty instance of a concrete component shape,
// ready to be filled by the decoder.
type Factory func() Component

var validate = validator.New()

// Registry maps a kind discriminator to its shape. It is passed
// explicitly to every decode path so tests can build isolated
// registries. Populate it once at startup; it is not safe for
// concurrent registration.
type Registry struct {
	shapes map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{shapes: map[string]Factory{}}
}

// Register associates a kind with a shape. Last writer wins.
func (r *Registry) Register(kind string, factory Factory) {
	r.shapes[kind] = factory
}

// Resolve returns the factory registered for kind.
func (r *Registry) Resolve(kind string) (Factory, bool) {
	factory, ok := r.shapes[kind]
	return factory, ok
}

// Encode flattens a component into a mapping carrying its kind
// discriminator, ready to be embedded in an encoded message.
func Encode(c Component) (map[string]any, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrMalformedComponent, c.Kind(), err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrMalformedComponent, c.Kind(), err)
	}
	fields["kind"] = c.Kind()
	return fields, nil
}

// Decode reads the kind discriminator, resolves the registered shape and
// builds the typed component from the remaining fields. An unregistered
// kind is an error, never a silent drop.
func (r *Registry) Decode(raw map[string]any) (Component, error) {
	kindVal, ok := raw["kind"]
	if !ok {
		return nil, fmt.Errorf("%w: missing kind discriminator", errs.ErrUnsupportedComponent)
	}
	kind, ok := kindVal.(string)
	if !ok {
		return nil, fmt.Errorf("%w: kind discriminator is not a string", errs.ErrUnsupportedComponent)
	}
	factory, ok := r.Resolve(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnsupportedComponent, kind)
	}

	c := factory()
	buf, err := json.Marshal(lo.OmitByKeys(raw, []string{"kind"}))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrMalformedComponent, kind, err)
	}
	if err := json.Unmarshal(buf, c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrMalformedComponent, kind, err)
	}
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, fmt.Errorf("%w: %s: missing or invalid field %q",
				errs.ErrMalformedComponent, kind, strings.ToLower(fieldErrs[0].Field()))
		}
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrMalformedComponent, kind, err)
	}
	return c, nil
}
