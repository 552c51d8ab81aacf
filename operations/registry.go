package operations

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
)

var (
	// ErrOperationNotFound is returned when no registered operation matches a
	// lookup.
	ErrOperationNotFound = errors.New("operation not found in registry")

	// ErrTypeMismatch is returned when recovering a typed operation with type
	// parameters that do not match the operation it was erased from.
	ErrTypeMismatch = errors.New("operation type mismatch")
)

// Untyped is the type-erased form of an operation. Registries store and hand
// back Untyped values so operations with different type parameters can live
// in one collection. Invoking one re-asserts the concrete types at call time;
// compile-time safety is recovered either by those assertions or by Typed.
type Untyped struct {
	def    Definition
	invoke func(ctx any, params any) (any, error)
	// the original typed operation, retained so Typed can recover it.
	op any
}

// ID returns the operation ID.
func (u *Untyped) ID() string {
	return u.def.ID
}

// Version returns the operation semver version in string.
func (u *Untyped) Version() string {
	return u.def.Version.String()
}

// Description returns the operation description.
func (u *Untyped) Description() string {
	return u.def.Description
}

// Def returns the operation definition.
func (u *Untyped) Def() Definition {
	return u.def
}

// Execute invokes the erased operation. ctx must be a pointer to the context
// type the operation was defined for, and params must be assignable to its
// params type; nil params stands in for the zero params value. Mismatches
// surface as errors at call time instead of compile failures.
func (u *Untyped) Execute(ctx any, params any) (any, error) {
	return u.invoke(ctx, params)
}

// AsUntyped converts the operation to its type-erased form.
// Warning: context and params are checked at call time only, so compile-time
// type safety is lost.
func (o *Operation[C, P, O]) AsUntyped() *Untyped {
	return &Untyped{
		def: o.def,
		op:  o,
		invoke: func(ctx any, params any) (any, error) {
			typedCtx, ok := ctx.(*C)
			if !ok {
				return nil, errors.New("context type mismatch")
			}

			var typedParams P
			if params != nil {
				if typedParams, ok = params.(P); !ok {
					return nil, errors.New("params type mismatch")
				}
			}

			return o.execute(typedCtx, typedParams)
		},
	}
}

// Typed recovers the typed operation behind an Untyped.
// Returns ErrTypeMismatch when the requested type parameters do not match the
// operation the Untyped was created from.
func Typed[C, P, O any](u *Untyped) (*Operation[C, P, O], error) {
	op, ok := u.op.(*Operation[C, P, O])
	if !ok {
		return nil, fmt.Errorf("operation %s: %w", u.def.ID, ErrTypeMismatch)
	}

	return op, nil
}

// Registry is a store of untyped operations that allows retrieval by ID and
// version. Registration is a setup-time concern shared across consumers, so
// the registry guards its records with a lock; contexts remain lock-free and
// exclusively held during invocation.
type Registry struct {
	mu  sync.RWMutex
	ops []*Untyped
}

// RegistryOption is a functional option for configuring a Registry.
type RegistryOption func(*Registry)

// WithOperations initializes the Registry with the provided untyped
// operations.
func WithOperations(ops []*Untyped) RegistryOption {
	return func(r *Registry) {
		r.ops = append(r.ops, ops...)
	}
}

// NewRegistry creates a new Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{ops: []*Untyped{}}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds untyped operations to the registry.
func (r *Registry) Register(ops ...*Untyped) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ops = append(r.ops, ops...)
}

// Retrieve returns the operation matching the given ID and version.
// Returns ErrOperationNotFound if no such operation is registered.
func (r *Registry) Retrieve(id string, version *semver.Version) (*Untyped, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id, version)
	if idx == -1 {
		return nil, fmt.Errorf("operation %s v%s: %w", id, version, ErrOperationNotFound)
	}

	return r.ops[idx], nil
}

// indexOf returns the index of the operation with the provided ID and
// version, or -1 if no such operation exists.
func (r *Registry) indexOf(id string, version *semver.Version) int {
	for i, op := range r.ops {
		if op.def.ID == id && op.def.Version.Equal(version) {
			return i
		}
	}

	return -1
}

// RegisterOperation registers typed operations in the registry.
// To register operations with different context, params or output types,
// call RegisterOperation multiple times with different type parameters.
func RegisterOperation[C, P, O any](r *Registry, ops ...*Operation[C, P, O]) {
	for _, o := range ops {
		r.Register(o.AsUntyped())
	}
}
