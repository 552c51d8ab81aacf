package operations

import (
	"github.com/Masterminds/semver/v3"
)

// Definition is the identity metadata for an operation.
// It contains the ID, version and description.
// Logs, journals and registries use it to name what ran; two operations
// represent the same capability if their definitions match.
type Definition struct {
	ID          string          `json:"id"`
	Version     *semver.Version `json:"version"`
	Description string          `json:"description"`
}

// OperationHandler is the function signature of an operation handler.
// ctx is the shared mutable resource the invocation runs against; it is
// exclusively accessible to the handler for the duration of the call.
// params is the immutable input describing this invocation's intent; it is
// passed by value and must not be mutated. Handlers must not retain ctx or
// params past the call boundary.
type OperationHandler[C, P, O any] func(ctx *C, params P) (output O, err error)

// Operation is the low level building block of the framework.
// Developers define their own operations with custom context, params and
// output types. An operation carries no state of its own; everything it reads
// and writes lives in the context it is invoked against, so a single
// operation value can be shared freely across call sites.
// Use NewOperation to create a new operation.
type Operation[C, P, O any] struct {
	def     Definition
	handler OperationHandler[C, P, O]
}

// ID returns the operation ID.
func (o *Operation[C, P, O]) ID() string {
	return o.def.ID
}

// Version returns the operation semver version in string.
func (o *Operation[C, P, O]) Version() string {
	return o.def.Version.String()
}

// Description returns the operation description.
func (o *Operation[C, P, O]) Description() string {
	return o.def.Description
}

// Def returns the operation definition.
func (o *Operation[C, P, O]) Def() Definition {
	return o.def
}

// execute runs the operation by calling the OperationHandler.
// Every public invocation form routes through here, which keeps the direct
// form, the method form and executor dispatch observably equivalent.
func (o *Operation[C, P, O]) execute(ctx *C, params P) (O, error) {
	return o.handler(ctx, params)
}

// NewOperation creates a new operation.
// Version can be created using semver.MustParse("1.0.0").
func NewOperation[C, P, O any](
	id string, version *semver.Version, description string, handler OperationHandler[C, P, O],
) *Operation[C, P, O] {
	return &Operation[C, P, O]{
		def: Definition{
			ID:          id,
			Version:     version,
			Description: description,
		},
		handler: handler,
	}
}

// EmptyParams is a placeholder for operations that do not require input.
type EmptyParams struct{}
