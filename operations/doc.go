/*
Package operations provides a generic operation-invocation framework:
independent operation strategies run against a caller-supplied mutable
context using immutable params, and return a typed output or an
operation-specific error.

It targets library authors who need many operation families to share one
resource, such as a connection pool, a cache or a set of counters, without
re-deriving invocation plumbing per family.

# Invocation Model

An operation is generic over three types: the context C it mutates, the
params P it reads, and the output O it produces. A context is exclusively
accessible to one invocation at a time; the framework takes no lock around
it, so callers that share a context across goroutines must bring their own
mutual exclusion. Params are passed by value and treated as immutable.
Errors pass through every layer verbatim: nothing here wraps, translates or
suppresses what a handler returns.

# Core Components

Operation:
  - Defines a single capability with typed context, params and output
  - Carries identity metadata (ID, semver version, description)
  - Holds no state of its own; all state lives in the context

Invocation forms:
  - ExecuteOperation is the direct form
  - Operation.Execute is the method form, pure delegation to the same path
  - Dispatch runs an operation against the context held by an Executor

Executor:
  - Takes ownership of one context and sequences dispatches against it
  - Optionally logs, journals and measures each dispatch
  - Release moves the context back out and poisons the executor

Registry:
  - Stores type-erased operations and retrieves them by ID and version
  - Typed recovers the original typed form behind an Untyped

Journal:
  - Records one entry per executor dispatch for audit and debugging
  - Observation only; appending never alters a dispatch result

# Basic Usage

	// Define an operation against a caller-supplied context type.
	op := operations.NewOperation(
		"bump", semver.MustParse("1.0.0"), "Adds an amount to the counter",
		func(ctx *Counter, amount int) (int, error) {
			ctx.Total += amount
			return ctx.Total, nil
		},
	)

	// Invoke directly, or through the method form.
	total, err := operations.ExecuteOperation(op, &counter, 2)
	total, err = op.Execute(&counter, 3)

	// Or hold the context in an executor and dispatch against it.
	e := operations.NewExecutor(counter)
	total, err = operations.Dispatch(e, op, 5)
	counter, err = e.Release()
*/
package operations
