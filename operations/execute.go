package operations

// ExecuteOperation invokes an operation against ctx with the given params and
// returns the handler's output or error verbatim. The framework never
// inspects, wraps, translates or suppresses what the handler returns; the
// error taxonomy belongs entirely to the operation.
//
// ctx must be non-nil and must not be shared with another invocation for the
// duration of the call. The framework takes no lock around ctx; callers that
// share one context across goroutines must provide their own mutual
// exclusion before invoking.
//
// If the handler fails after mutating ctx, the mutation persists. There is no
// snapshot and no rollback.
func ExecuteOperation[C, P, O any](op *Operation[C, P, O], ctx *C, params P) (O, error) {
	return op.execute(ctx, params)
}

// Execute is the method form of ExecuteOperation, available on every
// operation. It delegates to the same handler path and is observably
// equivalent to the free function for all inputs: same output, same error,
// same context mutation.
func (o *Operation[C, P, O]) Execute(ctx *C, params P) (O, error) {
	return o.execute(ctx, params)
}
