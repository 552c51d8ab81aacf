// Package optest provides utilities for operations testing.
package optest

import (
	"testing"

	"github.com/opkit/opkit/operations"
	"github.com/opkit/opkit/pkg/logger"
)

// NewExecutor creates an executor over ctx for testing, wired with a no-op
// logger and a fresh memory journal. The journal is returned for assertions
// on what was dispatched.
func NewExecutor[C any](t *testing.T, ctx C) (*operations.Executor[C], *operations.MemoryJournal) {
	t.Helper()

	journal := operations.NewMemoryJournal()
	e := operations.NewExecutor(
		ctx,
		operations.WithLogger(logger.Nop()),
		operations.WithJournal(journal),
	)

	return e, journal
}
