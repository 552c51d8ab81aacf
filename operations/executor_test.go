package operations

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/opkit/opkit/pkg/logger"
)

func Test_NewExecutor(t *testing.T) {
	t.Parallel()

	e := NewExecutor(tally{Total: 5})

	require.NotNil(t, e.Context())
	assert.Equal(t, 5, e.Context().Total)
	assert.False(t, e.Released())

	// manual mutation between dispatches goes through Context
	e.Context().Total = 6
	assert.Equal(t, 6, e.Context().Total)
}

func Test_Dispatch(t *testing.T) {
	t.Parallel()

	log, observedLog := logger.TestObserved(t, zapcore.InfoLevel)
	op := bumpOp()
	e := NewExecutor(tally{}, WithLogger(log))

	out, err := Dispatch(e, op, bumpParams{By: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, out)
	assert.Equal(t, 2, e.Context().Total)

	out, err = Dispatch(e, op, bumpParams{By: 5})
	require.NoError(t, err)
	assert.Equal(t, 7, out)
	assert.Equal(t, 7, e.Context().Total)
	assert.Equal(t, []int{2, 5}, e.Context().History)

	require.Equal(t, 2, observedLog.Len())
	entry := observedLog.All()[0]
	assert.Equal(t, "Executing operation", entry.Message)
	assert.Equal(t, "bump", entry.ContextMap()["id"])
	assert.Equal(t, "1.0.0", entry.ContextMap()["version"])
	assert.Equal(t, "adds an amount to the running total", entry.ContextMap()["description"])
}

func Test_Dispatch_ErrorPassThrough(t *testing.T) {
	t.Parallel()

	log, observedLog := logger.TestObserved(t, zapcore.ErrorLevel)
	op := bumpOp()
	e := NewExecutor(tally{Total: 3}, WithLogger(log))

	out, err := Dispatch(e, op, bumpParams{By: -1})
	require.Error(t, err)
	// the handler error comes back untouched, not wrapped
	assert.Same(t, errNonPositive, err)
	assert.Zero(t, out)
	assert.Equal(t, 3, e.Context().Total)

	require.Equal(t, 1, observedLog.Len())
	entry := observedLog.All()[0]
	assert.Equal(t, "Operation failed", entry.Message)
	assert.Equal(t, "bump", entry.ContextMap()["id"])
}

func Test_Dispatch_PartialMutationPersists(t *testing.T) {
	t.Parallel()

	errMidway := errors.New("midway failure")
	op := NewOperation("half", semver.MustParse("1.0.0"), "mutates then fails",
		func(ctx *tally, _ EmptyParams) (int, error) {
			ctx.Total++
			return 0, errMidway
		})

	e := NewExecutor(tally{})

	_, err := Dispatch(e, op, EmptyParams{})
	require.ErrorIs(t, err, errMidway)
	assert.Equal(t, 1, e.Context().Total, "mutation made before the failure stays")
}

func Test_Dispatch_EquivalentToDirectForm(t *testing.T) {
	t.Parallel()

	op := bumpOp()
	start := tally{Total: 10}

	directCtx := start
	directOut, directErr := ExecuteOperation(op, &directCtx, bumpParams{By: 7})

	e := NewExecutor(start)
	dispatchOut, dispatchErr := Dispatch(e, op, bumpParams{By: 7})

	assert.Equal(t, directOut, dispatchOut)
	assert.Equal(t, directErr, dispatchErr)
	assert.Empty(t, cmp.Diff(directCtx, *e.Context()))
}

func Test_Executor_Release(t *testing.T) {
	t.Parallel()

	op := bumpOp()
	e := NewExecutor(tally{})

	_, err := Dispatch(e, op, bumpParams{By: 2})
	require.NoError(t, err)

	ctx, err := e.Release()
	require.NoError(t, err)
	assert.Equal(t, 2, ctx.Total)
	assert.True(t, e.Released())
	assert.Nil(t, e.Context())

	// the executor is poisoned from here on
	_, err = Dispatch(e, op, bumpParams{By: 2})
	require.ErrorIs(t, err, ErrExecutorReleased)

	_, err = e.Release()
	require.ErrorIs(t, err, ErrExecutorReleased)

	// the released value is unaffected by the rejected dispatch
	assert.Equal(t, 2, ctx.Total)
}

func Test_Dispatch_Journal(t *testing.T) {
	t.Parallel()

	journal := NewMemoryJournal()
	op := bumpOp()
	e := NewExecutor(tally{}, WithJournal(journal))

	_, err := Dispatch(e, op, bumpParams{By: 2})
	require.NoError(t, err)
	_, err = Dispatch(e, op, bumpParams{By: -1})
	require.Error(t, err)

	entries, err := journal.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, op.Def(), entries[0].Def)
	assert.Equal(t, bumpParams{By: 2}, entries[0].Params)
	assert.Equal(t, 2, entries[0].Output)
	assert.Nil(t, entries[0].Err)

	assert.Equal(t, bumpParams{By: -1}, entries[1].Params)
	require.NotNil(t, entries[1].Err)
	assert.Equal(t, errNonPositive.Error(), entries[1].Err.Message)
}

func Test_Dispatch_JournalError(t *testing.T) {
	t.Parallel()

	log, observedLog := logger.TestObserved(t, zapcore.ErrorLevel)
	appendErr := errors.New("append failed")
	journal := errorJournal{Journal: NewMemoryJournal(), AppendError: appendErr}

	op := bumpOp()
	e := NewExecutor(tally{}, WithLogger(log), WithJournal(journal))

	// the dispatch result is untouched by the journal failure
	out, err := Dispatch(e, op, bumpParams{By: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, out)
	assert.Equal(t, 2, e.Context().Total)

	require.Equal(t, 1, observedLog.Len())
	entry := observedLog.All()[0]
	assert.Equal(t, "Failed to append journal entry", entry.Message)
	assert.Equal(t, "bump", entry.ContextMap()["id"])
}

func Test_Dispatch_NilMeterProvider(t *testing.T) {
	t.Parallel()

	op := bumpOp()
	e := NewExecutor(tally{}, WithMeterProvider(nil))

	out, err := Dispatch(e, op, bumpParams{By: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, out)
}

func ExampleDispatch() {
	type counter struct{ Total int }

	add := NewOperation("add", semver.MustParse("1.0.0"), "Adds an amount to the running total",
		func(ctx *counter, amount int) (int, error) {
			ctx.Total += amount
			return ctx.Total, nil
		})

	e := NewExecutor(counter{})

	for _, amount := range []int{3, 4, 5} {
		total, err := Dispatch(e, add, amount)
		if err != nil {
			fmt.Println("dispatch failed:", err)
			continue
		}
		fmt.Println("total:", total)
	}

	final, err := e.Release()
	if err != nil {
		fmt.Println("release failed:", err)
		return
	}
	fmt.Println("released with total:", final.Total)

	// Output:
	// total: 3
	// total: 7
	// total: 12
	// released with total: 12
}

type errorJournal struct {
	Journal
	AppendError error
}

func (e errorJournal) Append(entry Entry) error {
	if e.AppendError != nil {
		return e.AppendError
	}

	return e.Journal.Append(entry)
}
