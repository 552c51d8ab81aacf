package operations

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ExecuteOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		start      tally
		params     bumpParams
		wantOutput int
		wantTotal  int
		wantErr    error
	}{
		{
			name:       "mutates an empty context",
			params:     bumpParams{By: 2},
			wantOutput: 2,
			wantTotal:  2,
		},
		{
			name:       "builds on prior context state",
			start:      tally{Total: 40},
			params:     bumpParams{By: 2},
			wantOutput: 42,
			wantTotal:  42,
		},
		{
			name:      "rejected params leave the context unmutated",
			start:     tally{Total: 9},
			params:    bumpParams{By: 0},
			wantErr:   errNonPositive,
			wantTotal: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			op := bumpOp()
			ctx := tt.start

			out, err := ExecuteOperation(op, &ctx, tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Same(t, tt.wantErr, err)
				assert.Zero(t, out)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOutput, out)
			}
			assert.Equal(t, tt.wantTotal, ctx.Total)
		})
	}
}

func Test_ExecuteOperation_AdapterEquivalence(t *testing.T) {
	t.Parallel()

	op := bumpOp()

	tests := []struct {
		name   string
		start  tally
		params bumpParams
	}{
		{name: "success", start: tally{Total: 1}, params: bumpParams{By: 4}},
		{name: "failure", start: tally{Total: 1}, params: bumpParams{By: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			directCtx := tt.start
			methodCtx := tt.start

			directOut, directErr := ExecuteOperation(op, &directCtx, tt.params)
			methodOut, methodErr := op.Execute(&methodCtx, tt.params)

			assert.Equal(t, directOut, methodOut)
			assert.Equal(t, directErr, methodErr)
			assert.Empty(t, cmp.Diff(directCtx, methodCtx))
		})
	}
}
