package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    []string
		wantErr string
	}{
		{
			name:  "single string",
			input: "ev1",
			want:  []string{"ev1"},
		},
		{
			name:  "array of strings",
			input: []any{"ev1", "ev2", "ev3"},
			want:  []string{"ev1", "ev2", "ev3"},
		},
		{
			name:  "string slice",
			input: []string{"ev1", "ev2"},
			want:  []string{"ev1", "ev2"},
		},
		{
			name:    "nil input",
			input:   nil,
			wantErr: "eventIds is required",
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: "eventIds cannot be empty",
		},
		{
			name:    "empty array",
			input:   []any{},
			wantErr: "eventIds cannot be empty",
		},
		{
			name:    "array with non-string",
			input:   []any{"ev1", 123},
			wantErr: "eventIds[1] must be a string",
		},
		{
			name:    "array with empty string",
			input:   []any{"ev1", ""},
			wantErr: "eventIds[1] cannot be empty",
		},
		{
			name:    "number",
			input:   42,
			wantErr: "must be a string or array of strings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.input, "eventIds")
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProcess(t *testing.T) {
	ids := []string{"ev1", "ev2", "ev3"}

	results := Process(context.Background(), ids, 0, func(_ context.Context, id string) (string, error) {
		if id == "ev2" {
			return "", errors.New("failed to delete ev2")
		}
		return "deleted " + id, nil
	})

	assert.Equal(t, []Result{
		{ID: "ev1", Status: StatusSuccess, Result: "deleted ev1"},
		{ID: "ev2", Status: StatusError, Error: "failed to delete ev2"},
		{ID: "ev3", Status: StatusSuccess, Result: "deleted ev3"},
	}, results)
}

func TestProcess_Limit(t *testing.T) {
	var inFlight, peak atomic.Int32
	ids := []string{"a", "b", "c", "d", "e", "f"}

	results := Process(context.Background(), ids, 2, func(_ context.Context, id string) (string, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return id, nil
	})

	require.Len(t, results, len(ids))
	for i, r := range results {
		assert.Equal(t, ids[i], r.ID)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Result{
		NewSuccessResult("ev1", "ok"),
		NewErrorResult("ev2", errors.New("boom")),
		NewSuccessResult("ev3", "ok"),
	})

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Successful)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, "boom", s.Results[1].Error)
	assert.Empty(t, s.Results[0].Error)
}
