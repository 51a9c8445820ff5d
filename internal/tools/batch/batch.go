package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	// DefaultLimit bounds the operations in flight against the calendar
	// API per call.
	DefaultLimit = 4
)

// Result is the outcome for one ID.
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Summary aggregates the results of one batch.
type Summary struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseStringOrArray reads an argument that is either one ID or an array
// of IDs. Empty IDs are rejected.
func ParseStringOrArray(param any, paramName string) ([]string, error) {
	switch v := param.(type) {
	case nil:
		return nil, fmt.Errorf("%s is required", paramName)
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		return []string{v}, nil
	case []string:
		return checkIDs(v, paramName)
	case []any:
		ids := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			ids = append(ids, s)
		}
		return checkIDs(ids, paramName)
	}
	return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
}

func checkIDs(ids []string, paramName string) ([]string, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", paramName)
	}
	for i, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
		}
	}
	return ids, nil
}

// Process runs fn for every ID with at most limit calls in flight and
// returns the results in the order of ids. A limit below 1 means
// DefaultLimit.
func Process(ctx context.Context, ids []string, limit int, fn func(ctx context.Context, id string) (string, error)) []Result {
	if limit < 1 {
		limit = DefaultLimit
	}
	results := make([]Result, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			res, err := fn(gctx, id)
			if err != nil {
				results[i] = NewErrorResult(id, err)
			} else {
				results[i] = NewSuccessResult(id, res)
			}
			// Per-ID failures are reported, never returned, so one
			// failure does not cancel the rest.
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Summarize counts the results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results), Results: results}
	for _, r := range results {
		if r.Status == StatusSuccess {
			s.Successful++
		} else {
			s.Failed++
		}
	}
	return s
}

func NewSuccessResult(id, message string) Result {
	return Result{ID: id, Status: StatusSuccess, Result: message}
}

func NewErrorResult(id string, err error) Result {
	return Result{ID: id, Status: StatusError, Error: err.Error()}
}
