package opened

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/opened/internal/constants"
	openederrors "github.com/mrz1836/opened/internal/errors"
)

// Result is the answer for one path.
type Result struct {
	Path string
	Open bool
	Err  error
}

// Report checks every path and keeps going past failures. Results are in
// input order, one per path. Duplicates share one check.
//
// Use Files when the first failure should abort; use Report when every path
// needs its own answer, as a command listing results does.
func (c *Checker) Report(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	valid := make([]int, 0, len(paths))
	for idx, path := range paths {
		results[idx].Path = path
		if err := c.platform.validate(pathLabel(idx), path); err != nil {
			results[idx].Err = err
			continue
		}
		valid = append(valid, idx)
	}
	if len(valid) == 0 {
		return results
	}

	if c.Method() == constants.MethodLsof {
		c.reportList(ctx, results, valid)
	} else {
		c.reportProbe(ctx, results, valid)
	}
	return results
}

type answer struct {
	open bool
	err  error
}

// reportProbe probes each unique path once. Failures stay with their path.
func (c *Checker) reportProbe(ctx context.Context, results []Result, valid []int) {
	var (
		mu    sync.Mutex
		byKey = make(map[string]answer, len(valid))
		g     errgroup.Group
	)
	g.SetLimit(c.concurrency)

	for _, idx := range valid {
		key := c.platform.key(results[idx].Path)
		mu.Lock()
		_, seen := byKey[key]
		if !seen {
			byKey[key] = answer{}
		}
		mu.Unlock()
		if seen {
			continue
		}

		path := results[idx].Path
		g.Go(func() error {
			open, err := c.probe(ctx, path)
			mu.Lock()
			byKey[key] = answer{open: open, err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, idx := range valid {
		a := byKey[c.platform.key(results[idx].Path)]
		results[idx].Open, results[idx].Err = a.open, a.err
	}
}

// reportList asks lsof about all paths at once. When that fails for a reason
// tied to some path, such as a missing file, each path is asked about alone
// so the failure lands on the right one.
func (c *Checker) reportList(ctx context.Context, results []Result, valid []int) {
	paths := make([]string, len(valid))
	for i, idx := range valid {
		paths[i] = results[idx].Path
	}

	files, err := c.listOpen(ctx, paths)
	if err == nil {
		for _, idx := range valid {
			results[idx].Open = files[results[idx].Path]
		}
		return
	}

	if !errors.Is(err, openederrors.ErrFileNotFound) || len(valid) == 1 {
		for _, idx := range valid {
			results[idx].Err = err
		}
		return
	}

	for _, idx := range valid {
		path := results[idx].Path
		one, oneErr := c.listOpen(ctx, []string{path})
		results[idx].Open, results[idx].Err = one[path], oneErr
	}
}
