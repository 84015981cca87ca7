// Package batch drives snapshot generation across every role in the
// repository. The index is built exactly once and shared read-only across a
// bounded pool of workers; one role's failure never stops its siblings.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rolegraph-dev/rolegraph/internal/depindex"
	"github.com/rolegraph-dev/rolegraph/internal/graph"
	"github.com/rolegraph-dev/rolegraph/internal/output"
	"github.com/rolegraph-dev/rolegraph/internal/role"
)

// Options configures one batch run.
type Options struct {
	RolesDir  string
	ShadowDir string
	Format    output.Format
	Preview   bool
	MaxDepth  int
	DocsBase  string
	// Workers bounds the pool size; <= 0 selects GOMAXPROCS.
	Workers int
}

// RoleResult records one role's outcome.
type RoleResult struct {
	Role string
	Path string
	Err  error
}

// Report aggregates per-role outcomes of one run, sorted by role name.
type Report struct {
	Results  []RoleResult
	Duration time.Duration
}

// Failed returns the results that carry an error.
func (r *Report) Failed() []RoleResult {
	out := make([]RoleResult, 0)
	for _, result := range r.Results {
		if result.Err != nil {
			out = append(out, result)
		}
	}
	return out
}

// RunAll discovers every role, builds the shared index once, and generates
// and persists each role's twelve-variant bundle on the worker pool. The
// returned error covers fatal conditions only (missing or empty roles root);
// individual role failures land in the report.
func RunAll(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()

	roles, err := role.Discover(opts.RolesDir)
	if err != nil {
		return nil, err
	}

	ix := depindex.Build(roles)

	writer := &output.Writer{
		RolesDir:  opts.RolesDir,
		ShadowDir: opts.ShadowDir,
		Format:    opts.Format,
		Preview:   opts.Preview,
		DocsBase:  opts.DocsBase,
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var mu sync.Mutex
	results := make([]RoleResult, 0, len(roles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, r := range roles {
		r := r
		g.Go(func() error {
			result := processRole(ctx, ix, writer, r.Name, opts.MaxDepth)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; failures are per-role results.
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Role < results[j].Role })
	return &Report{Results: results, Duration: time.Since(start)}, nil
}

// processRole builds and persists one role's bundle, converting any failure
// (including panics from a corrupted variant path) into a RoleResult error.
func processRole(ctx context.Context, ix *depindex.Index, writer *output.Writer, roleName string, maxDepth int) (result RoleResult) {
	result.Role = roleName
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("role %s: %v", roleName, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	bundle := graph.BuildBundle(ix, roleName, maxDepth)
	path, err := writer.Write(roleName, bundle)
	if err != nil {
		result.Err = err
		slog.Debug("role snapshot failed", "role", roleName, "error", err)
		return result
	}
	result.Path = path
	return result
}
