package projector

import (
	"context"
	"fmt"

	"github.com/oddessentials/repo-standards/pkg/standards"
	"golang.org/x/sync/errgroup"
)

// MasterArtifactName is the file name the unfiltered master is persisted under.
const MasterArtifactName = "standards.json"

// Target identifies one projection. An empty CI means the stack-wide view.
type Target struct {
	Stack string
	CI    string
}

// String returns "stack" or "stack/ci".
func (t Target) String() string {
	if t.CI == "" {
		return t.Stack
	}
	return t.Stack + "/" + t.CI
}

// ArtifactName returns the file name consumers expect for the projection:
// standards.<stack>.json or standards.<stack>.<ci>.json.
func (t Target) ArtifactName() string {
	if t.CI == "" {
		return fmt.Sprintf("standards.%s.json", t.Stack)
	}
	return fmt.Sprintf("standards.%s.%s.json", t.Stack, t.CI)
}

// Targets enumerates the projections of master: one per declared stack, in
// sorted order, followed (when includeCI is set) by one per (stack, CI system)
// pair with CI systems in declared order.
func Targets(master *standards.Master, includeCI bool) []Target {
	stacks := master.StackIDs()
	targets := make([]Target, 0, len(stacks)*(1+len(master.CISystems)))
	for _, s := range stacks {
		targets = append(targets, Target{Stack: s})
	}
	if !includeCI {
		return targets
	}
	for _, s := range stacks {
		for _, ci := range master.CISystems {
			targets = append(targets, Target{Stack: s, CI: ci})
		}
	}
	return targets
}

// Result is one computed projection.
type Result struct {
	Target    Target
	Projected *standards.Projected
}

// ProjectAll computes the projection of every target concurrently, at most
// concurrency at a time (unbounded when concurrency <= 0). Results are
// returned in target order regardless of scheduling.
func ProjectAll(ctx context.Context, master *standards.Master, targets []Target, concurrency int) ([]Result, error) {
	results := make([]Result, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, t := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := Project(master, t.Stack, t.CI)
			if err != nil {
				return fmt.Errorf("project %s: %w", t, err)
			}
			results[i] = Result{Target: t, Projected: p}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
