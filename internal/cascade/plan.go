// Package cascade orders dependent mutations leaf-first.
//
// A Plan is a set of named steps, each declaring the steps that must run
// before it. Build sorts them topologically; ties are broken by declaration
// order so the resulting sequence is stable across runs.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateStep     = errors.New("cascade: duplicate step")
	ErrUnknownDependency = errors.New("cascade: unknown dependency")
	ErrCycle             = errors.New("cascade: dependency cycle")
)

// Step is one node of the plan. Run receives the state shared by every step of
// a single execution.
type Step[S any] struct {
	Name  string
	After []string
	Run   func(ctx context.Context, state S) error
}

type Plan[S any] struct {
	steps []Step[S]
}

// Build validates the steps and returns them in execution order.
func Build[S any](steps ...Step[S]) (*Plan[S], error) {
	index := make(map[string]int, len(steps))

	for i, step := range steps {
		if _, exists := index[step.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStep, step.Name)
		}
		index[step.Name] = i
	}

	indegree := make([]int, len(steps))
	dependents := make([][]int, len(steps))

	for i, step := range steps {
		for _, dep := range step.After {
			j, ok := index[dep]
			if !ok {
				return nil, fmt.Errorf("%w: %s needs %s", ErrUnknownDependency, step.Name, dep)
			}
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	ordered := make([]Step[S], 0, len(steps))
	done := make([]bool, len(steps))

	for len(ordered) < len(steps) {
		next := -1
		for i := range steps {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}

		if next == -1 {
			var pending []string
			for i, step := range steps {
				if !done[i] {
					pending = append(pending, step.Name)
				}
			}
			return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(pending, ", "))
		}

		done[next] = true
		ordered = append(ordered, steps[next])
		for _, dependent := range dependents[next] {
			indegree[dependent]--
		}
	}

	return &Plan[S]{steps: ordered}, nil
}

// MustBuild is Build for plans declared at package level.
func MustBuild[S any](steps ...Step[S]) *Plan[S] {
	plan, err := Build(steps...)
	if err != nil {
		panic(err)
	}
	return plan
}

func (p *Plan[S]) Names() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name
	}
	return names
}

// Execute runs the steps in order and stops at the first failure. The
// returned error names the failing step. afterStep, when non-nil, is invoked
// after every successful step and can abort the run.
func (p *Plan[S]) Execute(ctx context.Context, state S, afterStep func(name string) error) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := step.Run(ctx, state); err != nil {
			return fmt.Errorf("%s: %w", step.Name, err)
		}

		if afterStep != nil {
			if err := afterStep(step.Name); err != nil {
				return fmt.Errorf("%s: %w", step.Name, err)
			}
		}
	}

	return nil
}
