// Package dag runs a directed acyclic graph of named computation stages.
// Stages declare their upstream dependencies and a materialization policy;
// the runner executes every stage whose upstreams completed, independent
// stages in parallel, and isolates failures to the failed stage and its
// downstream closure.
package dag

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// Materialization is the rebuild policy a stage declares for its output.
type Materialization string

const (
	// FullRebuild replaces the derived set on every run.
	FullRebuild Materialization = "full_rebuild"
	// IncrementalAppend upserts above a natural-key watermark.
	IncrementalAppend Materialization = "incremental_append"
)

// Stage is one pure transformation over already-materialized inputs.
type Stage struct {
	Name            string
	Upstream        []string
	Materialization Materialization
	Run             func(ctx context.Context) error
}

// Status of a stage after a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// StageResult reports one stage outcome.
type StageResult struct {
	Name     string
	Status   Status
	Err      error
	Duration time.Duration
}

// Result reports a whole run. Failed is true when any stage failed; skipped
// stages are downstream of a failure, not failures themselves.
type Result struct {
	Stages []StageResult
}

func (r Result) Failed() bool {
	for _, s := range r.Stages {
		if s.Status == StatusFailed {
			return true
		}
	}
	return false
}

func (r Result) Get(name string) (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return StageResult{}, false
}

// Graph is a set of stages wired by upstream names.
type Graph struct {
	stages map[string]Stage
	order  []string
}

func NewGraph() *Graph {
	return &Graph{stages: make(map[string]Stage)}
}

// Add registers a stage. Names must be unique and upstreams must refer to
// already-addable stages by the time Run is called.
func (g *Graph) Add(stage Stage) error {
	if stage.Name == "" {
		return fmt.Errorf("stage name is required")
	}
	if stage.Run == nil {
		return fmt.Errorf("stage %s has no run func", stage.Name)
	}
	if _, exists := g.stages[stage.Name]; exists {
		return fmt.Errorf("duplicate stage %s", stage.Name)
	}
	if stage.Materialization == "" {
		stage.Materialization = FullRebuild
	}

	g.stages[stage.Name] = stage
	g.order = append(g.order, stage.Name)

	return nil
}

// StageNames returns registered stage names in registration order.
func (g *Graph) StageNames() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

func (g *Graph) validate() error {
	for _, stage := range g.stages {
		for _, up := range stage.Upstream {
			if _, ok := g.stages[up]; !ok {
				return fmt.Errorf("stage %s depends on unknown stage %s", stage.Name, up)
			}
		}
	}
	if _, err := g.topoWaves(); err != nil {
		return err
	}

	return nil
}

// topoWaves layers the graph into execution waves: every stage in a wave has
// all upstreams in earlier waves. Wave membership is sorted by name so the
// schedule is deterministic.
func (g *Graph) topoWaves() ([][]string, error) {
	remaining := make(map[string][]string, len(g.stages))
	for name, stage := range g.stages {
		remaining[name] = append([]string(nil), stage.Upstream...)
	}

	done := make(map[string]bool, len(g.stages))
	var waves [][]string
	for len(done) < len(g.stages) {
		var wave []string
		for name, ups := range remaining {
			if done[name] {
				continue
			}
			ready := true
			for _, up := range ups {
				if !done[up] {
					ready = false
					break
				}
			}
			if ready {
				wave = append(wave, name)
			}
		}
		if len(wave) == 0 {
			return nil, fmt.Errorf("dependency cycle among stages")
		}
		sort.Strings(wave)
		for _, name := range wave {
			done[name] = true
		}
		waves = append(waves, wave)
	}

	return waves, nil
}

// Run executes the graph. A stage runs only when every upstream succeeded;
// otherwise it is skipped. Failures never cancel unrelated branches.
func (g *Graph) Run(ctx context.Context) (Result, error) {
	if err := g.validate(); err != nil {
		return Result{}, err
	}

	waves, err := g.topoWaves()
	if err != nil {
		return Result{}, err
	}

	var mu sync.Mutex
	statuses := make(map[string]Status, len(g.stages))
	results := make(map[string]StageResult, len(g.stages))

	for _, wave := range waves {
		p := pool.New().WithContext(ctx)
		for _, name := range wave {
			stage := g.stages[name]
			p.Go(func(ctx context.Context) error {
				mu.Lock()
				blocked := ""
				for _, up := range stage.Upstream {
					if statuses[up] != StatusSucceeded {
						blocked = up
						break
					}
				}
				mu.Unlock()

				if blocked != "" {
					mu.Lock()
					statuses[stage.Name] = StatusSkipped
					results[stage.Name] = StageResult{
						Name:   stage.Name,
						Status: StatusSkipped,
						Err:    fmt.Errorf("upstream %s did not succeed", blocked),
					}
					mu.Unlock()
					return nil
				}

				start := time.Now()
				runErr := stage.Run(ctx)
				elapsed := time.Since(start)

				mu.Lock()
				defer mu.Unlock()
				if runErr != nil {
					statuses[stage.Name] = StatusFailed
					results[stage.Name] = StageResult{
						Name:     stage.Name,
						Status:   StatusFailed,
						Err:      runErr,
						Duration: elapsed,
					}
					return nil
				}
				statuses[stage.Name] = StatusSucceeded
				results[stage.Name] = StageResult{
					Name:     stage.Name,
					Status:   StatusSucceeded,
					Duration: elapsed,
				}
				return nil
			})
		}
		if waitErr := p.Wait(); waitErr != nil {
			return Result{}, waitErr
		}
	}

	out := Result{Stages: make([]StageResult, 0, len(g.order))}
	for _, name := range g.order {
		out.Stages = append(out.Stages, results[name])
	}

	return out, nil
}
