// Package workflow provides a small graph executor for stateful pipelines.
// A graph is a set of named nodes connected by unconditional edges and
// labeled conditional branches. Execution threads a state value through the
// nodes and can suspend at declared interrupt points, to be resumed later by
// the caller.
package workflow

import (
	"context"
	"fmt"
)

// NodeFunc transforms the state at one node.
type NodeFunc[S any] func(context.Context, S) S

// BranchFunc picks the label of the outgoing branch to follow.
type BranchFunc[S any] func(S) string

type branch[S any] struct {
	decide  BranchFunc[S]
	targets map[string]string
}

// Engine executes a node graph over a state of type S. Build the graph with
// AddNode, AddEdge, AddBranch and AddInterrupt, then call Validate once
// before running. An Engine is immutable during Run and safe for repeated
// invocations; the state itself is the caller's to protect.
type Engine[S any] struct {
	nodes      map[string]NodeFunc[S]
	edges      map[string]string
	branches   map[string]branch[S]
	interrupts map[string]bool
	entry      string

	// onTransition observes every edge taken, for tracing.
	onTransition func(from, to string)
}

// New creates an empty engine.
func New[S any]() *Engine[S] {
	return &Engine[S]{
		nodes:      make(map[string]NodeFunc[S]),
		edges:      make(map[string]string),
		branches:   make(map[string]branch[S]),
		interrupts: make(map[string]bool),
	}
}

// AddNode registers a named node.
func (e *Engine[S]) AddNode(name string, fn NodeFunc[S]) *Engine[S] {
	e.nodes[name] = fn
	return e
}

// SetEntry names the node execution starts from.
func (e *Engine[S]) SetEntry(name string) *Engine[S] {
	e.entry = name
	return e
}

// AddEdge connects from to to unconditionally. A node without an outgoing
// edge or branch is terminal.
func (e *Engine[S]) AddEdge(from, to string) *Engine[S] {
	e.edges[from] = to
	return e
}

// AddBranch connects from to one of targets, chosen by decide's label.
func (e *Engine[S]) AddBranch(from string, decide BranchFunc[S], targets map[string]string) *Engine[S] {
	e.branches[from] = branch[S]{decide: decide, targets: targets}
	return e
}

// AddInterrupt declares a suspension point. Execution stops just before an
// interrupt node and returns it as the resume point; resuming from that node
// runs it.
func (e *Engine[S]) AddInterrupt(name string) *Engine[S] {
	e.interrupts[name] = true
	return e
}

// OnTransition sets a hook observing every transition taken.
func (e *Engine[S]) OnTransition(fn func(from, to string)) *Engine[S] {
	e.onTransition = fn
	return e
}

// Validate checks the graph for dangling references. Call it once after
// building.
func (e *Engine[S]) Validate() error {
	if e.entry == "" {
		return fmt.Errorf("workflow: no entry node set")
	}
	if _, ok := e.nodes[e.entry]; !ok {
		return fmt.Errorf("workflow: entry node %q not registered", e.entry)
	}
	for from, to := range e.edges {
		if _, ok := e.nodes[from]; !ok {
			return fmt.Errorf("workflow: edge from unknown node %q", from)
		}
		if _, ok := e.nodes[to]; !ok {
			return fmt.Errorf("workflow: edge from %q to unknown node %q", from, to)
		}
		if _, ok := e.branches[from]; ok {
			return fmt.Errorf("workflow: node %q has both an edge and a branch", from)
		}
	}
	for from, br := range e.branches {
		if _, ok := e.nodes[from]; !ok {
			return fmt.Errorf("workflow: branch from unknown node %q", from)
		}
		if len(br.targets) == 0 {
			return fmt.Errorf("workflow: branch from %q has no targets", from)
		}
		for label, to := range br.targets {
			if _, ok := e.nodes[to]; !ok {
				return fmt.Errorf("workflow: branch %q label %q points to unknown node %q", from, label, to)
			}
		}
	}
	for name := range e.interrupts {
		if _, ok := e.nodes[name]; !ok {
			return fmt.Errorf("workflow: interrupt on unknown node %q", name)
		}
	}
	return nil
}

// Run executes the graph from the entry node. It returns the resulting
// state and the resume point: the name of the interrupt node execution
// stopped before, or "" when a terminal node finished.
func (e *Engine[S]) Run(ctx context.Context, state S) (S, string, error) {
	return e.run(ctx, state, e.entry)
}

// Resume continues a suspended execution by running the given interrupt
// node and everything after it.
func (e *Engine[S]) Resume(ctx context.Context, state S, from string) (S, string, error) {
	if _, ok := e.nodes[from]; !ok {
		return state, "", fmt.Errorf("workflow: cannot resume at unknown node %q", from)
	}
	return e.run(ctx, state, from)
}

func (e *Engine[S]) run(ctx context.Context, state S, start string) (S, string, error) {
	cur := start
	ran := make(map[string]bool)

	for {
		if err := ctx.Err(); err != nil {
			return state, cur, err
		}

		fn, ok := e.nodes[cur]
		if !ok {
			return state, "", fmt.Errorf("workflow: unknown node %q", cur)
		}
		// A node may run at most once per invocation. Loops in the
		// graph must pass through an interrupt.
		if ran[cur] {
			return state, "", fmt.Errorf("workflow: node %q visited twice in one invocation", cur)
		}
		ran[cur] = true

		state = fn(ctx, state)

		next, err := e.next(cur, state)
		if err != nil {
			return state, "", err
		}
		if next == "" {
			return state, "", nil
		}
		if e.onTransition != nil {
			e.onTransition(cur, next)
		}
		if e.interrupts[next] {
			return state, next, nil
		}
		cur = next
	}
}

func (e *Engine[S]) next(cur string, state S) (string, error) {
	if to, ok := e.edges[cur]; ok {
		return to, nil
	}
	br, ok := e.branches[cur]
	if !ok {
		return "", nil
	}
	label := br.decide(state)
	to, ok := br.targets[label]
	if !ok {
		return "", fmt.Errorf("workflow: branch from %q returned unknown label %q", cur, label)
	}
	return to, nil
}
