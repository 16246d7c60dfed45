// Package runnertest provides a scriptable runner.Runner for tests.
package runnertest

import (
	"context"
	"fmt"
	"sync"

	"ImgOSINT/pkg/runner"
)

// HandlerFunc answers one command.
type HandlerFunc func(ctx context.Context, cmd runner.Command) (runner.Result, error)

// Fake is a test double for runner.Runner. Commands are routed by executable
// name (Command.Name, or "sh" for Shell commands) to a handler; unknown names
// behave like a missing binary.
type Fake struct {
	mu       sync.Mutex
	handlers map[string]HandlerFunc
	missing  map[string]bool
	calls    []runner.Command
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{handlers: map[string]HandlerFunc{}, missing: map[string]bool{}}
}

// Handle registers h for the executable name.
func (f *Fake) Handle(name string, h HandlerFunc) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = h
	return f
}

// Respond registers a fixed result for the executable name.
func (f *Fake) Respond(name string, res runner.Result) *Fake {
	return f.Handle(name, func(context.Context, runner.Command) (runner.Result, error) {
		return res, nil
	})
}

// Missing makes LookPath and Run report name as unavailable even if handled.
func (f *Fake) Missing(name string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[name] = true
	return f
}

// Calls returns a copy of every command run so far.
func (f *Fake) Calls() []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]runner.Command(nil), f.calls...)
}

// CallsTo counts commands run with the given executable name.
func (f *Fake) CallsTo(name string) int {
	n := 0
	for _, c := range f.Calls() {
		if key(c) == name {
			n++
		}
	}
	return n
}

// Run implements runner.Runner.
func (f *Fake) Run(ctx context.Context, cmd runner.Command) (runner.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	name := key(cmd)
	h, ok := f.handlers[name]
	missing := f.missing[name]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return runner.Result{}, err
	}
	if !ok || missing {
		return runner.Result{}, fmt.Errorf("%s: %w", name, runner.ErrToolUnavailable)
	}
	return h(ctx, cmd)
}

// LookPath implements runner.Runner.
func (f *Fake) LookPath(file string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.handlers[file]; !ok || f.missing[file] {
		return "", fmt.Errorf("%s: %w", file, runner.ErrToolUnavailable)
	}
	return "/usr/bin/" + file, nil
}

func key(cmd runner.Command) string {
	if cmd.Shell != "" {
		return "sh"
	}
	return cmd.Name
}
