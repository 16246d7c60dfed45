// Package runner executes external forensic tools and captures their output.
//
// A non-zero exit status is a normal result, not an error: scanners and
// extractors report "nothing found" or "wrong passphrase" that way. Errors are
// reserved for the runner itself failing (binary missing, timeout, cancel).
package runner

import (
	"context"
	"errors"
	"time"
)

// DefaultMaxOutput caps how much of each stream is retained.
const DefaultMaxOutput = 1 << 20

var (
	// ErrToolUnavailable is returned (wrapped) when the executable cannot be
	// located or spawned.
	ErrToolUnavailable = errors.New("tool unavailable")

	// ErrTimeout is returned when Command.Timeout elapses before exit.
	ErrTimeout = errors.New("command timed out")
)

// Command describes one invocation. Exactly one of Name or Shell is used:
// Shell, when set, is run through the platform shell and Name/Args are ignored.
type Command struct {
	Name string
	Args []string

	// Shell is a pre-built command line for cases that need piping.
	Shell string

	// Timeout bounds the invocation. Zero means no limit beyond ctx.
	Timeout time.Duration

	// MaxOutput caps each captured stream in bytes. Zero means DefaultMaxOutput.
	MaxOutput int
}

// Result holds the outcome of a command that ran to completion.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration

	// Truncated is set when either stream exceeded MaxOutput.
	Truncated bool
}

// Runner runs external commands.
type Runner interface {
	// Run executes cmd and waits for it. A non-zero exit is reported through
	// Result.ExitCode with a nil error.
	Run(ctx context.Context, cmd Command) (Result, error)

	// LookPath reports where an executable lives, or an error wrapping
	// ErrToolUnavailable.
	LookPath(file string) (string, error)
}
