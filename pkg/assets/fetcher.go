package assets

import (
	"context"
	"strings"
)

// Result is what a fetcher reports for one copy. Stderr carries the tool's
// diagnostic text, which Classify inspects.
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// Fetcher copies one remote asset into a local directory.
type Fetcher interface {
	Fetch(ctx context.Context, url, destDir string) Result
}

// FailureKind distinguishes why a retrieval failed.
type FailureKind int

const (
	FailureNone FailureKind = iota
	// FailureAccessDenied means the run environment lacks credentials.
	FailureAccessDenied
	// FailureCommand means the copy itself failed, usually a malformed URL.
	FailureCommand
)

func (k FailureKind) String() string {
	switch k {
	case FailureAccessDenied:
		return "access denied"
	case FailureCommand:
		return "command failure"
	default:
		return "ok"
	}
}

// Classify inspects a fetch result. Access-denied markers take precedence
// over generic command failures.
func Classify(r Result) FailureKind {
	lower := strings.ToLower(r.Stderr)
	switch {
	case strings.Contains(r.Stderr, "AccessDeniedException"), strings.Contains(lower, "access denied"):
		return FailureAccessDenied
	case strings.Contains(r.Stderr, "CommandException"), strings.Contains(lower, "command error"), r.Err != nil:
		return FailureCommand
	}
	return FailureNone
}

// Summary returns the first non-empty diagnostic line of a failed result.
func (r Result) Summary() string {
	for _, line := range strings.Split(r.Stderr, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return ""
}
