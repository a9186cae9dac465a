package pipeline

import (
	"fmt"
	"strings"
)

// Kind classifies why an invocation produced no result.
type Kind string

const (
	KindInvalidRequest   Kind = "invalid_request"
	KindSpawnFailure     Kind = "spawn_failure"
	KindExecutionFailure Kind = "execution_failure"
	KindDecodeFailure    Kind = "decode_failure"
	KindCancelled        Kind = "cancelled"
)

// Sentinels for errors.Is matching by kind.
var (
	ErrInvalidRequest   = &Error{Kind: KindInvalidRequest}
	ErrSpawnFailure     = &Error{Kind: KindSpawnFailure}
	ErrExecutionFailure = &Error{Kind: KindExecutionFailure}
	ErrDecodeFailure    = &Error{Kind: KindDecodeFailure}
	ErrCancelled        = &Error{Kind: KindCancelled}
)

const stderrExcerptLimit = 400

// Error is the single error channel of the invoker. Stdout and Stderr hold
// the exact bytes captured from the process, when one ran.
type Error struct {
	Kind       Kind
	Command    []string
	TargetPath string
	ExitCode   int
	Stdout     []byte
	Stderr     []byte
	Cause      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidRequest:
		return fmt.Sprintf("invalid pipeline request for %q: %v", e.TargetPath, e.Cause)
	case KindSpawnFailure:
		return fmt.Sprintf("start pipeline %s for %q: %v", e.program(), e.TargetPath, e.Cause)
	case KindExecutionFailure:
		message := fmt.Sprintf("pipeline %s for %q exited with status %d", e.program(), e.TargetPath, e.ExitCode)
		if e.Cause != nil {
			message = fmt.Sprintf("pipeline %s for %q failed: %v", e.program(), e.TargetPath, e.Cause)
		}
		if excerpt := excerpt(e.Stderr); excerpt != "" {
			message += ": " + excerpt
		}
		return message
	case KindDecodeFailure:
		return fmt.Sprintf("decode pipeline output for %q: %v", e.TargetPath, e.Cause)
	case KindCancelled:
		return fmt.Sprintf("pipeline for %q cancelled: %v", e.TargetPath, e.Cause)
	default:
		return fmt.Sprintf("pipeline %s: %v", e.Kind, e.Cause)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error with the same Kind, so errors.Is(err, ErrDecodeFailure) works.
func (e *Error) Is(target error) bool {
	targetErr, ok := target.(*Error)
	if !ok {
		return false
	}
	return targetErr.Kind == e.Kind
}

// CommandLine renders the attempted command for diagnostics.
func (e *Error) CommandLine() string {
	return strings.Join(e.Command, " ")
}

func (e *Error) program() string {
	if len(e.Command) == 0 {
		return "<unresolved>"
	}
	return e.Command[0]
}

func invalidRequest(request OperationRequest, cause error) *Error {
	return &Error{Kind: KindInvalidRequest, TargetPath: request.targetPath, Cause: cause}
}

func excerpt(stream []byte) string {
	trimmed := strings.TrimSpace(string(stream))
	if len(trimmed) <= stderrExcerptLimit {
		return trimmed
	}
	return trimmed[len(trimmed)-stderrExcerptLimit:]
}
