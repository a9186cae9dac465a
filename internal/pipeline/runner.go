package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Command is a fully resolved subprocess invocation.
type Command struct {
	Path string
	Args []string
	Dir  string
	// Env is the complete child environment; nil inherits the parent's.
	Env []string
}

// Line returns the program followed by its arguments.
func (command Command) Line() []string {
	return append([]string{command.Path}, command.Args...)
}

// ProcessRunner spawns one process and waits for it to exit.
//
// Run returns a *StartError when the process could not be started and the
// context error when the context ended first. A process that ran and exited
// non-zero is not an error: the outcome reports it.
// onStderrLine, when non-nil, receives every complete stderr line while the
// process runs, in addition to the full capture in the outcome.
type ProcessRunner interface {
	Run(ctx context.Context, command Command, onStderrLine func(line []byte)) (ProcessOutcome, error)
}

// StartError reports a process that never started.
type StartError struct {
	Path  string
	Cause error
}

func (e *StartError) Error() string { return fmt.Sprintf("start %s: %v", e.Path, e.Cause) }
func (e *StartError) Unwrap() error { return e.Cause }

// OSProcessRunner implements ProcessRunner with os/exec.
type OSProcessRunner struct {
	// WaitDelay bounds how long Wait keeps reading output after the process
	// exited or was killed, so orphaned grandchildren holding the pipes cannot
	// block.
	WaitDelay time.Duration
}

func (runner OSProcessRunner) Run(ctx context.Context, command Command, onStderrLine func(line []byte)) (ProcessOutcome, error) {
	cmd := exec.CommandContext(ctx, command.Path, command.Args...)
	cmd.Dir = command.Dir
	cmd.Env = command.Env
	cmd.Stdin = nil
	cmd.WaitDelay = runner.WaitDelay

	var stdout bytes.Buffer
	stderr := newLineSplitter(onStderrLine)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return ProcessOutcome{}, &StartError{Path: command.Path, Cause: err}
	}

	waitErr := cmd.Wait()
	stderr.Flush()
	exitedZero := cmd.ProcessState != nil && cmd.ProcessState.Success()
	outcome := ProcessOutcome{
		ExitSuccess: exitedZero,
		ExitCode:    cmd.ProcessState.ExitCode(),
		Stdout:      stdout.Bytes(),
		Stderr:      stderr.Bytes(),
	}

	// A clean exit stands even if the context ended afterwards or a leftover
	// grandchild kept the pipes open past WaitDelay.
	if exitedZero && (waitErr == nil || errors.Is(waitErr, exec.ErrWaitDelay)) {
		return outcome, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return outcome, ctxErr
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return outcome, nil
		}
		return outcome, waitErr
	}
	return outcome, nil
}

// lineSplitter captures a stream verbatim and reports each complete line.
// exec writes to it from a single goroutine.
type lineSplitter struct {
	captured bytes.Buffer
	pending  []byte
	onLine   func(line []byte)
}

func newLineSplitter(onLine func(line []byte)) *lineSplitter {
	return &lineSplitter{onLine: onLine}
}

func (splitter *lineSplitter) Write(p []byte) (int, error) {
	splitter.captured.Write(p)
	if splitter.onLine == nil {
		return len(p), nil
	}
	splitter.pending = append(splitter.pending, p...)
	for {
		newline := bytes.IndexByte(splitter.pending, '\n')
		if newline < 0 {
			break
		}
		line := bytes.TrimRight(splitter.pending[:newline], "\r")
		splitter.onLine(append([]byte(nil), line...))
		splitter.pending = splitter.pending[newline+1:]
	}
	return len(p), nil
}

// Flush reports a trailing line that had no newline.
func (splitter *lineSplitter) Flush() {
	if splitter.onLine != nil && len(splitter.pending) > 0 {
		splitter.onLine(append([]byte(nil), splitter.pending...))
	}
	splitter.pending = nil
}

func (splitter *lineSplitter) Bytes() []byte { return splitter.captured.Bytes() }
