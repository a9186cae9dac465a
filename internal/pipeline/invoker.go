package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
)

var (
	errEmptyOutput    = errors.New("pipeline wrote no output")
	errTrailingOutput = errors.New("pipeline wrote data after the JSON document")
)

// childEnvironment keeps stderr line-buffered and UTF-8 so progress frames
// arrive while the pipeline runs.
var childEnvironment = []string{"PYTHONUNBUFFERED=1", "PYTHONIOENCODING=utf-8"}

// Invoker turns one OperationRequest into one pipeline subprocess and
// classifies what came back. It holds no per-call state and is safe for
// concurrent use.
type Invoker struct {
	locations      Locations
	runner         ProcessRunner
	logger         *zap.Logger
	progressPrefix string
	timeout        time.Duration
}

// Option customizes an Invoker.
type Option func(*Invoker)

// WithRunner replaces the os/exec runner, mainly for tests.
func WithRunner(runner ProcessRunner) Option {
	return func(invoker *Invoker) {
		if runner != nil {
			invoker.runner = runner
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(invoker *Invoker) {
		if logger != nil {
			invoker.logger = logger
		}
	}
}

// WithTimeout bounds every invocation; zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(invoker *Invoker) { invoker.timeout = timeout }
}

func WithProgressPrefix(prefix string) Option {
	return func(invoker *Invoker) {
		if prefix != "" {
			invoker.progressPrefix = prefix
		}
	}
}

// NewInvoker builds an Invoker for the pipeline found at locations.
func NewInvoker(locations Locations, options ...Option) *Invoker {
	invoker := &Invoker{
		locations:      locations,
		runner:         OSProcessRunner{},
		logger:         zap.NewNop(),
		progressPrefix: DefaultProgressPrefix,
	}
	for _, option := range options {
		option(invoker)
	}
	return invoker
}

// Locations reports where the invoker looks for the pipeline.
func (invoker *Invoker) Locations() Locations { return invoker.locations }

// Invoke runs the pipeline once for request and waits for it. Progress frames
// written by the pipeline are ignored.
func (invoker *Invoker) Invoke(ctx context.Context, request OperationRequest) (Result, error) {
	return invoker.invoke(ctx, request, nil)
}

// InvokeWithProgress behaves like Invoke and additionally relays every
// progress frame to onProgress before returning. Frames are only relayed for
// ModeExecuteWithProgress requests.
func (invoker *Invoker) InvokeWithProgress(ctx context.Context, request OperationRequest, onProgress ProgressFunc) (Result, error) {
	return invoker.invoke(ctx, request, onProgress)
}

// Command renders the subprocess invocation for request without running it.
func (invoker *Invoker) Command(request OperationRequest) Command {
	return Command{
		Path: invoker.locations.Interpreter,
		Args: BuildArguments(invoker.locations.EntryScript, request),
		Dir:  invoker.locations.WorkingDirectory,
		Env:  append(os.Environ(), childEnvironment...),
	}
}

func (invoker *Invoker) invoke(ctx context.Context, request OperationRequest, onProgress ProgressFunc) (Result, error) {
	if err := request.validate(); err != nil {
		return Result{}, invalidRequest(request, err)
	}
	if invoker.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, invoker.timeout)
		defer cancel()
	}

	command := invoker.Command(request)
	logger := invoker.logger.With(
		zap.String("mode", request.mode.String()),
		zap.String("target", request.targetPath),
	)
	logger.Debug("pipeline start", zap.Strings("argv", command.Line()), zap.String("dir", command.Dir))

	var onStderrLine func([]byte)
	if onProgress != nil && request.mode == ModeExecuteWithProgress {
		onStderrLine = invoker.progressRelay(logger, onProgress)
	}

	started := time.Now()
	outcome, runErr := invoker.runner.Run(ctx, command, onStderrLine)
	result, err := classify(command, request, outcome, runErr)
	if err != nil {
		var pipelineErr *Error
		if errors.As(err, &pipelineErr) && pipelineErr.Kind == KindCancelled {
			logger.Info("pipeline cancelled", zap.Duration("elapsed", time.Since(started)))
		} else {
			logger.Warn("pipeline failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		}
		return Result{}, err
	}
	logger.Info("pipeline finished", zap.Duration("elapsed", time.Since(started)))
	return result, nil
}

func (invoker *Invoker) progressRelay(logger *zap.Logger, onProgress ProgressFunc) func([]byte) {
	return func(line []byte) {
		frame, err := parseProgressLine(invoker.progressPrefix, line)
		if errors.Is(err, errNotProgressLine) {
			return
		}
		if err != nil {
			logger.Debug("skip malformed progress frame", zap.ByteString("line", line), zap.Error(err))
			return
		}
		onProgress(frame)
	}
}

// classify maps a finished run onto exactly one terminal result.
func classify(command Command, request OperationRequest, outcome ProcessOutcome, runErr error) (Result, error) {
	base := Error{
		Command:    command.Line(),
		TargetPath: request.targetPath,
		ExitCode:   outcome.ExitCode,
		Stdout:     outcome.Stdout,
		Stderr:     outcome.Stderr,
	}

	if runErr != nil {
		var startErr *StartError
		switch {
		case errors.As(runErr, &startErr):
			base.Kind = KindSpawnFailure
			base.ExitCode = 0
		case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
			base.Kind = KindCancelled
		default:
			base.Kind = KindExecutionFailure
		}
		base.Cause = runErr
		return Result{}, &base
	}

	if !outcome.ExitSuccess {
		base.Kind = KindExecutionFailure
		return Result{}, &base
	}

	value, raw, err := decodeDocument(outcome.Stdout)
	if err != nil {
		base.Kind = KindDecodeFailure
		base.Cause = err
		return Result{}, &base
	}
	return Result{Value: value, Raw: raw}, nil
}

// decodeDocument accepts exactly one JSON document surrounded by optional whitespace.
func decodeDocument(stdout []byte) (any, []byte, error) {
	trimmed := bytes.TrimSpace(stdout)
	if len(trimmed) == 0 {
		return nil, nil, errEmptyOutput
	}
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, nil, err
	}
	var extra json.RawMessage
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, nil, errTrailingOutput
	}
	return value, trimmed, nil
}
