package bridge

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/temirov/synapse-bridge/internal/logging"
	"github.com/temirov/synapse-bridge/internal/pipeline"
	"github.com/temirov/synapse-bridge/internal/selection"
)

const (
	// CommandCancel aborts the in-flight request named by args.request_id.
	CommandCancel = "cancel"

	eventProgress = "progress"

	KindCancelled      = "cancelled"
	KindTransportError = "transport_error"
	KindUnknownCommand = "unknown_command"
	KindInvalidRequest = "invalid_request"
	KindInternal       = "internal"

	maxRequestLineBytes = 1 << 20
)

var (
	errUnknownCommand    = errors.New("unknown command")
	errMissingRequestID  = errors.New("request id is required")
	errDuplicateID       = errors.New("request id is already in flight")
	errUnknownRequestID  = errors.New("no in-flight request with that id")
	errMalformedEnvelope = errors.New("malformed request")
)

// Request is one line of input.
type Request struct {
	ID      string    `json:"id"`
	Command string    `json:"command"`
	Args    Arguments `json:"args"`
}

// Response is the single terminal line written for a request.
type Response struct {
	ID     string        `json:"id"`
	OK     bool          `json:"ok"`
	Result any           `json:"result,omitempty"`
	Error  *ErrorPayload `json:"error,omitempty"`
}

// Event is an intermediate line written before the Response of the same id.
type Event struct {
	ID       string          `json:"id"`
	Event    string          `json:"event"`
	Progress json.RawMessage `json:"progress,omitempty"`
}

// ErrorPayload carries the error kind and the diagnostics the front end shows.
type ErrorPayload struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Command  string `json:"command,omitempty"`
	ExitCode *int   `json:"exit_code,omitempty"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
	// StdoutBase64 and StderrBase64 hold the exact bytes of a stream that is
	// not valid UTF-8; Stdout and Stderr then carry a lossy text rendering.
	StdoutBase64 string `json:"stdout_base64,omitempty"`
	StderrBase64 string `json:"stderr_base64,omitempty"`
}

// Server reads requests line by line and serves them concurrently. Output
// lines are written whole, one at a time.
type Server struct {
	bridge   *Bridge
	registry *Registry
	logger   *zap.Logger

	writeMutex sync.Mutex
	encoder    *json.Encoder

	inFlightMutex sync.Mutex
	inFlight      map[string]context.CancelFunc
}

func NewServer(bridge *Bridge, registry *Registry, logger *zap.Logger) *Server {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Server{bridge: bridge, registry: registry, logger: logging.OrNop(logger), inFlight: map[string]context.CancelFunc{}}
}

// Serve runs until in is exhausted, then waits for in-flight requests. When
// ctx ends, in-flight requests are cancelled; reading stops at the next line.
func (server *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	server.encoder = json.NewEncoder(out)
	server.encoder.SetEscapeHTML(false)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestLineBytes)

	var waitGroup sync.WaitGroup
	for ctx.Err() == nil && scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var request Request
		if err := json.Unmarshal([]byte(line), &request); err != nil {
			server.respond(Response{Error: &ErrorPayload{Kind: KindInvalidRequest, Message: fmt.Errorf("%w: %v", errMalformedEnvelope, err).Error()}})
			continue
		}
		if request.Command == CommandCancel {
			server.cancel(request)
			continue
		}
		requestContext, err := server.track(ctx, request.ID)
		if err != nil {
			server.respond(Response{ID: request.ID, Error: &ErrorPayload{Kind: KindInvalidRequest, Message: err.Error()}})
			continue
		}
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			defer server.untrack(request.ID)
			server.handle(requestContext, request)
		}()
	}
	scanErr := scanner.Err()

	waitGroup.Wait()
	if scanErr != nil {
		return fmt.Errorf("read requests: %w", scanErr)
	}
	return nil
}

func (server *Server) handle(ctx context.Context, request Request) {
	logger := server.logger.With(zap.String("id", request.ID), zap.String("command", request.Command))
	handler, found := server.registry.Lookup(request.Command)
	if !found {
		logger.Warn("unknown command")
		server.respond(Response{ID: request.ID, Error: errorPayload(fmt.Errorf("%w %q", errUnknownCommand, request.Command))})
		return
	}

	emit := func(event string, payload json.RawMessage) {
		server.write(Event{ID: request.ID, Event: event, Progress: payload})
	}
	logger.Debug("request started")
	result, err := server.invokeHandler(ctx, handler, request.Args, emit)
	if err != nil {
		payload := errorPayload(err)
		logger.Info("request failed", zap.String("kind", payload.Kind))
		server.respond(Response{ID: request.ID, Error: payload})
		return
	}
	logger.Debug("request finished")
	server.respond(Response{ID: request.ID, OK: true, Result: result})
}

func (server *Server) invokeHandler(ctx context.Context, handler Handler, args Arguments, emit EmitFunc) (result any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("handler panicked: %v", recovered)
		}
	}()
	return handler(ctx, server.bridge, args, emit)
}

func (server *Server) track(ctx context.Context, id string) (context.Context, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errMissingRequestID
	}
	server.inFlightMutex.Lock()
	defer server.inFlightMutex.Unlock()
	if _, exists := server.inFlight[id]; exists {
		return nil, errDuplicateID
	}
	requestContext, cancel := context.WithCancel(ctx)
	server.inFlight[id] = cancel
	return requestContext, nil
}

func (server *Server) untrack(id string) {
	server.inFlightMutex.Lock()
	cancel := server.inFlight[id]
	delete(server.inFlight, id)
	server.inFlightMutex.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (server *Server) cancel(request Request) {
	server.inFlightMutex.Lock()
	cancel, found := server.inFlight[request.Args.RequestID]
	server.inFlightMutex.Unlock()
	if !found {
		server.respond(Response{ID: request.ID, Error: &ErrorPayload{Kind: KindInvalidRequest, Message: errUnknownRequestID.Error()}})
		return
	}
	cancel()
	server.respond(Response{ID: request.ID, OK: true, Result: map[string]string{"cancelled": request.Args.RequestID}})
}

func (server *Server) respond(response Response) {
	server.write(response)
}

func (server *Server) write(value any) {
	server.writeMutex.Lock()
	defer server.writeMutex.Unlock()
	if err := server.encoder.Encode(value); err != nil {
		server.logger.Error("write response", zap.Error(err))
	}
}

// errorPayload classifies err for the front end. Cancellation of any origin
// maps to the cancelled kind, which the front end does not display.
func errorPayload(err error) *ErrorPayload {
	payload := &ErrorPayload{Kind: KindInternal, Message: err.Error()}

	var pipelineErr *pipeline.Error
	switch {
	case errors.As(err, &pipelineErr):
		payload.Kind = string(pipelineErr.Kind)
		payload.Command = pipelineErr.CommandLine()
		if pipelineErr.Kind == pipeline.KindExecutionFailure {
			exitCode := pipelineErr.ExitCode
			payload.ExitCode = &exitCode
		}
		payload.Stdout, payload.StdoutBase64 = streamText(pipelineErr.Stdout)
		payload.Stderr, payload.StderrBase64 = streamText(pipelineErr.Stderr)
	case errors.Is(err, selection.ErrCancelled),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		payload.Kind = KindCancelled
	case errors.Is(err, selection.ErrTransport):
		payload.Kind = KindTransportError
	case errors.Is(err, errUnknownCommand):
		payload.Kind = KindUnknownCommand
	}
	return payload
}

// streamText renders captured output for JSON. Invalid UTF-8 is replaced in
// the text and the original bytes are returned base64 encoded.
func streamText(raw []byte) (text string, encoded string) {
	if utf8.Valid(raw) {
		return string(raw), ""
	}
	return strings.ToValidUTF8(string(raw), "\uFFFD"), base64.StdEncoding.EncodeToString(raw)
}
