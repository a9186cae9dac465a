package selection

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/synapse-bridge/internal/logging"
)

// Dialog is the host's native picker capability. Each method must answer
// through reply exactly once, possibly from another goroutine, and may
// return before answering.
type Dialog interface {
	PickFolder(reply Reply[*string])
	PickFiles(reply Reply[[]string])
}

// FuncDialog adapts callback-style pickers that report their own failure.
// A returned error closes the reply without a value.
type FuncDialog struct {
	Folder func(callback func(*string)) error
	Files  func(callback func([]string)) error
}

func (dialog FuncDialog) PickFolder(reply Reply[*string]) {
	if dialog.Folder == nil {
		reply.Close()
		return
	}
	if err := dialog.Folder(func(path *string) { reply.Send(path) }); err != nil {
		reply.Close()
	}
}

func (dialog FuncDialog) PickFiles(reply Reply[[]string]) {
	if dialog.Files == nil {
		reply.Close()
		return
	}
	if err := dialog.Files(func(paths []string) { reply.Send(paths) }); err != nil {
		reply.Close()
	}
}

// Result is the caller-facing outcome of a selection.
type Result struct {
	Paths     []string `json:"paths"`
	Cancelled bool     `json:"cancelled"`
}

// Outcome folds ErrCancelled into a cancelled Result; any other error is returned unchanged.
func Outcome(paths []string, err error) (Result, error) {
	switch {
	case err == nil:
		return Result{Paths: paths}, nil
	case errors.Is(err, ErrCancelled):
		return Result{Paths: []string{}, Cancelled: true}, nil
	default:
		return Result{}, err
	}
}

// Adapter turns the one-shot dialog callbacks into blocking calls.
type Adapter struct {
	dialog Dialog
	logger *zap.Logger
}

func NewAdapter(dialog Dialog, logger *zap.Logger) *Adapter {
	return &Adapter{dialog: dialog, logger: logging.OrNop(logger)}
}

// SelectFolder blocks until the user picks a folder. The path is returned as
// the dialog reported it.
func (adapter *Adapter) SelectFolder(ctx context.Context) (string, error) {
	path, err := await(ctx, adapter.logger.With(zap.String("dialog", "folder")), adapter.dialog.PickFolder)
	if err != nil {
		return "", err
	}
	if path == nil || *path == "" {
		return "", ErrCancelled
	}
	return *path, nil
}

// SelectFiles blocks until the user picks one or more files, in dialog order.
func (adapter *Adapter) SelectFiles(ctx context.Context) ([]string, error) {
	paths, err := await(ctx, adapter.logger.With(zap.String("dialog", "files")), adapter.dialog.PickFiles)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrCancelled
	}
	return paths, nil
}

func await[T any](ctx context.Context, logger *zap.Logger, open func(Reply[T])) (T, error) {
	var zero T
	oneshot := NewOneshot[T]()

	go func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("dialog panicked", zap.Any("panic", recovered))
				oneshot.Close()
			}
		}()
		open(oneshot)
	}()

	select {
	case value, ok := <-oneshot.Receive():
		if !ok {
			logger.Warn("dialog closed without a reply")
			return zero, ErrTransport
		}
		return value, nil
	case <-ctx.Done():
		// A late reply lands in the buffered channel and is dropped.
		logger.Debug("selection abandoned", zap.Error(ctx.Err()))
		return zero, fmt.Errorf("await selection: %w", ctx.Err())
	}
}
