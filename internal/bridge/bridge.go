// Package bridge exposes the caller-facing operations of the desktop bridge
// and the line-delimited protocol a front end uses to reach them.
package bridge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/synapse-bridge/internal/logging"
	"github.com/temirov/synapse-bridge/internal/pipeline"
)

// Selector is the selection adapter as seen by the bridge.
type Selector interface {
	SelectFolder(ctx context.Context) (string, error)
	SelectFiles(ctx context.Context) ([]string, error)
}

// Invoker is the pipeline invoker as seen by the bridge.
type Invoker interface {
	Invoke(ctx context.Context, request pipeline.OperationRequest) (pipeline.Result, error)
	InvokeWithProgress(ctx context.Context, request pipeline.OperationRequest, onProgress pipeline.ProgressFunc) (pipeline.Result, error)
}

// Bridge answers each user intent with either a payload or a classified
// error, never both.
type Bridge struct {
	selector Selector
	invoker  Invoker
	logger   *zap.Logger
}

func New(selector Selector, invoker Invoker, logger *zap.Logger) *Bridge {
	return &Bridge{selector: selector, invoker: invoker, logger: logging.OrNop(logger)}
}

func (bridge *Bridge) SelectFolder(ctx context.Context) (string, error) {
	path, err := bridge.selector.SelectFolder(ctx)
	if err != nil {
		return "", fmt.Errorf("select folder: %w", err)
	}
	bridge.logger.Debug("folder selected", zap.String("path", path))
	return path, nil
}

func (bridge *Bridge) SelectFiles(ctx context.Context) ([]string, error) {
	paths, err := bridge.selector.SelectFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("select files: %w", err)
	}
	bridge.logger.Debug("files selected", zap.Int("count", len(paths)))
	return paths, nil
}

// PreviewSort estimates the clusters for path without touching any file.
func (bridge *Bridge) PreviewSort(ctx context.Context, path string, options *pipeline.SortOptions) (pipeline.Result, error) {
	request, err := pipeline.NewOperationRequest(pipeline.ModePreview, path, options)
	if err != nil {
		return pipeline.Result{}, err
	}
	return bridge.invoker.Invoke(ctx, request)
}

// RunSort runs the full pipeline over path.
func (bridge *Bridge) RunSort(ctx context.Context, path string, options *pipeline.SortOptions) (pipeline.Result, error) {
	request, err := pipeline.NewOperationRequest(pipeline.ModeExecute, path, options)
	if err != nil {
		return pipeline.Result{}, err
	}
	return bridge.invoker.Invoke(ctx, request)
}

// RunSortWithProgress runs the full pipeline and reports progress frames as
// the pipeline emits them. onProgress may be nil.
func (bridge *Bridge) RunSortWithProgress(ctx context.Context, path string, options *pipeline.SortOptions, onProgress pipeline.ProgressFunc) (pipeline.Result, error) {
	request, err := pipeline.NewOperationRequest(pipeline.ModeExecuteWithProgress, path, options)
	if err != nil {
		return pipeline.Result{}, err
	}
	if onProgress == nil {
		onProgress = func(pipeline.ProgressFrame) {}
	}
	return bridge.invoker.InvokeWithProgress(ctx, request, onProgress)
}
