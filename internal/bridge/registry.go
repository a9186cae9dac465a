package bridge

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/temirov/synapse-bridge/internal/pipeline"
)

const (
	CommandSelectFolder        = "select_folder"
	CommandSelectFiles         = "select_files"
	CommandPreviewSort         = "preview_sort"
	CommandRunSort             = "run_sort"
	CommandRunSortWithProgress = "run_sort_with_progress"
)

// Arguments is the argument object of a protocol request.
type Arguments struct {
	Path    string                `json:"path,omitempty"`
	Options *pipeline.SortOptions `json:"options,omitempty"`
	// RequestID names the in-flight request a cancel command targets.
	RequestID string `json:"request_id,omitempty"`
}

// EmitFunc sends an intermediate event for the request being handled.
type EmitFunc func(event string, payload json.RawMessage)

// Handler serves one protocol command.
type Handler func(ctx context.Context, bridge *Bridge, args Arguments, emit EmitFunc) (any, error)

type Registry struct{ handlers map[string]Handler }

func NewRegistry() *Registry { return &Registry{handlers: map[string]Handler{}} }

func (r *Registry) Register(name string, handler Handler) { r.handlers[name] = handler }

// Names returns the registered commands in lexical order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// DefaultRegistry wires the five bridge operations under their command names.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(CommandSelectFolder, func(ctx context.Context, bridge *Bridge, _ Arguments, _ EmitFunc) (any, error) {
		path, err := bridge.SelectFolder(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]string{"path": path}, nil
	})
	registry.Register(CommandSelectFiles, func(ctx context.Context, bridge *Bridge, _ Arguments, _ EmitFunc) (any, error) {
		paths, err := bridge.SelectFiles(ctx)
		if err != nil {
			return nil, err
		}
		return map[string][]string{"paths": paths}, nil
	})
	registry.Register(CommandPreviewSort, func(ctx context.Context, bridge *Bridge, args Arguments, _ EmitFunc) (any, error) {
		result, err := bridge.PreviewSort(ctx, args.Path, args.Options)
		return result.Value, err
	})
	registry.Register(CommandRunSort, func(ctx context.Context, bridge *Bridge, args Arguments, _ EmitFunc) (any, error) {
		result, err := bridge.RunSort(ctx, args.Path, args.Options)
		return result.Value, err
	})
	registry.Register(CommandRunSortWithProgress, func(ctx context.Context, bridge *Bridge, args Arguments, emit EmitFunc) (any, error) {
		result, err := bridge.RunSortWithProgress(ctx, args.Path, args.Options, func(frame pipeline.ProgressFrame) {
			emit(eventProgress, frame.Raw)
		})
		return result.Value, err
	})
	return registry
}
