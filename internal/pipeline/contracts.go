package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how the external pipeline is driven for one request.
type Mode int

const (
	ModePreview Mode = iota + 1
	ModeExecute
	// ModeExecuteWithProgress shares the Execute argument vector; the invoker
	// additionally relays progress frames the pipeline writes to stderr.
	ModeExecuteWithProgress
)

var (
	errUnknownMode     = errors.New("unknown mode")
	errEmptyTargetPath = errors.New("target path is empty")
)

func (mode Mode) String() string {
	switch mode {
	case ModePreview:
		return "preview"
	case ModeExecute:
		return "execute"
	case ModeExecuteWithProgress:
		return "execute-with-progress"
	default:
		return fmt.Sprintf("mode(%d)", int(mode))
	}
}

func (mode Mode) valid() bool {
	return mode >= ModePreview && mode <= ModeExecuteWithProgress
}

// SortOptions carries the user's sort preferences. A nil field means the
// pipeline applies its own default; nothing is synthesized on this side.
type SortOptions struct {
	DryRun             *bool   `json:"dryRun,omitempty"`
	ClusterSensitivity *string `json:"clusterSensitivity,omitempty"`
	FolderNamingStyle  *string `json:"folderNamingStyle,omitempty"`
	IncludeSubfolders  *bool   `json:"includeSubfolders,omitempty"`
}

func (options *SortOptions) clone() *SortOptions {
	if options == nil {
		return nil
	}
	return &SortOptions{
		DryRun:             clonePointer(options.DryRun),
		ClusterSensitivity: clonePointer(options.ClusterSensitivity),
		FolderNamingStyle:  clonePointer(options.FolderNamingStyle),
		IncludeSubfolders:  clonePointer(options.IncludeSubfolders),
	}
}

func clonePointer[T any](value *T) *T {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

// Bool and String build option values inline, e.g. SortOptions{DryRun: pipeline.Bool(true)}.
func Bool(value bool) *bool       { return &value }
func String(value string) *string { return &value }

// OperationRequest is one logical request; it maps to exactly one subprocess invocation.
// Construct it with NewOperationRequest; the fields are not mutable afterwards.
type OperationRequest struct {
	mode       Mode
	targetPath string
	options    *SortOptions
}

// NewOperationRequest validates and snapshots a request. A nil options value is valid.
func NewOperationRequest(mode Mode, targetPath string, options *SortOptions) (OperationRequest, error) {
	request := OperationRequest{mode: mode, targetPath: targetPath, options: options.clone()}
	if err := request.validate(); err != nil {
		return OperationRequest{}, invalidRequest(request, err)
	}
	return request, nil
}

func (request OperationRequest) Mode() Mode         { return request.mode }
func (request OperationRequest) TargetPath() string { return request.targetPath }

// Options returns a copy of the request options, or nil when none were given.
func (request OperationRequest) Options() *SortOptions { return request.options.clone() }

func (request OperationRequest) validate() error {
	if !request.mode.valid() {
		return fmt.Errorf("%w: %s", errUnknownMode, request.mode)
	}
	if strings.TrimSpace(request.targetPath) == "" {
		return errEmptyTargetPath
	}
	return nil
}

// ProcessOutcome is the raw capture of one subprocess run.
type ProcessOutcome struct {
	ExitSuccess bool
	ExitCode    int
	Stdout      []byte
	Stderr      []byte
}
