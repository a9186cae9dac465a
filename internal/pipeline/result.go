package pipeline

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

const decodeViewErrorFormat = "decode %s view: %w"

// Result is the decoded terminal document of a successful run. Value is the
// opaque JSON tree (map[string]any, []any or a scalar); Raw is the exact
// stdout after trimming surrounding whitespace.
type Result struct {
	Value any
	Raw   []byte
}

// FolderInfo is one folder the pipeline created or proposed.
type FolderInfo struct {
	Name      string   `json:"name" mapstructure:"name"`
	ClusterID int      `json:"cluster_id" mapstructure:"cluster_id"`
	Files     []string `json:"files" mapstructure:"files"`
	FileCount int      `json:"file_count" mapstructure:"file_count"`
}

// PreviewSummary is the preview document.
type PreviewSummary struct {
	Status            string `json:"status" mapstructure:"status"`
	EstimatedClusters int    `json:"estimated_clusters" mapstructure:"estimated_clusters"`
	FilesFound        int    `json:"files_found" mapstructure:"files_found"`
	Message           string `json:"message" mapstructure:"message"`
}

// SortReport is the document of a full run. The pipeline emits the same shape
// for intermediate progress frames.
type SortReport struct {
	Status          string         `json:"status" mapstructure:"status"`
	Message         string         `json:"message" mapstructure:"message"`
	Progress        int            `json:"progress" mapstructure:"progress"`
	StagesCompleted int            `json:"stages_completed" mapstructure:"stages_completed"`
	TotalStages     int            `json:"total_stages" mapstructure:"total_stages"`
	FilesProcessed  int            `json:"files_processed" mapstructure:"files_processed"`
	ClustersFound   int            `json:"clusters_found" mapstructure:"clusters_found"`
	FoldersCreated  []FolderInfo   `json:"folders_created" mapstructure:"folders_created"`
	Errors          []string       `json:"errors" mapstructure:"errors"`
	Stats           map[string]any `json:"stats" mapstructure:"stats"`
}

// Succeeded reports whether the pipeline declared success in its document.
func (report SortReport) Succeeded() bool { return report.Status == "success" }

// Decode maps the opaque value onto target. Unknown keys are ignored and
// numbers are converted loosely, since the pipeline owns the schema.
func (result Result) Decode(target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(result.Value)
}

// Preview decodes the value as a PreviewSummary.
func (result Result) Preview() (PreviewSummary, error) {
	var summary PreviewSummary
	if err := result.Decode(&summary); err != nil {
		return PreviewSummary{}, fmt.Errorf(decodeViewErrorFormat, "preview", err)
	}
	return summary, nil
}

// Report decodes the value as a SortReport.
func (result Result) Report() (SortReport, error) {
	var report SortReport
	if err := result.Decode(&report); err != nil {
		return SortReport{}, fmt.Errorf(decodeViewErrorFormat, "sort report", err)
	}
	return report, nil
}
