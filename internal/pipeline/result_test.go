package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultFromJSON(t *testing.T, document string) Result {
	t.Helper()
	var value any
	require.NoError(t, json.Unmarshal([]byte(document), &value))
	return Result{Value: value, Raw: []byte(document)}
}

func TestResultPreview(t *testing.T) {
	result := resultFromJSON(t, `{
		"status": "success",
		"estimated_clusters": 3,
		"files_found": 14,
		"message": "Found 14 files, estimated 3 semantic clusters."
	}`)

	summary, err := result.Preview()
	require.NoError(t, err)
	assert.Equal(t, PreviewSummary{
		Status:            "success",
		EstimatedClusters: 3,
		FilesFound:        14,
		Message:           "Found 14 files, estimated 3 semantic clusters.",
	}, summary)
}

func TestResultReport(t *testing.T) {
	result := resultFromJSON(t, `{
		"status": "success",
		"message": "Successfully organized 4 files into 2 semantic folders.",
		"progress": 100,
		"stages_completed": 6,
		"total_stages": 6,
		"files_processed": 4,
		"clusters_found": 2,
		"folders_created": [
			{"name": "Invoices", "cluster_id": 0, "files": ["a.pdf", "b.pdf"], "file_count": 2},
			{"name": "Travel", "cluster_id": 1, "files": ["c.jpg", "d.jpg"], "file_count": 2}
		],
		"errors": [],
		"stats": {"dry_run": true, "final_clusters": 2},
		"unknown_field": "ignored"
	}`)

	report, err := result.Report()
	require.NoError(t, err)
	assert.True(t, report.Succeeded())
	assert.Equal(t, 6, report.StagesCompleted)
	require.Len(t, report.FoldersCreated, 2)
	assert.Equal(t, FolderInfo{Name: "Travel", ClusterID: 1, Files: []string{"c.jpg", "d.jpg"}, FileCount: 2}, report.FoldersCreated[1])
	assert.Equal(t, true, report.Stats["dry_run"])
}

func TestResultReportRejectsWrongShape(t *testing.T) {
	_, err := resultFromJSON(t, `["not", "an", "object"]`).Report()
	assert.ErrorContains(t, err, "sort report")
}

func TestResultDecodeLooseNumbers(t *testing.T) {
	var target struct {
		Clusters int `mapstructure:"clusters"`
	}
	require.NoError(t, resultFromJSON(t, `{"clusters": "5"}`).Decode(&target))
	assert.Equal(t, 5, target.Clusters)
}
