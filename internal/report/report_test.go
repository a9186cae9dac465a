package report

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/synapse-bridge/internal/pipeline"
)

func TestPreviewMarkdown(t *testing.T) {
	markdown := PreviewMarkdown("/data/photos", pipeline.PreviewSummary{
		Status:            "success",
		EstimatedClusters: 3,
		FilesFound:        14,
		Message:           "Found 14 files, estimated 3 semantic clusters.",
	})

	assert.Contains(t, markdown, "# Preview of `/data/photos`")
	assert.Contains(t, markdown, "**Files found:** 14")
	assert.Contains(t, markdown, "**Estimated clusters:** 3")
	assert.Contains(t, markdown, "Found 14 files")
}

func TestSortReportMarkdown(t *testing.T) {
	markdown := SortReportMarkdown("/data/docs", pipeline.SortReport{
		Status:         "success",
		FilesProcessed: 3,
		ClustersFound:  2,
		FoldersCreated: []pipeline.FolderInfo{
			{Name: "Tax | 2024", ClusterID: 0, Files: []string{"a.pdf", "b.pdf"}, FileCount: 2},
			{Name: "Recipes", ClusterID: 1, Files: []string{"soup.txt"}, FileCount: 1},
		},
		Errors: []string{"permission denied: c.pdf"},
		Stats:  map[string]any{"dry_run": true, "final_clusters": 2},
	})

	assert.Contains(t, markdown, "**Dry run:** no files were moved")
	assert.Contains(t, markdown, `| Tax \| 2024 | 0 | 2 |`)
	assert.Contains(t, markdown, "### Recipes\n\n- soup.txt")
	assert.Contains(t, markdown, "## Errors\n\n- permission denied: c.pdf")
	assert.Less(t, strings.Index(markdown, "- dry_run: true"), strings.Index(markdown, "- final_clusters: 2"))
}

func TestSortReportMarkdownOmitsEmptySections(t *testing.T) {
	markdown := SortReportMarkdown("/data", pipeline.SortReport{Message: "No files found to process."})
	assert.NotContains(t, markdown, "## Folders")
	assert.NotContains(t, markdown, "## Errors")
	assert.NotContains(t, markdown, "## Statistics")
	assert.Contains(t, markdown, "**Status:** -")
}

func TestProgressLine(t *testing.T) {
	frame := pipeline.ProgressFrame{SortReport: pipeline.SortReport{Progress: 40, StagesCompleted: 3, TotalStages: 6, Message: "Creating semantic embeddings..."}}
	assert.Equal(t, " 40% [3/6] Creating semantic embeddings...", ProgressLine(frame))

	assert.Equal(t, "  5% Scanning", ProgressLine(pipeline.ProgressFrame{SortReport: pipeline.SortReport{Progress: 5, Message: "Scanning"}}))
}

func TestRendererNoTTY(t *testing.T) {
	rendered, err := NewRenderer(StyleNoTTY, 80).Render(PreviewMarkdown("/data", pipeline.PreviewSummary{Status: "success", FilesFound: 2}))
	require.NoError(t, err)
	assert.Contains(t, rendered, "Preview of")
	assert.Contains(t, rendered, "Files found:")
}

func TestResolveStyle(t *testing.T) {
	var buffer strings.Builder
	assert.Equal(t, StyleNoTTY, ResolveStyle(&buffer, StyleAuto))
	assert.Equal(t, StyleNoTTY, ResolveStyle(&buffer, ""))
	assert.Equal(t, "dracula", ResolveStyle(&buffer, "dracula"))

	file, err := os.CreateTemp(t.TempDir(), "report")
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, StyleNoTTY, ResolveStyle(file, StyleAuto))
}
