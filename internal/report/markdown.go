// Package report turns pipeline documents into human-readable markdown.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/temirov/synapse-bridge/internal/pipeline"
)

// PreviewMarkdown describes a preview for target.
func PreviewMarkdown(target string, summary pipeline.PreviewSummary) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "# Preview of `%s`\n\n", target)
	fmt.Fprintf(&builder, "- **Status:** %s\n", orDash(summary.Status))
	fmt.Fprintf(&builder, "- **Files found:** %d\n", summary.FilesFound)
	fmt.Fprintf(&builder, "- **Estimated clusters:** %d\n", summary.EstimatedClusters)
	if summary.Message != "" {
		fmt.Fprintf(&builder, "\n%s\n", summary.Message)
	}
	return builder.String()
}

// SortReportMarkdown describes a finished sort of target, listing every
// proposed or created folder.
func SortReportMarkdown(target string, sortReport pipeline.SortReport) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "# Sort of `%s`\n\n", target)
	fmt.Fprintf(&builder, "- **Status:** %s\n", orDash(sortReport.Status))
	fmt.Fprintf(&builder, "- **Files processed:** %d\n", sortReport.FilesProcessed)
	fmt.Fprintf(&builder, "- **Clusters found:** %d\n", sortReport.ClustersFound)
	if dryRun, ok := sortReport.Stats["dry_run"].(bool); ok && dryRun {
		builder.WriteString("- **Dry run:** no files were moved\n")
	}
	if sortReport.Message != "" {
		fmt.Fprintf(&builder, "\n%s\n", sortReport.Message)
	}

	if len(sortReport.FoldersCreated) > 0 {
		builder.WriteString("\n## Folders\n\n")
		builder.WriteString("| Folder | Cluster | Files |\n|---|---|---|\n")
		for _, folder := range sortReport.FoldersCreated {
			fmt.Fprintf(&builder, "| %s | %d | %d |\n", escapeCell(folder.Name), folder.ClusterID, folder.FileCount)
		}
		for _, folder := range sortReport.FoldersCreated {
			if len(folder.Files) == 0 {
				continue
			}
			fmt.Fprintf(&builder, "\n### %s\n\n", folder.Name)
			for _, file := range folder.Files {
				fmt.Fprintf(&builder, "- %s\n", file)
			}
		}
	}

	if len(sortReport.Errors) > 0 {
		builder.WriteString("\n## Errors\n\n")
		for _, message := range sortReport.Errors {
			fmt.Fprintf(&builder, "- %s\n", message)
		}
	}

	if len(sortReport.Stats) > 0 {
		builder.WriteString("\n## Statistics\n\n")
		keys := make([]string, 0, len(sortReport.Stats))
		for key := range sortReport.Stats {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&builder, "- %s: %v\n", key, sortReport.Stats[key])
		}
	}
	return builder.String()
}

// ProgressLine is a one-line summary of a progress frame.
func ProgressLine(frame pipeline.ProgressFrame) string {
	stage := ""
	if frame.TotalStages > 0 {
		stage = fmt.Sprintf(" [%d/%d]", frame.StagesCompleted, frame.TotalStages)
	}
	return fmt.Sprintf("%3d%%%s %s", frame.Progress, stage, frame.Message)
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func escapeCell(value string) string {
	return strings.ReplaceAll(value, "|", `\|`)
}
