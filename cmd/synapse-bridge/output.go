package synapsebridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/temirov/synapse-bridge/internal/pipeline"
	"github.com/temirov/synapse-bridge/internal/report"
)

type outputSettings struct {
	format string
	style  string
	width  int
}

func newOutputSettings(settings *viper.Viper) (outputSettings, error) {
	format := strings.ToLower(strings.TrimSpace(settings.GetString(formatFlagName)))
	switch format {
	case "":
		format = outputFormatJSON
	case outputFormatJSON, outputFormatMarkdown:
	default:
		return outputSettings{}, fmt.Errorf(unsupportedFormatErrorFormat, format)
	}
	return outputSettings{
		format: format,
		style:  strings.TrimSpace(settings.GetString(styleFlagName)),
		width:  settings.GetInt(widthFlagName),
	}, nil
}

// writeJSON re-indents a pipeline document without reinterpreting it.
func writeJSON(writer io.Writer, raw []byte) error {
	var indented bytes.Buffer
	if err := json.Indent(&indented, raw, "", "  "); err != nil {
		return fmt.Errorf(writeOutputErrorFormat, err)
	}
	indented.WriteByte('\n')
	if _, err := writer.Write(indented.Bytes()); err != nil {
		return fmt.Errorf(writeOutputErrorFormat, err)
	}
	return nil
}

func writeValue(writer io.Writer, value any) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf(writeOutputErrorFormat, err)
	}
	return nil
}

func writeMarkdown(writer io.Writer, output outputSettings, markdown string) error {
	rendered, err := report.NewRenderer(report.ResolveStyle(writer, output.style), output.width).Render(markdown)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(writer, rendered); err != nil {
		return fmt.Errorf(writeOutputErrorFormat, err)
	}
	return nil
}

// writePreview prints a preview result in the configured format.
func writePreview(writer io.Writer, output outputSettings, target string, result pipeline.Result) error {
	if output.format == outputFormatJSON {
		return writeJSON(writer, result.Raw)
	}
	summary, err := result.Preview()
	if err != nil {
		return err
	}
	return writeMarkdown(writer, output, report.PreviewMarkdown(target, summary))
}

func writeSortReport(writer io.Writer, output outputSettings, target string, result pipeline.Result) error {
	if output.format == outputFormatJSON {
		return writeJSON(writer, result.Raw)
	}
	sortReport, err := result.Report()
	if err != nil {
		return err
	}
	return writeMarkdown(writer, output, report.SortReportMarkdown(target, sortReport))
}

// finishInvocation turns a pipeline error into the command result. A
// cancelled run ends quietly; other failures print the captured streams to
// diagnostics before the error is returned.
func finishInvocation(diagnostics io.Writer, logger *zap.Logger, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pipeline.ErrCancelled) {
		logger.Info("pipeline run cancelled")
		return nil
	}
	var pipelineErr *pipeline.Error
	if errors.As(err, &pipelineErr) {
		writeStream(diagnostics, "pipeline command", []byte(pipelineErr.CommandLine()))
		writeStream(diagnostics, "pipeline stdout", pipelineErr.Stdout)
		writeStream(diagnostics, "pipeline stderr", pipelineErr.Stderr)
	}
	return err
}

func writeStream(writer io.Writer, label string, content []byte) {
	if len(bytes.TrimSpace(content)) == 0 {
		return
	}
	fmt.Fprintf(writer, "--- %s ---\n%s", label, content)
	if !bytes.HasSuffix(content, []byte("\n")) {
		fmt.Fprintln(writer)
	}
}
