package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
)

// DefaultProgressPrefix marks a stderr line carrying one progress frame.
const DefaultProgressPrefix = "PROGRESS: "

var errNotProgressLine = errors.New("not a progress line")

// ProgressFrame is one intermediate snapshot reported while a sort runs.
// Raw holds the frame's JSON exactly as the pipeline wrote it.
type ProgressFrame struct {
	SortReport
	Raw json.RawMessage `json:"-"`
}

// ProgressFunc receives frames in the order the pipeline wrote them. It is
// called from the goroutine draining stderr and must not block for long.
type ProgressFunc func(frame ProgressFrame)

// parseProgressLine returns errNotProgressLine for ordinary stderr output and
// a decode error for a prefixed line whose payload is not a JSON object.
func parseProgressLine(prefix string, line []byte) (ProgressFrame, error) {
	payload, found := bytes.CutPrefix(line, []byte(prefix))
	if !found {
		return ProgressFrame{}, errNotProgressLine
	}
	payload = bytes.TrimSpace(payload)

	var frame ProgressFrame
	if err := json.Unmarshal(payload, &frame.SortReport); err != nil {
		return ProgressFrame{}, err
	}
	frame.Raw = append(json.RawMessage(nil), payload...)
	return frame, nil
}
