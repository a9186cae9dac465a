package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgressLine(t *testing.T) {
	line := []byte(`PROGRESS: {"status": "pending", "message": "Scanning files...", "progress": 10, "stages_completed": 1, "total_stages": 6}`)

	frame, err := parseProgressLine(DefaultProgressPrefix, line)
	require.NoError(t, err)
	assert.Equal(t, "Scanning files...", frame.Message)
	assert.Equal(t, 10, frame.Progress)
	assert.Equal(t, 1, frame.StagesCompleted)
	assert.Equal(t, 6, frame.TotalStages)
	assert.JSONEq(t, string(line[len(DefaultProgressPrefix):]), string(frame.Raw))
}

func TestParseProgressLineIgnoresOrdinaryOutput(t *testing.T) {
	_, err := parseProgressLine(DefaultProgressPrefix, []byte("Traceback (most recent call last):"))
	assert.ErrorIs(t, err, errNotProgressLine)
}

func TestParseProgressLineRejectsMalformedPayload(t *testing.T) {
	_, err := parseProgressLine(DefaultProgressPrefix, []byte("PROGRESS: {not json"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errNotProgressLine)
}

func TestLineSplitter(t *testing.T) {
	var lines []string
	splitter := newLineSplitter(func(line []byte) { lines = append(lines, string(line)) })

	for _, chunk := range []string{"first li", "ne\r\nsecond\nthi", "rd"} {
		written, err := splitter.Write([]byte(chunk))
		require.NoError(t, err)
		assert.Equal(t, len(chunk), written)
	}
	assert.Equal(t, []string{"first line", "second"}, lines)

	splitter.Flush()
	assert.Equal(t, []string{"first line", "second", "third"}, lines)
	assert.Equal(t, "first line\r\nsecond\nthird", string(splitter.Bytes()))
}
