package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOperationRequestRejectsInvalidInput(t *testing.T) {
	testCases := []struct {
		name   string
		mode   Mode
		target string
	}{
		{name: "empty target", mode: ModePreview, target: ""},
		{name: "blank target", mode: ModeExecute, target: "  \t"},
		{name: "zero mode", mode: 0, target: "/data"},
		{name: "out of range mode", mode: Mode(42), target: "/data"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := NewOperationRequest(testCase.mode, testCase.target, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRequest)

			var pipelineErr *Error
			require.True(t, errors.As(err, &pipelineErr))
			assert.Equal(t, KindInvalidRequest, pipelineErr.Kind)
		})
	}
}

func TestNewOperationRequestSnapshotsOptions(t *testing.T) {
	options := &SortOptions{ClusterSensitivity: String("high"), DryRun: Bool(true)}
	request, err := NewOperationRequest(ModeExecute, "/data", options)
	require.NoError(t, err)

	*options.ClusterSensitivity = "low"
	options.DryRun = nil

	snapshot := request.Options()
	require.NotNil(t, snapshot)
	assert.Equal(t, "high", *snapshot.ClusterSensitivity)
	require.NotNil(t, snapshot.DryRun)
	assert.True(t, *snapshot.DryRun)

	*snapshot.ClusterSensitivity = "medium"
	assert.Equal(t, "high", *request.Options().ClusterSensitivity)
}

func TestNewOperationRequestAcceptsNilOptions(t *testing.T) {
	request, err := NewOperationRequest(ModePreview, "/data", nil)
	require.NoError(t, err)
	assert.Nil(t, request.Options())
	assert.Equal(t, ModePreview, request.Mode())
	assert.Equal(t, "/data", request.TargetPath())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "preview", ModePreview.String())
	assert.Equal(t, "execute", ModeExecute.String())
	assert.Equal(t, "execute-with-progress", ModeExecuteWithProgress.String())
	assert.Equal(t, "mode(9)", Mode(9).String())
}
