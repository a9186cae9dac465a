package dialog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/synapse-bridge/internal/selection"
)

// pickerFixture creates a directory holding one subdirectory and two files.
// The filepicker lists directories first, then files by name.
func pickerFixture(t *testing.T) string {
	t.Helper()
	directory := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(directory, "archive"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(directory, "invoice.pdf"), []byte("pdf"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(directory, "notes.txt"), []byte("txt"), 0o644))
	return directory
}

// loadedModel runs the picker's initial directory read.
func loadedModel(t *testing.T, mode pickMode, directory string) pickerModel {
	t.Helper()
	model := newPickerModel(mode, directory, false)
	cmd := model.Init()
	require.NotNil(t, cmd)
	return send(t, model, cmd())
}

func send(t *testing.T, model pickerModel, msg tea.Msg) pickerModel {
	t.Helper()
	updated, _ := model.Update(msg)
	next, ok := updated.(pickerModel)
	require.True(t, ok)
	return next
}

func runeKey(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func TestFolderModeChoosesCurrentDirectory(t *testing.T) {
	directory := pickerFixture(t)
	model := loadedModel(t, pickFolder, directory)

	updated, cmd := model.Update(runeKey('s'))
	model = updated.(pickerModel)

	assert.True(t, model.done)
	assert.Equal(t, []string{directory}, model.selection())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFolderModeIgnoresConfirmKeyOfFilesMode(t *testing.T) {
	model := loadedModel(t, pickFolder, pickerFixture(t))
	model = send(t, model, tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.False(t, model.done)
}

func TestFilesModeTogglesSelection(t *testing.T) {
	directory := pickerFixture(t)
	model := loadedModel(t, pickFiles, directory)

	// archive/, invoice.pdf, notes.txt
	model = send(t, model, tea.KeyMsg{Type: tea.KeyDown})
	model = send(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	model = send(t, model, tea.KeyMsg{Type: tea.KeyDown})
	model = send(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{filepath.Join(directory, "invoice.pdf"), filepath.Join(directory, "notes.txt")}, model.chosen)

	model = send(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{filepath.Join(directory, "invoice.pdf")}, model.chosen)
	assert.Contains(t, model.View(), "1 selected")

	model = send(t, model, tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.True(t, model.done)
	assert.Equal(t, []string{filepath.Join(directory, "invoice.pdf")}, model.selection())
}

func TestCancelKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyCtrlC}} {
		model := loadedModel(t, pickFiles, pickerFixture(t))
		model.chosen = []string{"/tmp/kept-before-cancel"}

		model = send(t, model, msg)
		assert.True(t, model.done, msg.String())
		assert.True(t, model.cancelled, msg.String())
		assert.Nil(t, model.selection(), msg.String())
		assert.Empty(t, model.View())
	}
}

func TestViewShowsModeHelp(t *testing.T) {
	directory := pickerFixture(t)
	assert.Contains(t, loadedModel(t, pickFolder, directory).View(), "choose this folder")
	assert.Contains(t, loadedModel(t, pickFiles, directory).View(), "ctrl+d confirm")
}

func TestToggle(t *testing.T) {
	paths := toggle(nil, "/a")
	paths = toggle(paths, "/b")
	paths = toggle(paths, "/a")
	assert.Equal(t, []string{"/b"}, paths)
}

func TestDeliverFolder(t *testing.T) {
	logger := zap.NewNop()
	folderModel := pickerModel{mode: pickFolder, chosen: []string{"/data/photos"}, done: true}

	testCases := []struct {
		name          string
		final         pickerModel
		err           error
		expectedPath  string
		expectedError error
	}{
		{name: "chosen folder", final: folderModel, expectedPath: "/data/photos"},
		{name: "cancelled", final: pickerModel{mode: pickFolder, cancelled: true, done: true}, expectedError: selection.ErrCancelled},
		{name: "program error", err: errors.New("open /dev/tty: no such device"), expectedError: selection.ErrTransport},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			dialog := selection.FuncDialog{Folder: func(callback func(*string)) error {
				oneshot := selection.NewOneshot[*string]()
				deliverFolder(oneshot, testCase.final, testCase.err, logger)
				value, ok := <-oneshot.Receive()
				if !ok {
					return errors.New("closed")
				}
				callback(value)
				return nil
			}}
			path, err := selection.NewAdapter(dialog, logger).SelectFolder(context.Background())
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expectedPath, path)
		})
	}
}

func TestDeliverFiles(t *testing.T) {
	logger := zap.NewNop()

	oneshot := selection.NewOneshot[[]string]()
	deliverFiles(oneshot, pickerModel{mode: pickFiles, chosen: []string{"/b", "/a"}, done: true}, nil, logger)
	paths, ok := <-oneshot.Receive()
	require.True(t, ok)
	assert.Equal(t, []string{"/b", "/a"}, paths)

	oneshot = selection.NewOneshot[[]string]()
	deliverFiles(oneshot, pickerModel{}, errors.New("no tty"), logger)
	_, ok = <-oneshot.Receive()
	assert.False(t, ok)
}
