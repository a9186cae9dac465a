// Package dialog provides a terminal stand-in for the native file dialogs
// used by the selection adapter.
package dialog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/temirov/synapse-bridge/internal/logging"
	"github.com/temirov/synapse-bridge/internal/selection"
)

var errUnexpectedModel = errors.New("picker returned an unexpected model")

// Terminal runs a full-screen picker on the controlling terminal. Output goes
// to stderr so stdout stays free for machine-readable results. One picker is
// shown at a time.
type Terminal struct {
	StartDirectory string
	ShowHidden     bool
	Output         io.Writer
	Logger         *zap.Logger

	mutex sync.Mutex
}

func NewTerminal(startDirectory string, logger *zap.Logger) *Terminal {
	return &Terminal{StartDirectory: startDirectory, Output: os.Stderr, Logger: logging.OrNop(logger)}
}

func (terminal *Terminal) PickFolder(reply selection.Reply[*string]) {
	final, err := terminal.run(pickFolder)
	deliverFolder(reply, final, err, terminal.logger())
}

func (terminal *Terminal) PickFiles(reply selection.Reply[[]string]) {
	final, err := terminal.run(pickFiles)
	deliverFiles(reply, final, err, terminal.logger())
}

func (terminal *Terminal) run(mode pickMode) (pickerModel, error) {
	terminal.mutex.Lock()
	defer terminal.mutex.Unlock()

	startDirectory := terminal.StartDirectory
	if startDirectory == "" {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return pickerModel{}, fmt.Errorf("resolve start directory: %w", err)
		}
		startDirectory = workingDirectory
	}
	output := terminal.Output
	if output == nil {
		output = os.Stderr
	}

	program := tea.NewProgram(
		newPickerModel(mode, startDirectory, terminal.ShowHidden),
		tea.WithInputTTY(),
		tea.WithOutput(output),
		tea.WithAltScreen(),
	)
	final, err := program.Run()
	if err != nil {
		return pickerModel{}, fmt.Errorf("run picker: %w", err)
	}
	model, ok := final.(pickerModel)
	if !ok {
		return pickerModel{}, errUnexpectedModel
	}
	return model, nil
}

func (terminal *Terminal) logger() *zap.Logger {
	return logging.OrNop(terminal.Logger)
}

// deliverFolder answers a folder request: a failed program closes the reply,
// a cancelled or empty pick sends nil.
func deliverFolder(reply selection.Reply[*string], final pickerModel, err error, logger *zap.Logger) {
	if err != nil {
		logger.Warn("folder picker failed", zap.Error(err))
		reply.Close()
		return
	}
	chosen := final.selection()
	if len(chosen) == 0 {
		reply.Send(nil)
		return
	}
	reply.Send(&chosen[0])
}

func deliverFiles(reply selection.Reply[[]string], final pickerModel, err error, logger *zap.Logger) {
	if err != nil {
		logger.Warn("file picker failed", zap.Error(err))
		reply.Close()
		return
	}
	reply.Send(final.selection())
}
