package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/synapse-bridge/internal/config"
	"github.com/temirov/synapse-bridge/internal/fsops"
)

const (
	windowsOperatingSystem         = "windows"
	installRootErrorFormat         = "resolve install root: %w"
	noInterpreterCandidatesMessage = "no interpreter candidates configured for %s"
)

var errBlankEntryScript = errors.New("entry script is blank")

// Locations is the resolved place of the external pipeline. It is computed once
// at startup and injected into the Invoker.
type Locations struct {
	Interpreter      string
	WorkingDirectory string
	EntryScript      string
}

// InstallRoot returns the configured install root, or the directory of the
// running executable when none is configured.
func InstallRoot(settings config.Pipeline, executablePath func() (string, error)) (string, error) {
	configured := strings.TrimSpace(settings.InstallRoot)
	if configured != "" {
		absolute, err := filepath.Abs(configured)
		if err != nil {
			return "", fmt.Errorf(installRootErrorFormat, err)
		}
		return absolute, nil
	}
	if executablePath == nil {
		executablePath = os.Executable
	}
	executable, err := executablePath()
	if err != nil {
		return "", fmt.Errorf(installRootErrorFormat, err)
	}
	if resolved, evalErr := filepath.EvalSymlinks(executable); evalErr == nil {
		executable = resolved
	}
	return filepath.Dir(executable), nil
}

// ResolveLocations picks the interpreter for the host OS family and the
// pipeline working directory below installRoot. The first interpreter
// candidate that exists wins; when none exists the first candidate is kept so
// the spawn reports the missing executable.
func ResolveLocations(ops fsops.Ops, goos string, installRoot string, settings config.Pipeline) (Locations, error) {
	entryScript := strings.TrimSpace(settings.EntryScript)
	if entryScript == "" {
		return Locations{}, errBlankEntryScript
	}

	family, candidates := "unix", settings.Interpreters.Unix
	if goos == windowsOperatingSystem {
		family, candidates = "windows", settings.Interpreters.Windows
	}

	var resolvedCandidates []string
	for _, candidate := range candidates {
		trimmed := strings.TrimSpace(candidate)
		if trimmed == "" {
			continue
		}
		resolvedCandidates = append(resolvedCandidates, underRoot(installRoot, trimmed))
	}
	if len(resolvedCandidates) == 0 {
		return Locations{}, fmt.Errorf(noInterpreterCandidatesMessage, family)
	}

	interpreter, found := ops.FirstRegularFile(resolvedCandidates...)
	if !found {
		interpreter = resolvedCandidates[0]
	}

	return Locations{
		Interpreter:      interpreter,
		WorkingDirectory: underRoot(installRoot, strings.TrimSpace(settings.WorkingDirectory)),
		EntryScript:      entryScript,
	}, nil
}

func underRoot(installRoot string, relative string) string {
	if filepath.IsAbs(relative) {
		return filepath.Clean(relative)
	}
	return filepath.Join(installRoot, filepath.FromSlash(relative))
}
