package pipeline

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/synapse-bridge/internal/config"
	"github.com/temirov/synapse-bridge/internal/fsops"
)

func testPipelineSettings() config.Pipeline {
	return config.Pipeline{
		WorkingDirectory: "backend",
		EntryScript:      "pipeline/tauri_pipeline.py",
		Interpreters: config.Interpreters{
			Unix:    []string{"venv/bin/python3", ".venv/bin/python3"},
			Windows: []string{"venv/Scripts/python.exe"},
		},
	}
}

func TestResolveLocationsPrefersExistingInterpreter(t *testing.T) {
	installRoot := filepath.FromSlash("/opt/synapse")
	mem := fsops.NewMem()
	second := filepath.Join(installRoot, ".venv", "bin", "python3")
	require.NoError(t, mem.Fs.MkdirAll(filepath.Dir(second), 0o755))
	require.NoError(t, afero.WriteFile(mem.Fs, second, []byte("#!"), 0o755))

	locations, err := ResolveLocations(fsops.NewOps(mem), "linux", installRoot, testPipelineSettings())
	require.NoError(t, err)
	assert.Equal(t, second, locations.Interpreter)
	assert.Equal(t, filepath.Join(installRoot, "backend"), locations.WorkingDirectory)
	assert.Equal(t, "pipeline/tauri_pipeline.py", locations.EntryScript)
}

func TestResolveLocationsFallsBackToFirstCandidate(t *testing.T) {
	installRoot := filepath.FromSlash("/opt/synapse")
	locations, err := ResolveLocations(fsops.NewOps(fsops.NewMem()), "darwin", installRoot, testPipelineSettings())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(installRoot, "venv", "bin", "python3"), locations.Interpreter)
}

func TestResolveLocationsUsesWindowsFamily(t *testing.T) {
	installRoot := filepath.FromSlash("/apps/synapse")
	locations, err := ResolveLocations(fsops.NewOps(fsops.NewMem()), "windows", installRoot, testPipelineSettings())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(installRoot, "venv", "Scripts", "python.exe"), locations.Interpreter)
}

func TestResolveLocationsKeepsAbsoluteCandidates(t *testing.T) {
	settings := testPipelineSettings()
	absolute := filepath.FromSlash("/usr/bin/python3")
	if !filepath.IsAbs(absolute) {
		t.Skip("unix absolute path on a windows host")
	}
	settings.Interpreters.Unix = []string{absolute}

	locations, err := ResolveLocations(fsops.NewOps(fsops.NewMem()), "linux", filepath.FromSlash("/opt/synapse"), settings)
	require.NoError(t, err)
	assert.Equal(t, absolute, locations.Interpreter)
}

func TestResolveLocationsRejectsIncompleteSettings(t *testing.T) {
	ops := fsops.NewOps(fsops.NewMem())

	blankEntry := testPipelineSettings()
	blankEntry.EntryScript = "  "
	_, err := ResolveLocations(ops, "linux", "/opt", blankEntry)
	assert.True(t, errors.Is(err, errBlankEntryScript))

	noInterpreters := testPipelineSettings()
	noInterpreters.Interpreters.Unix = []string{" "}
	_, err = ResolveLocations(ops, "linux", "/opt", noInterpreters)
	assert.ErrorContains(t, err, "unix")
}

func TestInstallRoot(t *testing.T) {
	configured := t.TempDir()
	root, err := InstallRoot(config.Pipeline{InstallRoot: configured}, nil)
	require.NoError(t, err)
	assert.Equal(t, configured, root)

	executableDirectory := t.TempDir()
	root, err = InstallRoot(config.Pipeline{}, func() (string, error) {
		return filepath.Join(executableDirectory, "synapse-bridge"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, executableDirectory, root)

	_, err = InstallRoot(config.Pipeline{}, func() (string, error) { return "", errors.New("no executable") })
	assert.ErrorContains(t, err, "resolve install root")
}
