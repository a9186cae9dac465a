package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	embeddedRootConfigurationReference = "embedded default configuration"
	// EmbeddedRootConfigurationReference identifies the embedded fallback configuration source.
	EmbeddedRootConfigurationReference          = embeddedRootConfigurationReference
	explicitConfigurationReadErrorFormat        = "read explicit configuration %s: %w"
	loaderInitializationWorkingDirectoryError   = "determine working directory: %w"
	loaderHomeEnvironmentVariableName           = "HOME"
	workingDirectoryConfigurationFileName       = "config.yaml"
	configHomeConfigurationRelativeDirectory    = "synapse-bridge"
	homeDirectoryConfigurationRelativeDirectory = ".synapse-bridge"
	configurationFileName                       = "config.yaml"
)

var (
	//go:embed default_root_configuration.yaml
	embeddedRootConfigurationBytes []byte
)

// RootConfigurationSource holds the raw configuration data and its origin.
type RootConfigurationSource struct {
	Reference string
	Content   []byte
}

// RootConfigurationLoader locates configuration files across supported search paths.
type RootConfigurationLoader struct {
	workingDirectory    string
	configHomeDirectory string
	homeDirectory       string
	fileReader          func(string) ([]byte, error)
}

// NewRootConfigurationLoader constructs a loader with the provided directories.
// Empty directories are skipped during the search.
func NewRootConfigurationLoader(workingDirectory string, configHomeDirectory string, homeDirectory string) RootConfigurationLoader {
	return RootConfigurationLoader{
		workingDirectory:    workingDirectory,
		configHomeDirectory: configHomeDirectory,
		homeDirectory:       homeDirectory,
		fileReader:          os.ReadFile,
	}
}

// NewDefaultRootConfigurationLoader builds a loader using the process working directory, XDG_CONFIG_HOME and HOME.
func NewDefaultRootConfigurationLoader() (RootConfigurationLoader, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return RootConfigurationLoader{}, fmt.Errorf(loaderInitializationWorkingDirectoryError, workingDirectoryError)
	}
	homeDirectory := os.Getenv(loaderHomeEnvironmentVariableName)
	return NewRootConfigurationLoader(workingDirectory, xdg.ConfigHome, homeDirectory), nil
}

type configurationCandidate struct {
	path       string
	isExplicit bool
}

// Load resolves the configuration source using the preferred search order:
// explicit path, working directory, XDG config home, home directory, embedded defaults.
func (loader RootConfigurationLoader) Load(explicitPath string) (RootConfigurationSource, error) {
	for _, candidate := range loader.candidates(explicitPath) {
		if candidate.path == "" {
			continue
		}
		content, readError := loader.fileReader(candidate.path)
		if readError != nil {
			if candidate.isExplicit && !errors.Is(readError, fs.ErrNotExist) && !errors.Is(readError, fs.ErrPermission) {
				return RootConfigurationSource{}, fmt.Errorf(explicitConfigurationReadErrorFormat, candidate.path, readError)
			}
			continue
		}
		return RootConfigurationSource{Reference: candidate.path, Content: content}, nil
	}
	return RootConfigurationSource{Reference: embeddedRootConfigurationReference, Content: embeddedRootConfigurationBytes}, nil
}

func (loader RootConfigurationLoader) candidates(explicitPath string) []configurationCandidate {
	explicitCandidate := configurationCandidate{path: explicitPath, isExplicit: explicitPath != ""}
	return []configurationCandidate{
		explicitCandidate,
		joinedCandidate(loader.workingDirectory, workingDirectoryConfigurationFileName),
		joinedCandidate(loader.configHomeDirectory, configHomeConfigurationRelativeDirectory, configurationFileName),
		joinedCandidate(loader.homeDirectory, homeDirectoryConfigurationRelativeDirectory, configurationFileName),
	}
}

func joinedCandidate(directory string, elements ...string) configurationCandidate {
	if directory == "" {
		return configurationCandidate{}
	}
	return configurationCandidate{path: filepath.Join(append([]string{directory}, elements...)...)}
}
