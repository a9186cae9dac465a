package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	rootConfigurationEmptyContentErrorFormat = "root configuration %s is empty"
	rootConfigurationUnmarshalErrorFormat    = "unmarshal root configuration %s: %w"
	embeddedDefaultsUnmarshalErrorFormat     = "unmarshal embedded defaults: %w"
	validationErrorFormat                    = "root configuration %s is invalid: %s"
	missingEntryScriptErrorMessage           = "pipeline.entry_script is required"
	missingUnixInterpretersErrorMessage      = "pipeline.interpreters.unix must list at least one interpreter"
	missingWindowsInterpretersErrorMessage   = "pipeline.interpreters.windows must list at least one interpreter"
	negativeTimeoutErrorMessage              = "pipeline.timeout_seconds must be >= 0"
	negativeWaitDelayErrorMessage            = "pipeline.wait_delay_millis must be >= 0"
	unsupportedLogFormatErrorFormat          = "common.logging.format %q is not one of console, json"
)

// ErrInvalidConfiguration marks validation failures of an otherwise parseable configuration.
var ErrInvalidConfiguration = errors.New("invalid configuration")

type Root struct {
	Common   Common   `yaml:"common"`
	Pipeline Pipeline `yaml:"pipeline"`
}

type Common struct {
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// Pipeline describes where the external sorting pipeline lives relative to the
// application install root and how it is driven.
type Pipeline struct {
	InstallRoot      string       `yaml:"install_root"`
	WorkingDirectory string       `yaml:"working_directory"`
	EntryScript      string       `yaml:"entry_script"`
	Interpreters     Interpreters `yaml:"interpreters"`
	TimeoutSeconds   int          `yaml:"timeout_seconds"`
	WaitDelayMillis  int          `yaml:"wait_delay_millis"`
	ProgressPrefix   string       `yaml:"progress_prefix"`
}

// Interpreters lists candidate interpreter paths per host OS family, in preference order.
type Interpreters struct {
	Unix    []string `yaml:"unix"`
	Windows []string `yaml:"windows"`
}

func (pipeline Pipeline) Timeout() time.Duration {
	return time.Duration(pipeline.TimeoutSeconds) * time.Second
}

func (pipeline Pipeline) WaitDelay() time.Duration {
	return time.Duration(pipeline.WaitDelayMillis) * time.Millisecond
}

// LoadRoot parses the provided configuration source over the embedded defaults and validates the result.
func LoadRoot(source RootConfigurationSource) (Root, error) {
	if len(source.Content) == 0 {
		return Root{}, fmt.Errorf(rootConfigurationEmptyContentErrorFormat, source.Reference)
	}

	rootConfiguration, defaultsErr := Defaults()
	if defaultsErr != nil {
		return Root{}, defaultsErr
	}
	if err := yaml.Unmarshal(source.Content, &rootConfiguration); err != nil {
		return Root{}, fmt.Errorf(rootConfigurationUnmarshalErrorFormat, source.Reference, err)
	}

	if problems := rootConfiguration.validate(); len(problems) > 0 {
		return Root{}, fmt.Errorf("%w: "+validationErrorFormat, ErrInvalidConfiguration, source.Reference, strings.Join(problems, "; "))
	}
	return rootConfiguration, nil
}

// Defaults returns the embedded default configuration.
func Defaults() (Root, error) {
	var rootConfiguration Root
	if err := yaml.Unmarshal(embeddedRootConfigurationBytes, &rootConfiguration); err != nil {
		return Root{}, fmt.Errorf(embeddedDefaultsUnmarshalErrorFormat, err)
	}
	return rootConfiguration, nil
}

func (root Root) validate() []string {
	var problems []string
	if strings.TrimSpace(root.Pipeline.EntryScript) == "" {
		problems = append(problems, missingEntryScriptErrorMessage)
	}
	if countNonBlank(root.Pipeline.Interpreters.Unix) == 0 {
		problems = append(problems, missingUnixInterpretersErrorMessage)
	}
	if countNonBlank(root.Pipeline.Interpreters.Windows) == 0 {
		problems = append(problems, missingWindowsInterpretersErrorMessage)
	}
	if root.Pipeline.TimeoutSeconds < 0 {
		problems = append(problems, negativeTimeoutErrorMessage)
	}
	if root.Pipeline.WaitDelayMillis < 0 {
		problems = append(problems, negativeWaitDelayErrorMessage)
	}
	switch strings.ToLower(strings.TrimSpace(root.Common.Logging.Format)) {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf(unsupportedLogFormatErrorFormat, root.Common.Logging.Format))
	}
	return problems
}

func countNonBlank(values []string) int {
	count := 0
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			count++
		}
	}
	return count
}
