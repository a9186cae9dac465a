package synapsebridge

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/temirov/synapse-bridge/internal/fsops"
	"github.com/temirov/synapse-bridge/internal/logging"
	"github.com/temirov/synapse-bridge/internal/pipeline"
)

// environment is what every subcommand needs, resolved once per run.
type environment struct {
	logger  *zap.Logger
	invoker *pipeline.Invoker
	output  outputSettings
}

func prepareEnvironment(settings *viper.Viper) (environment, error) {
	output, err := newOutputSettings(settings)
	if err != nil {
		return environment{}, err
	}

	rootConfiguration, err := loadRootConfiguration(strings.TrimSpace(settings.GetString(configFlagName)))
	if err != nil {
		return environment{}, err
	}

	level := rootConfiguration.Common.Logging.Level
	if override := strings.TrimSpace(settings.GetString(logLevelFlagName)); override != "" {
		level = override
	}
	logger, err := logging.New(level, rootConfiguration.Common.Logging.Format)
	if err != nil {
		return environment{}, err
	}

	installRoot, err := pipeline.InstallRoot(rootConfiguration.Pipeline, os.Executable)
	if err != nil {
		return environment{}, err
	}
	locations, err := pipeline.ResolveLocations(fsops.NewOps(fsops.NewOS()), runtime.GOOS, installRoot, rootConfiguration.Pipeline)
	if err != nil {
		return environment{}, fmt.Errorf("resolve pipeline locations: %w", err)
	}
	logger.Debug("pipeline located",
		zap.String("interpreter", locations.Interpreter),
		zap.String("working_directory", locations.WorkingDirectory),
		zap.String("entry_script", locations.EntryScript),
	)

	invoker := pipeline.NewInvoker(locations,
		pipeline.WithRunner(pipeline.OSProcessRunner{WaitDelay: rootConfiguration.Pipeline.WaitDelay()}),
		pipeline.WithLogger(logger),
		pipeline.WithTimeout(rootConfiguration.Pipeline.Timeout()),
		pipeline.WithProgressPrefix(rootConfiguration.Pipeline.ProgressPrefix),
	)

	return environment{
		logger:  logger,
		invoker: invoker,
		output:  output,
	}, nil
}

func (env environment) close() {
	_ = env.logger.Sync()
}
