package synapsebridge

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/temirov/synapse-bridge/internal/bridge"
	"github.com/temirov/synapse-bridge/internal/dialog"
	"github.com/temirov/synapse-bridge/internal/pipeline"
	"github.com/temirov/synapse-bridge/internal/selection"
)

// sortFlagValues collects the sort option flags shared by preview and run.
type sortFlagValues struct {
	sensitivity       string
	namingStyle       string
	includeSubfolders *bool
	dryRun            *bool
}

func (values *sortFlagValues) register(flags *pflag.FlagSet, withDryRun bool) {
	flags.StringVar(&values.sensitivity, sensitivityFlagName, "", sensitivityFlagUsage)
	flags.StringVar(&values.namingStyle, namingStyleFlagName, "", namingStyleFlagUsage)
	registerOptionalBool(flags, &values.includeSubfolders, includeSubfoldersFlagName, includeSubfoldersFlagUsage)
	if withDryRun {
		registerOptionalBool(flags, &values.dryRun, dryRunFlagName, dryRunFlagUsage)
	}
}

func registerOptionalBool(flags *pflag.FlagSet, target **bool, name string, usage string) {
	flags.Var(newOptionalBoolValue(target), name, usage)
	if flag := flags.Lookup(name); flag != nil {
		flag.NoOptDefVal = "true"
	}
}

// options returns the options the user actually gave, or nil for none.
func (values *sortFlagValues) options(command *cobra.Command) *pipeline.SortOptions {
	options := &pipeline.SortOptions{
		DryRun:            values.dryRun,
		IncludeSubfolders: values.includeSubfolders,
	}
	if command.Flags().Changed(sensitivityFlagName) {
		options.ClusterSensitivity = pipeline.String(values.sensitivity)
	}
	if command.Flags().Changed(namingStyleFlagName) {
		options.FolderNamingStyle = pipeline.String(values.namingStyle)
	}
	if *options == (pipeline.SortOptions{}) {
		return nil
	}
	return options
}

func newBridge(env environment) *bridge.Bridge {
	selector := selection.NewAdapter(dialog.NewTerminal("", env.logger), env.logger)
	return bridge.New(selector, env.invoker, env.logger)
}
