package synapsebridge

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/temirov/synapse-bridge/internal/pipeline"
	"github.com/temirov/synapse-bridge/internal/report"
)

func newRunCommand(settings *viper.Viper) *cobra.Command {
	values := &sortFlagValues{}
	var withProgress bool

	command := &cobra.Command{
		Use:   runCommandUse,
		Short: runCommandShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := prepareEnvironment(settings)
			if err != nil {
				return err
			}
			defer env.close()

			target := args[0]
			sortBridge := newBridge(env)
			var result pipeline.Result
			if withProgress {
				diagnostics := cmd.ErrOrStderr()
				result, err = sortBridge.RunSortWithProgress(cmd.Context(), target, values.options(cmd), func(frame pipeline.ProgressFrame) {
					fmt.Fprintln(diagnostics, report.ProgressLine(frame))
				})
			} else {
				result, err = sortBridge.RunSort(cmd.Context(), target, values.options(cmd))
			}
			if err != nil {
				return finishInvocation(cmd.ErrOrStderr(), env.logger, err)
			}
			return writeSortReport(cmd.OutOrStdout(), env.output, target, result)
		},
	}
	values.register(command.Flags(), true)
	command.Flags().BoolVar(&withProgress, progressFlagName, false, progressFlagUsage)
	return command
}
