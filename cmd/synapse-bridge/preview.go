package synapsebridge

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newPreviewCommand(settings *viper.Viper) *cobra.Command {
	values := &sortFlagValues{}
	command := &cobra.Command{
		Use:   previewCommandUse,
		Short: previewCommandShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := prepareEnvironment(settings)
			if err != nil {
				return err
			}
			defer env.close()

			target := args[0]
			result, err := newBridge(env).PreviewSort(cmd.Context(), target, values.options(cmd))
			if err != nil {
				return finishInvocation(cmd.ErrOrStderr(), env.logger, err)
			}
			return writePreview(cmd.OutOrStdout(), env.output, target, result)
		},
	}
	values.register(command.Flags(), false)
	return command
}
