package synapsebridge

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/temirov/synapse-bridge/internal/bridge"
)

func newServeCommand(settings *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   serveCommandUse,
		Short: serveCommandShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := prepareEnvironment(settings)
			if err != nil {
				return err
			}
			defer env.close()

			registry := bridge.DefaultRegistry()
			env.logger.Info("serving bridge requests")
			server := bridge.NewServer(newBridge(env), registry, env.logger)
			return server.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
