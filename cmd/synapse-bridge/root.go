package synapsebridge

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand builds the command tree. Persistent flags can also be set
// through SYNAPSE_BRIDGE_* environment variables, e.g. SYNAPSE_BRIDGE_LOG_LEVEL.
func NewRootCommand() *cobra.Command {
	settings := viper.New()
	settings.SetEnvPrefix(environmentPrefix)
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	command := &cobra.Command{
		Use:           rootCommandUse,
		Short:         rootCommandShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := command.PersistentFlags()
	flags.String(configFlagName, "", configFlagUsage)
	flags.String(logLevelFlagName, "", logLevelFlagUsage)
	flags.String(formatFlagName, outputFormatJSON, formatFlagUsage)
	flags.String(styleFlagName, "auto", styleFlagUsage)
	flags.Int(widthFlagName, 0, widthFlagUsage)
	_ = settings.BindPFlags(flags)

	command.AddCommand(
		newPreviewCommand(settings),
		newRunCommand(settings),
		newSelectCommand(settings),
		newServeCommand(settings),
	)
	return command
}

// Execute runs the CLI until completion or until SIGINT/SIGTERM, which
// cancels any running pipeline.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}
