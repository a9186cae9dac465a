package synapsebridge

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/temirov/synapse-bridge/internal/selection"
)

func newSelectCommand(settings *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:       selectCommandUse,
		Short:     selectCommandShort,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), validSelectTarget),
		ValidArgs: []string{selectTargetFolder, selectTargetFiles},
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := prepareEnvironment(settings)
			if err != nil {
				return err
			}
			defer env.close()

			selectionBridge := newBridge(env)
			var paths []string
			if args[0] == selectTargetFolder {
				var path string
				path, err = selectionBridge.SelectFolder(cmd.Context())
				if err == nil {
					paths = []string{path}
				}
			} else {
				paths, err = selectionBridge.SelectFiles(cmd.Context())
			}

			outcome, err := selection.Outcome(paths, err)
			if err != nil {
				return err
			}
			if env.output.format == outputFormatMarkdown {
				return writeMarkdown(cmd.OutOrStdout(), env.output, selectionMarkdown(outcome))
			}
			return writeValue(cmd.OutOrStdout(), outcome)
		},
	}
}

func validSelectTarget(_ *cobra.Command, args []string) error {
	switch args[0] {
	case selectTargetFolder, selectTargetFiles:
		return nil
	default:
		return fmt.Errorf(unsupportedSelectTargetErrorFormat, args[0])
	}
}

func selectionMarkdown(outcome selection.Result) string {
	if outcome.Cancelled {
		return "_Selection cancelled._\n"
	}
	var builder strings.Builder
	builder.WriteString("# Selection\n\n")
	for _, path := range outcome.Paths {
		fmt.Fprintf(&builder, "- `%s`\n", path)
	}
	return builder.String()
}
