package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/confseed/confseed/pkg/logging"
	"github.com/confseed/confseed/pkg/relay"
)

// exitCode carries the wrapped command's exit code out of the cobra
// run so main can exit with it.
var exitCode int

var runCmd = &cobra.Command{
	Use:   "run [flags] -- COMMAND [ARGS...]",
	Short: "Deploy, then exec the wrapped workload command",
	Long: `Run performs the deployment and then starts the wrapped command,
merging its standard error into standard output and relaying output line
by line. confseed exits with the wrapped command's exit code.

The deployment must succeed before the workload starts: any deployment
failure terminates confseed without running the command.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.run")

		if _, err := runDeploy(); err != nil {
			return err
		}

		code, err := relay.Run(cmd.Context(), args, os.Stdout)
		if err != nil {
			return err
		}

		logger.Info().Int("exitCode", code).Msg("Wrapped command exited")
		exitCode = code
		return nil
	},
}
