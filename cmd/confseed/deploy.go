package main

import (
	"github.com/spf13/cobra"

	"github.com/confseed/confseed/pkg/config"
	"github.com/confseed/confseed/pkg/deploy"
	"github.com/confseed/confseed/pkg/logging"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy secrets and values into the described configurations",
	Long: `Deploy loads the deployment descriptors, derives or reads a template
per configuration, fills its placeholders from the secrets provider, and
persists the resulting configuration files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := runDeploy()
		return err
	},
}

// runDeploy performs a deployment run with the settings and flag
// selections of this invocation.
func runDeploy() (*deploy.Result, error) {
	logger := logging.GetLogger("cmd.deploy")

	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	prvd, err := newProvider(settings)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Bool("dryRun", dryRun).
		Str("provider", prvd.Name()).
		Msg("Starting deploy")

	result, err := deploy.Deploy(deploy.Options{
		Loader:   newLoader(settings),
		Provider: prvd,
		Settings: settings,
		DryRun:   dryRun,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("configurations", len(result.Deployments)).
		Bool("dryRun", result.DryRun).
		Msg("Deploy finished")
	return result, nil
}
