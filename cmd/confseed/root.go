package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/confseed/confseed/internal/version"
	"github.com/confseed/confseed/pkg/config"
	"github.com/confseed/confseed/pkg/descriptor"
	"github.com/confseed/confseed/pkg/logging"
	"github.com/confseed/confseed/pkg/provider"
)

var (
	verbosity       int
	dryRun          bool
	descriptorsFile string
	secretsProvider string

	rootCmd = &cobra.Command{
		Use:   "confseed",
		Short: "Deploy secrets into configuration files at container startup",
		Long: `confseed injects secret and configuration values into text-based
configuration files before the workload starts. Deployment descriptors name
the target configurations and which variables map to which placeholders;
secret values come from a pluggable secrets provider.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command. The returned code is the process exit
// code: the wrapped command's own exit code for `confseed run`, zero
// otherwise.
func Execute() (int, error) {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		return 1, err
	}
	return exitCode, nil
}

func init() {
	initTemplateFormatting()

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Preview the deployment without writing any file")
	rootCmd.PersistentFlags().StringVar(&descriptorsFile, "descriptors", "", "Load descriptors from a file instead of the environment variable")
	rootCmd.PersistentFlags().StringVar(&secretsProvider, "secrets", "", fmt.Sprintf("Secrets provider to use, one of: %v", provider.Names()))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(runCmd)
}

// newLoader selects the descriptor source: an explicit file when the
// --descriptors flag is set, the configured environment variable
// otherwise.
func newLoader(settings *config.Settings) descriptor.Loader {
	if descriptorsFile != "" {
		return descriptor.NewFileLoader(descriptorsFile)
	}
	return descriptor.NewEnvLoader(settings.Source.Variable)
}

// newProvider builds the secrets provider, letting the --secrets flag
// override the configured default.
func newProvider(settings *config.Settings) (provider.Provider, error) {
	name := settings.Secrets.Provider
	if secretsProvider != "" {
		name = secretsProvider
	}
	return provider.New(name, settings.Secrets.Dir)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("confseed version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(confseed completion bash)

Zsh:
  $ confseed completion zsh > "${fpath[1]}/_confseed"

Fish:
  $ confseed completion fish | source

PowerShell:
  PS> confseed completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate bash completion")
			}
		case "zsh":
			if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate zsh completion")
			}
		case "fish":
			if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
				log.Error().Err(err).Msg("Failed to generate fish completion")
			}
		case "powershell":
			if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate powershell completion")
			}
		}
	},
}
