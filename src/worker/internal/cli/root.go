package cli

import (
	"os"
	"path/filepath"

	"github.com/apex/log"
	clihandler "github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
	"github.com/veedubyou/stem-separator/src/shared/config"
	"github.com/veedubyou/stem-separator/src/shared/config/envvar"
	"github.com/veedubyou/stem-separator/src/worker/internal/executor"
)

// Dependencies are the host facing pieces the commands need, tests swap in dummies
type Dependencies struct {
	Executor        executor.Executor
	SpleeterBinPath string
	PythonBinPath   string
	WorkingDir      string
}

func DefaultDependencies() Dependencies {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}

	return Dependencies{
		Executor:        executor.BinaryFileExecutor{},
		SpleeterBinPath: envvar.Get(envvar.SPLEETER_BIN_PATH, config.SpleeterPath()),
		PythonBinPath:   envvar.Get(envvar.PYTHON_BIN_PATH, config.PythonPath()),
		WorkingDir:      envvar.Get(envvar.SPLEETER_WORKING_DIR_PATH, filepath.Join(cacheDir, "stemsplit")),
	}
}

type rootOptions struct {
	jsonOutput bool
	verbose    bool
}

func NewRootCommand(deps Dependencies) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "stemsplit",
		Short: "Split a timeline's active sound clip into stems",
		Long: `stemsplit separates the active sound clip of a timeline into 2, 4 or 5 stems
with spleeter and places every stem on its own new lane, in sync with the source.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetHandler(clihandler.New(cmd.ErrOrStderr()))
			if opts.verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.WarnLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")

	rootCmd.AddCommand(newSeparateCommand(deps, opts))
	rootCmd.AddCommand(newStemsCommand(opts))
	rootCmd.AddCommand(newShowCommand(opts))

	return rootCmd
}

func Execute() error {
	return NewRootCommand(DefaultDependencies()).Execute()
}
