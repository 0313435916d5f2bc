package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/anvil"
	"github.com/dmitrymomot/anvil/pkg/config"
	"github.com/dmitrymomot/anvil/pkg/logger"
)

var (
	// Global flags
	appDir     string
	runtimeDir string
	envPrefix  string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "anvil",
	Short: "Tooling for Anvil applications",
	Long: `anvil works on an application directory: the one holding config.yaml,
route files and module directories.

Routes:
  anvil route build   # compile route files into the runtime directory
  anvil route clear   # remove the compiled route file
  anvil route list    # print the route rules
  anvil route watch   # rebuild on route file changes`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&appDir, "app", "a", ".", "application directory")
	rootCmd.PersistentFlags().StringVar(&runtimeDir, "runtime", "", "runtime directory (default <app>/runtime)")
	rootCmd.PersistentFlags().StringVar(&envPrefix, "env-prefix", "ANVIL_", "prefix of configuration environment overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// newApp builds an app over the application directory. Controllers are not
// needed for the tooling commands.
func newApp(cmd *cobra.Command) *anvil.App {
	dir := runtimeDir
	if dir == "" {
		dir = filepath.Join(appDir, "runtime")
	}
	log := logger.New(
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithFormat("text"),
		logger.WithLevel(logger.ParseLevel(logLevel)),
	)
	return anvil.New(
		anvil.WithAppFS(os.DirFS(appDir)),
		anvil.WithConfig(config.New(config.WithEnvPrefix(envPrefix))),
		anvil.WithRuntimePath(dir),
		anvil.WithLogger(log),
	)
}
