package cli

import (
	"fmt"
	"os"

	"github.com/bluepencil/citecheck/internal/model"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "citecheck",
	Short: "Citecheck - legal citation validation engine",
	Long: `Citecheck validates legal citations found in document footnotes.

It extracts individual citations from footnote text, classifies them by
type (case, statute, constitution, book, article), runs deterministic
formatting checks, retrieves the citation-manual rules each citation is
likely to implicate, and optionally asks a reasoning model to review the
citation against those rules. Every rule violation the reasoner reports
must carry a verbatim quote from a retrieved rule; unverifiable reports
are rejected rather than passed through.

Citecheck can also verify quoted material against source documents and
flag extraction regions whose text looks corrupted.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("citecheck v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.citecheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.citecheck")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CITECHECK_*
	viper.SetEnvPrefix("CITECHECK")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig returns the calibrated defaults overlaid with whatever the
// config file and environment provided.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	if viper.ConfigFileUsed() != "" {
		_ = viper.Unmarshal(cfg)
	}
	return cfg
}
