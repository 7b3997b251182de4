// Package cli implements the plottoru command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ankek/terraform-provider-plottoru/internal/generation"
	"github.com/ankek/terraform-provider-plottoru/internal/pipeline"
)

const appName = "plottoru"

var (
	version = "dev" // semantic version (e.g., "v1.2.3")
	commit  string  // git commit SHA
	date    string  // build timestamp
)

// SetVersion sets the version information displayed by --version.
// It is called from main with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the plottoru CLI with ctx and returns an error if any
// command fails.
//
// Generator settings are read, highest priority first, from flags,
// PLOTTORU_* environment variables and the optional plottoru.yaml config
// file. The logger is attached to the command context at info level, or
// debug level with --verbose.
func Execute(ctx context.Context) error {
	return newRootCmd(viper.New()).ExecuteContext(ctx)
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var (
		verbose bool
		cfgFile string
	)

	root := &cobra.Command{
		Use:   appName,
		Short: "Plottoru scores items on two axes and draws a quadrant chart",
		Long: `Plottoru asks a text generator to pick items for a theme, score them on
two axes from 0 to 100, and draws the result as a 2-axis matrix chart.
Without a configured generator the built-in sample data is plotted.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := pipeline.NewLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(pipeline.WithLogger(cmd.Context(), logger))

			return initConfig(v, cfgFile, logger)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("plottoru %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	flags := root.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./plottoru.yaml or ~/.config/plottoru/plottoru.yaml)")
	flags.String("generator", "", "text generator: sample (default), gemini, openai")
	flags.String("model", "", "model identifier, generator default when empty")
	flags.String("endpoint", "", "base URL of an OpenAI-compatible API")
	flags.String("api-key", "", "API key for the generator")
	flags.Duration("timeout", 0, "per-request generation timeout, none when zero")
	for _, name := range []string{"generator", "model", "endpoint", "api-key", "timeout"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(newPromptCmd())
	root.AddCommand(newRenderCmd(v))
	root.AddCommand(newServeCmd(v))
	root.AddCommand(newVersionCmd())

	return root
}

// initConfig wires the environment and the config file into v.
func initConfig(v *viper.Viper, cfgFile string, logger *charmlog.Logger) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
	}

	v.SetEnvPrefix("PLOTTORU")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	logger.Debug("using config file", "path", v.ConfigFileUsed())
	return nil
}

// generatorConfig returns the generator settings resolved by v.
func generatorConfig(v *viper.Viper) generation.Config {
	cfg := generation.Config{
		Provider: v.GetString("generator"),
		Model:    v.GetString("model"),
		Endpoint: v.GetString("endpoint"),
		APIKey:   v.GetString("api-key"),
		Timeout:  v.GetDuration("timeout"),
	}
	if cfg.APIKey == "" {
		switch strings.ToLower(cfg.Provider) {
		case generation.ProviderGemini:
			cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		case generation.ProviderOpenAI:
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	return cfg
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of plottoru",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "plottoru %s\n", version)
		},
	}
}
