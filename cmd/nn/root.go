package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thepoff1327/N-and-N/internal/config"
	"github.com/thepoff1327/N-and-N/internal/i18n"
)

var (
	// Global flags
	cfgPath          string
	translationsPath string
	langFlag         string
	verbose          bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nn",
	Short: "Interactive checker for expressions over N and N*",
	Long: `nn analyzes a mathematical expression in one variable over N or N*:
it samples the expression, checks set membership of each result, decomposes
integer results as 2K or 2K+1, and reports prime/divisor structure.

Prompts are available in English, French and Arabic; translations are loaded
from a JSON catalog at startup.

Run without arguments to start the interactive session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("translations") {
			cfg.Translations = translationsPath
		}
		if langFlag != "" {
			cfg.Language = langFlag
		}
		if cfg.Language != "" && !i18n.Supported(cfg.Language) {
			return fmt.Errorf("unsupported language %q (supported: %s)",
				cfg.Language, strings.Join(i18n.Languages, ", "))
		}

		zapCfg := zap.NewProductionConfig()
		// The interactive session owns stdout; diagnostics go to stderr.
		zapCfg.OutputPaths = []string{"stderr"}
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession()
	},
}

// Execute runs the root command. Any error (including a missing or
// malformed translation file) exits with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&translationsPath, "translations", "translations.json", "path to the JSON translation catalog")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "prompt language (en, fr, ar); default asks interactively")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
