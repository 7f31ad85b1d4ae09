package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fmuoria/ai-recruiter/internal/config"
	"github.com/fmuoria/ai-recruiter/internal/logger"
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           config.AppName,
		Short:         "ai-recruiter scores job applicants from a spreadsheet and emails the ones who pass screening",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ai-recruiter.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// setup loads the configuration and builds the logger shared by a command.
func setup() (*config.Config, *zap.Logger, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	log.Debug("configuration loaded",
		zap.String("results_backend", cfg.Results.Backend),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("mail_transport", cfg.Mail.Transport),
	)
	return cfg, log, nil
}
