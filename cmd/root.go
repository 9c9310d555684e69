package cmd

import (
	"github.com/spf13/cobra"

	"github.com/saqibullah/heart-disease-predictor/config"
)

var rootCmd = &cobra.Command{
	Use:   "heartpredict",
	Short: "Heart disease risk prediction service",
	Long:  "heartpredict serves a localized form and a JSON API that estimate heart disease risk with one of three pre-trained classifiers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("models-dir", "", "Directory holding the model artifacts (overrides MODELS_DIR env var)")
	rootCmd.Flags().String("port", "", "HTTP port (overrides PORT env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment, then applies any flags set on cmd.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	if dir, _ := cmd.Flags().GetString("models-dir"); dir != "" {
		cfg.Models.Dir = dir
	}
	if f := cmd.Flags().Lookup("port"); f != nil && f.Value.String() != "" {
		cfg.Server.Port = f.Value.String()
	}
	return cfg
}
