package main

import (
	"fmt"
	"os"

	"github.com/jingkaihe/mindreg/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("MINDREG")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.mindreg")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "mindreg",
	Short: "Mind registry for AI agents",
	Long: `mindreg discovers, indexes, and serves minds: markdown-defined skill
bundles that agents load into context on demand instead of carrying them all
in a system prompt.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt or json)")
	rootCmd.PersistentFlags().StringSlice("mind-dirs", nil, "Directories to discover minds from (overrides config)")
	rootCmd.PersistentFlags().String("strategy", "", "Collision strategy when providers declare the same mind (first or last)")
	rootCmd.PersistentFlags().Bool("no-minds", false, "Disable mind discovery")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("minds.dirs", rootCmd.PersistentFlags().Lookup("mind-dirs"))
	viper.BindPFlag("minds.strategy", rootCmd.PersistentFlags().Lookup("strategy"))
	viper.BindPFlag("no_minds", rootCmd.PersistentFlags().Lookup("no-minds"))

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
