// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the resconv CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/resconv/internal/environment"
	"github.com/pdiddy/resconv/internal/history"
	"github.com/pdiddy/resconv/internal/logger"
	"github.com/pdiddy/resconv/internal/office"
	"github.com/pdiddy/resconv/internal/route"
	"github.com/pdiddy/resconv/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// annotationNeedsOffice marks commands that run conversions; only those
// trigger environment preparation.
const annotationNeedsOffice = "resconv/needs-office"

var (
	// cfg is the effective configuration, filled before any command runs.
	cfg types.Config
	// log is the process logger, built from cfg.
	log = zap.NewNop()
)

// rootCmd is the base command for the resconv CLI.
var rootCmd = &cobra.Command{
	Use:   "resconv",
	Short: "Convert resumes between DOCX and PDF",
	Long: `resconv converts a resume from DOCX to PDF or from PDF to DOCX.

Conversions try an in-process library or LibreOffice first and fall back to
the other when it fails. Use "resconv convert" from the command line or
"resconv serve" for a web upload form.`,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./resconv.yaml or ~/.config/resconv/resconv.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("install-office", false, "install LibreOffice with apt-get when it is missing (Linux only)")
	rootCmd.PersistentFlags().String("history-db", "", "SQLite file recording conversions (empty disables history)")

	_ = viper.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("environment.install_office", rootCmd.PersistentFlags().Lookup("install-office"))
	_ = viper.BindPFlag("history.db", rootCmd.PersistentFlags().Lookup("history-db"))

	viper.SetDefault("office.binary", "")
	viper.SetDefault("office.timeout", "0s")
	viper.SetDefault("convert.default_name", route.DefaultName)
	viper.SetDefault("server.listen_addr", ":8080")
	viper.SetDefault("server.max_upload_mb", 20)
	viper.SetDefault("server.work_dir", "")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("resconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "resconv"))
		}
	}

	viper.SetEnvPrefix("RESCONV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setup loads the configuration, builds the logger and, for converting
// commands, prepares the environment once.
func setup(cmd *cobra.Command, args []string) error {
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	log = logger.NewLogger(cfg.Log.Debug, os.Stderr)

	if cmd.Annotations[annotationNeedsOffice] == "" {
		return nil
	}
	return environment.Prepare(cmd.Context(), environment.Options{
		InstallOffice: cfg.Environment.InstallOffice,
		Office:        officeOptions(),
	}, log)
}

func officeOptions() office.Options {
	return office.Options{
		Binary:  cfg.Office.Binary,
		Timeout: cfg.Office.Timeout,
	}
}

// openHistory opens the history store, or returns nil when history is disabled.
func openHistory() (*history.Store, error) {
	if cfg.History.DB == "" {
		return nil, nil
	}
	return history.Open(cfg.History.DB)
}

func main() {
	args, dropped := convertArgs(rootCmd, os.Args[1:])
	droppedFlags = dropped
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		os.Exit(1)
	}
}
