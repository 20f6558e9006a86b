// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gostbib CLI, which turns BibTeX
// databases into GOST-style LaTeX reference lists.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time via ldflags.
var version = "dev"

// logger receives diagnostics from every command. It is built in
// PersistentPreRunE.
var logger = zap.NewNop()

// rootCmd is the base command for the gostbib CLI.
var rootCmd = &cobra.Command{
	Use:   "gostbib",
	Short: "Format BibTeX databases as GOST reference lists for LaTeX",
	Long: `gostbib reads a BibTeX-style bibliography database and writes a LaTeX
thebibliography block whose entries follow GOST layout rules. Entries with
Cyrillic titles (and all patents) are listed first with Russian vocabulary;
the rest follow with English vocabulary. Each list is sorted by its text.

Use render to produce the block, check to report entries that would be
skipped, export to dump entries or records in other formats, and catalog to
keep many databases in one searchable store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.DisableStacktrace = true
		if viper.GetBool("verbose") {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./gostbib.yaml or ~/.config/gostbib/gostbib.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug diagnostics")
	rootCmd.PersistentFlags().String("encoding", "", "encoding of input files (default windows-1251)")
	rootCmd.PersistentFlags().String("output-encoding", "", "encoding of written output (default: same as --encoding)")
	rootCmd.PersistentFlags().StringSlice("capital", nil, "address abbreviation as City=Abbr (repeatable, replaces the default Москва=М.)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("encoding", rootCmd.PersistentFlags().Lookup("encoding"))
	viper.BindPFlag("output_encoding", rootCmd.PersistentFlags().Lookup("output-encoding"))
	viper.BindPFlag("capitals", rootCmd.PersistentFlags().Lookup("capital"))

	setDefaults()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gostbib")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gostbib"))
		}
	}

	viper.SetEnvPrefix("GOSTBIB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
