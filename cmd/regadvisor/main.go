// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the regadvisor CLI.
// Implements: prd001-classification, prd002-retrieval, prd004-corpus-store,
//             prd005-validation, prd006-answering (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yinhse00/SmartFinAI-sub003/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the regadvisor CLI.
var rootCmd = &cobra.Command{
	Use:   "regadvisor",
	Short: "Regulatory Q&A engine for Hong Kong listing and takeover matters",
	Long: `regadvisor answers questions about Hong Kong financial-market regulation.
It retrieves the relevant provisions from a local corpus of listing rules,
Takeovers Code extracts, guidance, and precedents, drafts a grounded answer,
and checks the draft for completeness.

Each stage is a subcommand: corpus manages the SQLite-indexed knowledge
store, context shows the retrieval output for a query, ask runs the full
pipeline, and validate checks an existing answer.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./regadvisor.yaml or ~/.config/regadvisor/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("regadvisor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "regadvisor"))
		}
	}

	viper.SetEnvPrefix("REGADVISOR")
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
