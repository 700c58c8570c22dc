// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cidados CLI, the access layer for
// the Insper Cidades urban dataset collection: catalog listing, cached
// dataset retrieval, citation generation, and the survey harmonization
// pipeline.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inspercidados/cidados/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the cidados CLI.
var rootCmd = &cobra.Command{
	Use:   "cidados",
	Short: "Cached access to Brazilian urban public datasets",
	Long: `cidados gives standardized access to the Insper Cidades collection of
Brazilian urban public datasets (IPTU, ITBI, construction permits, mobility
surveys) hosted on Dataverse.

Datasets are downloaded once into a local cache and loaded from there on
every later call. Subcommands cover retrieval (get, sync), inspection
(info, list, describe, cache), citation (cite), and the mobility-survey
harmonization pipeline (harmonize).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./cidados.yaml or ~/.config/cidados/config.yaml)")
}

func initConfig() {
	// .env is a developer convenience; a missing file is fine.
	godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cidados")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cidados"))
		}
	}

	viper.SetEnvPrefix("CIDADOS")
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
