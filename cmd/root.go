// Package cmd is for command line interactions with the alnmerge application
package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jjtimmons/alnmerge/config"
)

// settingsPath is the optional path to a YAML settings file.
var settingsPath string

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "alnmerge",
	Short: `Merge pairwise alignments onto one anchor sequence.
Combine BLAST, PAF and SAM alignments into a single multi-row alignment`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	cobra.OnInitialize(readSettings)

	RootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "s", "", "path to a YAML settings file")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "whether to log the merge in detail")
	RootCmd.PersistentFlags().StringToStringP("synonyms", "y", nil, "sequence name synonyms, ex: chr1=NC_000001")

	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("synonyms", RootCmd.PersistentFlags().Lookup("synonyms"))
}

// readSettings merges the settings file, if one was passed, under the flags.
func readSettings() {
	if settingsPath == "" {
		return
	}
	if err := config.ReadSettings(settingsPath); err != nil {
		log.Fatal(err)
	}
}
