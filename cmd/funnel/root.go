package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "funnel",
	Short: "Funnel is a guided conversation engine for sales flows",
	Long:  `Funnel walks visitors through staged conversational flows defined in simple YAML files, from qualification questions to offers with upsell and downsell timers.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("flow", ".", "YAML file or directory containing the flow definitions")
	rootCmd.PersistentFlags().String("id", "", "Flow id to run when the source holds several")
}
