package main

import (
	"fmt"
	"os"

	"github.com/sellwise/funnel/internal/cli"
	"github.com/sellwise/funnel/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the flow for consistency",
	Long:  `Loads the flow definition and reports dangling references, broken transition stages, and unreachable blocks.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Flow is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("flow")
	if !cmd.Flags().Changed("flow") && len(args) > 0 {
		path = args[0]
	}
	flowID, _ := cmd.Flags().GetString("id")

	engine, err := cli.CreateEngine(cli.RunOptions{Path: path, FlowID: flowID})
	if err != nil {
		return err
	}

	flow, err := engine.Inspect()
	if err != nil {
		return err
	}
	return validator.ValidateFlow(flow)
}
