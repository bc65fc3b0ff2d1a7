package main

import (
	"fmt"
	"os"

	"github.com/sellwise/funnel/internal/cli"
	"github.com/sellwise/funnel/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the flow graph visualization",
	Long:  `Inspects the flow definition and outputs a Mermaid diagram (graph TD) with stages as subgraphs and offer timers as dotted edges.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("flow")
		if !cmd.Flags().Changed("flow") && len(args) > 0 {
			path = args[0]
		}
		flowID, _ := cmd.Flags().GetString("id")

		engine, err := cli.CreateEngine(cli.RunOptions{Path: path, FlowID: flowID})
		if err != nil {
			fmt.Printf("Error initializing funnel: %v\n", err)
			os.Exit(1)
		}

		flow, err := engine.Inspect()
		if err != nil {
			fmt.Printf("Error inspecting flow: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(flow, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
