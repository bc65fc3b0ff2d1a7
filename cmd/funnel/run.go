package main

import (
	"fmt"
	"os"

	"github.com/sellwise/funnel/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive conversation",
	Long:  `Starts the funnel engine in interactive mode with the given flow definition.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("flow")
		if !cmd.Flags().Changed("flow") && len(args) > 0 {
			path = args[0]
		}
		flowID, _ := cmd.Flags().GetString("id")
		headless, _ := cmd.Flags().GetBool("headless")
		watchMode, _ := cmd.Flags().GetBool("watch")
		debug, _ := cmd.Flags().GetBool("debug")
		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		redisURL, _ := cmd.Flags().GetString("redis")

		err := cli.Execute(cli.RunOptions{
			Path:      path,
			FlowID:    flowID,
			Headless:  headless,
			Watch:     watchMode,
			Debug:     debug,
			SessionID: sessionID,
			Fresh:     fresh,
			RedisURL:  redisURL,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Run in headless mode (no banner, strict IO)")
	runCmd.Flags().BoolP("watch", "w", false, "Run in development mode with hot-reload")
	runCmd.Flags().Bool("debug", false, "Enable debug logging of lifecycle events")
	runCmd.Flags().String("session", "", "Persist progress under this conversation id")
	runCmd.Flags().Bool("fresh", false, "Discard any persisted progress before starting")
	runCmd.Flags().String("redis", "", "Redis URL for session storage (default: local files)")

	// Make 'run' the default if no command is provided.
	rootCmd.Run = runCmd.Run
}
