package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sellwise/funnel/internal/cli"
	"github.com/sellwise/funnel/pkg/session"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent conversations",
	Long:  `List, inspect, and remove persisted conversations from the local file store or Redis.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored conversations",
	Run: func(cmd *cobra.Command, args []string) {
		manager := getManager(cmd)
		ids, err := manager.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing conversations: %v\n", err)
			os.Exit(1)
		}

		if len(ids) == 0 {
			fmt.Println("No stored conversations found.")
			return
		}

		fmt.Println("Stored Conversations:")
		for _, id := range ids {
			fmt.Println("- " + id)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <conversation-id>",
	Short: "Inspect a stored conversation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		manager := getManager(cmd)

		conv, err := manager.Load(cmd.Context(), id)
		if err != nil {
			fmt.Printf("Error loading conversation '%s': %v\n", id, err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(conv, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling conversation: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <conversation-id>...",
	Short: "Remove one or more conversations",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		manager := getManager(cmd)
		hasError := false

		for _, id := range args {
			if err := manager.Delete(cmd.Context(), id); err != nil {
				fmt.Printf("Error removing '%s': %v\n", id, err)
				hasError = true
			} else {
				fmt.Printf("Removed conversation '%s'\n", id)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionCmd.PersistentFlags().String("redis", "", "Redis URL for session storage (default: local files)")
}

func getManager(cmd *cobra.Command) *session.Manager {
	redisURL, _ := cmd.Flags().GetString("redis")
	manager, err := cli.SetupPersistence(redisURL, nil)
	if err != nil {
		fmt.Printf("Error connecting to store: %v\n", err)
		os.Exit(1)
	}
	return manager
}
