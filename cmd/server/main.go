// Package main is the entry point for the dungeon server and tools
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dungeon/cmd/server/client"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "rpg-dungeon",
	Short: "Dungeon crawler server",
	Long:  `rpg-dungeon runs a turn-based dungeon crawler over gRPC or in the local terminal.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.rpg-dungeon/config.yaml)")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
