package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the shopkeeper CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("shopkeeper version %s\n", version)
		fmt.Println("A small-business finance simulator with double-entry books")
		fmt.Println("https://github.com/rustyeddy/shopkeeper")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
