package main

import (
	"fmt"

	"github.com/aretw0/selim"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of selim",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "selim version %s\n", selim.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
