/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/quickfire/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the quickfire version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("quickfire v%s\n", version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
