package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/carelytics/carelytics-cli/internal/profile"
)

var descFlags datasetFlags

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Load a dataset and print its per-column profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := descFlags.load(args[0])
		if err != nil {
			return err
		}
		fmt.Print(profile.Describe(ds, filepath.Base(args[0])).String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	descFlags.register(describeCmd)
}
