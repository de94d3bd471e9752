package commands

import (
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the kundali version",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println("kundali " + version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
