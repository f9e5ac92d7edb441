package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show staffwatch version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("staffwatch %s (commit %s, built %s)\n", version, commit, date)
	},
}
