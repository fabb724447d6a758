package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/output"
	"github.com/MyCarrier-DevOps/go-gitbump/pkg/gitbump"
)

var currentVersionCmd = &cobra.Command{
	Use:   "current-version",
	Short: "Print the current version from the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := checkOutputFormat(); err != nil {
			return err
		}
		v, err := gitbump.CurrentVersion(flagCwd, flagConfig)
		if err != nil {
			return err
		}
		if flagOutput == "json" {
			return output.WriteJSON(cmd.OutOrStdout(), map[string]string{"current_version": v})
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
		return err
	},
}

func init() {
	rootCmd.AddCommand(currentVersionCmd)
}
