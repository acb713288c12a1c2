package cmd

import (
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/pawprint/pawprint/pkg/publish"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the published snapshot and lease state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	status, err := publish.New(cfg.Paths.Output).Status()
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(status)
	if err != nil {
		return err
	}
	cmd.Print(string(out))
	return nil
}
