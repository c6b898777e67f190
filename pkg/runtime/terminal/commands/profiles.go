package commands

import (
	"github.com/de-tools/finops-agent/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

func NewProfilesCmd(backend Backend, reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List AWS named profiles from the shared config files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, err := backend.Profiles(cmd.Context())
			if err != nil {
				return err
			}
			return reporter.Profiles(profiles)
		},
	}
}
