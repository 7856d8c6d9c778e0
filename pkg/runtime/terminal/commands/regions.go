package commands

import (
	"github.com/spf13/cobra"
)

func NewRegionsCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the configured regions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, r := range env.Config.Regions {
				cmd.Printf("%-8s %-48s %d tenant(s)\n", r.Name, r.APIURL, len(r.Tenants))
			}
			return nil
		},
	}
}
