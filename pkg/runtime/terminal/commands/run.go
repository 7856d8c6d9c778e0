package commands

import (
	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/de-tools/tenant-health/pkg/runtime/terminal/export"
	"github.com/de-tools/tenant-health/pkg/services/healthcheck"
	"github.com/spf13/cobra"
)

type RunCmd struct {
	env     *Env
	regions []string
	echo    bool
}

func NewRunCmd(env *Env) *cobra.Command {
	rc := &RunCmd{env: env}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sweep the configured regions and write the health reports",
		RunE:  rc.run,
	}

	cmd.Flags().StringSliceVar(&rc.regions, "region", nil, "Region to sweep, repeatable (default all configured regions)")
	cmd.Flags().BoolVar(&rc.echo, "print", false, "Also print the text report of each region")

	return cmd
}

func (rc *RunCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := rc.env.Config

	sink := export.MultiSink{export.NewFileSink(cfg.Output.Dir, export.DefaultArtifactName, rc.env.Now)}
	if rc.echo {
		sink = append(sink, export.NewReporter(rc.env.Output))
	}

	svc := healthcheck.NewService(cfg, sink, rc.env.Now)
	sweep, err := svc.Sweep(ctx, rc.regions...)
	if err != nil {
		return err
	}

	for _, region := range sweep.Regions {
		printOutcome(cmd, region)
	}
	return nil
}

func printOutcome(cmd *cobra.Command, region domain.RegionReport) {
	failed := 0
	for _, t := range region.Tenants {
		if t.Failed() {
			failed++
		}
	}

	cmd.Printf("%s: %d tenant(s), %d with errors\n", region.Region, len(region.Tenants), failed)
	if region.AuthError != nil {
		cmd.Printf("  login failed: %s\n", *region.AuthError)
	}
}
